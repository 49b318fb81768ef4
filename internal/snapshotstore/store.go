// Package snapshotstore keeps a bounded ring of recently-received snapshots
// and reconstructs deltas against a remembered base, so the client tolerates
// dropped packets without waiting on retransmission.
package snapshotstore

import "orbit/client/internal/wire"

// Entry pairs a decoded snapshot with the wall-clock time it was pushed and
// a precomputed index of its gravity wells by id. The interpolator does not
// read this index; it builds its own per-pair lookup when blending wells.
type Entry struct {
	Tick     uint64
	PushedAt int64 // milliseconds, monotonic clock
	Snapshot wire.GameSnapshot
	Wells    map[uint32]wire.GravityWellSnapshot
}

// Store is a capacity-bounded ring of Entry, ordered oldest to newest by
// push order (not necessarily by tick, since late snapshots are tolerated).
type Store struct {
	capacity    int
	entries     []Entry
	currentTick uint64
	now         func() int64
}

// New builds a Store with the given capacity and a clock function returning
// milliseconds. Capacity must be at least 1; callers pass config values.
func New(capacity int, now func() int64) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
		now:      now,
	}
}

// CurrentTick reports the highest tick ever successfully pushed.
func (s *Store) CurrentTick() uint64 { return s.currentTick }

// Len reports how many entries are currently buffered.
func (s *Store) Len() int { return len(s.entries) }

// Entries exposes the buffered entries in push order, oldest first. The
// returned slice aliases internal storage and must not be mutated.
func (s *Store) Entries() []Entry { return s.entries }

// Push records a freshly decoded snapshot, trims the oldest entry if the
// store is over capacity, and bumps currentTick when the snapshot's tick
// exceeds it. Late snapshots (tick <= currentTick) are still stored; they
// never rewind currentTick but may later serve as a delta base.
func (s *Store) Push(snapshot wire.GameSnapshot) {
	entry := Entry{
		Tick:     snapshot.Tick,
		PushedAt: s.now(),
		Snapshot: snapshot,
		Wells:    indexWells(snapshot.GravityWells),
	}
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.capacity {
		//1.- Drop the oldest entry; the ring never grows past capacity.
		s.entries = s.entries[1:]
	}
	if snapshot.Tick > s.currentTick {
		s.currentTick = snapshot.Tick
	}
}

// ApplyDelta locates the entry whose tick matches delta.BaseTick and pushes
// a synthesized snapshot built from it. If no such entry exists, the delta
// is silently discarded; the caller recovers on the next full snapshot.
func (s *Store) ApplyDelta(delta wire.DeltaUpdate) {
	base, ok := s.findByTick(delta.BaseTick)
	if !ok {
		return
	}
	synthesized := synthesize(base, delta)
	s.Push(synthesized)
}

// Reset empties the store and resets currentTick to 0.
func (s *Store) Reset() {
	s.entries = s.entries[:0]
	s.currentTick = 0
}

func (s *Store) findByTick(tick uint64) (wire.GameSnapshot, bool) {
	//1.- Search from newest to oldest; the base for a delta is almost always recent.
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Tick == tick {
			return s.entries[i].Snapshot, true
		}
	}
	return wire.GameSnapshot{}, false
}

func indexWells(wells []wire.GravityWellSnapshot) map[uint32]wire.GravityWellSnapshot {
	if len(wells) == 0 {
		return nil
	}
	indexed := make(map[uint32]wire.GravityWellSnapshot, len(wells))
	for _, w := range wells {
		indexed[w.ID] = w
	}
	return indexed
}

// synthesize builds a complete GameSnapshot from base plus delta: shallow-copy
// arrays from base, apply per-id field overrides, drop removed projectiles,
// replace the debris array wholesale, and inherit every other scalar field
// unchanged.
func synthesize(base wire.GameSnapshot, delta wire.DeltaUpdate) wire.GameSnapshot {
	out := base
	out.Tick = delta.Tick

	out.Players = applyPlayerDeltas(base.Players, delta.PlayerUpdates)
	out.Projectiles = applyProjectileDeltas(base.Projectiles, delta.ProjectileUpdates, delta.RemovedProjectiles)
	out.Debris = delta.Debris

	return out
}

func applyPlayerDeltas(base []wire.PlayerSnapshot, updates []wire.PlayerDelta) []wire.PlayerSnapshot {
	if len(updates) == 0 {
		return base
	}
	byID := make(map[string]wire.PlayerDelta, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}
	out := make([]wire.PlayerSnapshot, len(base))
	copy(out, base)
	for i, p := range out {
		d, ok := byID[p.ID]
		if !ok {
			continue
		}
		if d.Position != nil {
			p.Position = *d.Position
		}
		if d.Velocity != nil {
			p.Velocity = *d.Velocity
		}
		if d.Rotation != nil {
			p.Rotation = *d.Rotation
		}
		if d.Mass != nil {
			p.Mass = *d.Mass
		}
		if d.Alive != nil {
			p.Flags.Alive = *d.Alive
		}
		if d.Kills != nil {
			p.Kills = *d.Kills
		}
		out[i] = p
	}
	return out
}

func applyProjectileDeltas(base []wire.ProjectileSnapshot, updates []wire.ProjectileDelta, removed []uint64) []wire.ProjectileSnapshot {
	removedSet := make(map[uint64]struct{}, len(removed))
	for _, id := range removed {
		removedSet[id] = struct{}{}
	}
	byID := make(map[uint64]wire.ProjectileDelta, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}
	out := make([]wire.ProjectileSnapshot, 0, len(base))
	for _, p := range base {
		if _, dropped := removedSet[p.ID]; dropped {
			continue
		}
		if d, ok := byID[p.ID]; ok {
			p.Position = d.Position
			p.Velocity = d.Velocity
		}
		out = append(out, p)
	}
	return out
}
