// Package worldview derives a read-model for the renderer from the latest
// interpolated snapshot plus side-channel event history: display names,
// transient effects, session statistics, and destroyed-well bookkeeping.
// It never mutates the snapshot/interpolator output it reads.
package worldview

import (
	"sort"

	"orbit/client/internal/wire"
)

// Vec2 aliases the wire representation so callers need not import wire
// directly for the common case.
type Vec2 = wire.Vec2

// SessionStats tracks the local player's best-known achievements for the
// current connection, independent of any single snapshot.
type SessionStats struct {
	BestMass       float32
	KillStreak     uint32
	BestKillStreak uint32
	LastSpawnTime  int64
	TotalKills     uint32
	TotalDeaths    uint32
	BestTimeAlive  int64
}

type playerMemory struct {
	alive    bool
	position Vec2
	color    uint8
	kills    uint32
}

// LeaderboardEntry is a derived, alive-only leaderboard row.
type LeaderboardEntry struct {
	ID   string
	Name string
	Mass float32
}

// WorldView is the renderer-facing read-model built from decoded traffic.
type WorldView struct {
	localPlayerID string

	displayNames map[string]string
	effects      *effectRing

	stats         SessionStats
	lastSeen      map[string]playerMemory
	spawnedAt     int64

	destroyedWells map[uint32]int64 // id -> time marked destroyed
	wellBornTimes  map[uint32]int64 // id -> time first observed alive
	chargingWells  map[uint32]struct{}

	observedSnapshot bool

	totalPlayers uint32
	totalAlive   uint32
}

// New builds an empty WorldView for the given local player id and a cap on
// concurrent transient effects.
func New(localPlayerID string, effectCap int) *WorldView {
	return &WorldView{
		localPlayerID:  localPlayerID,
		displayNames:   make(map[string]string),
		effects:        newEffectRing(effectCap),
		lastSeen:       make(map[string]playerMemory),
		destroyedWells: make(map[uint32]int64),
		wellBornTimes:  make(map[uint32]int64),
		chargingWells:  make(map[uint32]struct{}),
	}
}

// RememberName caches a display name learned from a PlayerJoined event, used
// as a fallback when a snapshot's AOI filter omits a player's own name field.
func (wv *WorldView) RememberName(id, name string) {
	wv.displayNames[id] = name
}

// DisplayName returns the cached name for id, or the snapshot-provided
// fallback if no cached name exists.
func (wv *WorldView) DisplayName(id, fallback string) string {
	if name, ok := wv.displayNames[id]; ok && name != "" {
		return name
	}
	return fallback
}

// PushEffect records a new transient effect.
func (wv *WorldView) PushEffect(e Effect) {
	wv.effects.push(e)
}

// Effects returns the currently live effects after pruning expired ones.
func (wv *WorldView) Effects(now int64) []Effect {
	wv.effects.prune(now)
	return wv.effects.all()
}

// MarkWellDestroyed records a well as destroyed at the given time,
// for interpolator filtering and UI halo effects.
func (wv *WorldView) MarkWellDestroyed(id uint32, now int64) {
	wv.destroyedWells[id] = now
}

// ReapDestroyedWells drops any destroyed-well id the server has stopped
// advertising, allowing the id to be re-registered later with a fresh
// bornTime.
func (wv *WorldView) ReapDestroyedWells(latest wire.GameSnapshot) {
	present := make(map[uint32]struct{}, len(latest.GravityWells))
	for _, w := range latest.GravityWells {
		present[w.ID] = struct{}{}
	}
	for id := range wv.destroyedWells {
		if _, ok := present[id]; !ok {
			delete(wv.destroyedWells, id)
			delete(wv.wellBornTimes, id)
		}
	}
}

// DestroyedWellIDs exposes the currently tracked destroyed-well ids.
func (wv *WorldView) DestroyedWellIDs() map[uint32]int64 { return wv.destroyedWells }

// WellBornTime returns the wall-clock time a well id was first observed
// alive, or 0 if the id was already present in the very first snapshot this
// WorldView ever saw. The second return value is false if the id has never
// been observed.
func (wv *WorldView) WellBornTime(id uint32) (int64, bool) {
	t, ok := wv.wellBornTimes[id]
	return t, ok
}

// Stats returns the accumulated session statistics for the local player.
func (wv *WorldView) Stats() SessionStats { return wv.stats }

// Observe updates session statistics and per-player memory from the latest
// interpolated state, comparing it against what was last observed for each
// player.
func (wv *WorldView) Observe(state wire.GameSnapshot, now int64) {
	wv.totalPlayers = state.TotalPlayers
	wv.totalAlive = state.TotalAlive

	for _, p := range state.Players {
		prev, known := wv.lastSeen[p.ID]
		if p.ID == wv.localPlayerID {
			wv.observeLocal(prev, known, p, now)
		}
		wv.lastSeen[p.ID] = playerMemory{alive: p.Flags.Alive, position: p.Position, color: p.ColorIndex, kills: p.Kills}
	}

	//1.- A well first seen in the very first snapshot is born at time zero;
	// any well seen for the first time thereafter is born now.
	for _, w := range state.GravityWells {
		if _, ok := wv.wellBornTimes[w.ID]; ok {
			continue
		}
		if wv.observedSnapshot {
			wv.wellBornTimes[w.ID] = now
		} else {
			wv.wellBornTimes[w.ID] = 0
		}
	}
	wv.observedSnapshot = true
}

func (wv *WorldView) observeLocal(prev playerMemory, known bool, p wire.PlayerSnapshot, now int64) {
	if known {
		if delta := int64(p.Kills) - int64(prev.kills); delta > 0 {
			wv.stats.KillStreak += uint32(delta)
			if wv.stats.KillStreak > wv.stats.BestKillStreak {
				wv.stats.BestKillStreak = wv.stats.KillStreak
			}
			wv.stats.TotalKills += uint32(delta)
		}
		if prev.alive && !p.Flags.Alive {
			wv.stats.KillStreak = 0
			if wv.spawnedAt != 0 {
				aliveFor := now - wv.spawnedAt
				if aliveFor > wv.stats.BestTimeAlive {
					wv.stats.BestTimeAlive = aliveFor
				}
			}
			wv.stats.TotalDeaths++
		}
		if !prev.alive && p.Flags.Alive {
			wv.stats.LastSpawnTime = now
			wv.spawnedAt = now
		}
	} else if p.Flags.Alive {
		wv.stats.LastSpawnTime = now
		wv.spawnedAt = now
	}
	if p.Mass > wv.stats.BestMass {
		wv.stats.BestMass = p.Mass
	}
}

// OnGravityWellCharging records that a well is building toward detonation,
// driving a charging-halo effect in the renderer.
func (wv *WorldView) OnGravityWellCharging(id uint32, pos Vec2, now int64) {
	wv.chargingWells[id] = struct{}{}
	wv.PushEffect(Effect{Kind: EffectChargingHalo, Position: pos, BornAt: now, LifetimeMs: chargingHaloLifetimeMs})
}

// OnGravityWaveExplosion retires the well's charging state and records a
// wave-burst effect at its detonation site.
func (wv *WorldView) OnGravityWaveExplosion(id uint32, pos Vec2, now int64) {
	delete(wv.chargingWells, id)
	wv.PushEffect(Effect{Kind: EffectGravityWave, Position: pos, BornAt: now, LifetimeMs: gravityWaveLifetimeMs})
}

// IsCharging reports whether a well currently has an active charging entry.
func (wv *WorldView) IsCharging(id uint32) bool {
	_, ok := wv.chargingWells[id]
	return ok
}

// Leaderboard returns alive players sorted by mass descending.
func Leaderboard(state wire.GameSnapshot) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(state.Players))
	for _, p := range state.Players {
		if !p.Flags.Alive {
			continue
		}
		entries = append(entries, LeaderboardEntry{ID: p.ID, Name: p.Name, Mass: p.Mass})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Mass > entries[j].Mass })
	return entries
}

// Placement returns the 1-based rank of playerID on the leaderboard, or 0 if
// absent (dead or unknown).
func Placement(state wire.GameSnapshot, playerID string) int {
	board := Leaderboard(state)
	for i, e := range board {
		if e.ID == playerID {
			return i + 1
		}
	}
	return 0
}

// AliveCount prefers the server-reported total, falling back to a local
// count derived from the snapshot's player list.
func AliveCount(state wire.GameSnapshot) uint32 {
	if state.TotalAlive > 0 {
		return state.TotalAlive
	}
	var count uint32
	for _, p := range state.Players {
		if p.Flags.Alive {
			count++
		}
	}
	return count
}

// TotalCount prefers the server-reported total, falling back to the length
// of the snapshot's player list.
func TotalCount(state wire.GameSnapshot) uint32 {
	if state.TotalPlayers > 0 {
		return state.TotalPlayers
	}
	return uint32(len(state.Players))
}
