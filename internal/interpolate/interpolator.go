// Package interpolate renders a blended world state at a fixed delay behind
// the wall clock, smoothing over network jitter and packet reordering by
// interpolating between two bracketing snapshots.
package interpolate

import (
	"orbit/client/internal/snapshotstore"
	"orbit/client/internal/wire"
)

// Interpolator derives a renderable GameSnapshot from the buffered entries
// in a snapshotstore.Store at a fixed delay behind the wall clock.
type Interpolator struct {
	delayMs int64
	// destroyedWells mirrors WorldView's destroyed-well bookkeeping; a well
	// present in this set is filtered out of every interpolated frame.
	destroyedWells map[uint32]struct{}
}

// New builds an Interpolator with the configured interpolation delay.
func New(delayMs int64) *Interpolator {
	return &Interpolator{delayMs: delayMs, destroyedWells: make(map[uint32]struct{})}
}

// MarkWellDestroyed flags a gravity well to be filtered from every
// interpolated frame until the server itself stops advertising it.
func (ip *Interpolator) MarkWellDestroyed(id uint32) {
	ip.destroyedWells[id] = struct{}{}
}

// ReapDestroyedWells drops any destroyed-well id absent from the latest
// snapshot's well set: once the server stops advertising an id it is no
// longer tracked, and may later be re-registered with a fresh bornTime.
func (ip *Interpolator) ReapDestroyedWells(latest wire.GameSnapshot) {
	present := make(map[uint32]struct{}, len(latest.GravityWells))
	for _, w := range latest.GravityWells {
		present[w.ID] = struct{}{}
	}
	for id := range ip.destroyedWells {
		if _, ok := present[id]; !ok {
			delete(ip.destroyedWells, id)
		}
	}
}

// Render derives the interpolated GameSnapshot for wallNow (milliseconds,
// monotonic). It reports ok=false when the store has no entries at all.
func (ip *Interpolator) Render(entries []snapshotstore.Entry, wallNow int64) (wire.GameSnapshot, bool) {
	if len(entries) == 0 {
		return wire.GameSnapshot{}, false
	}
	if len(entries) == 1 {
		return ip.filterWells(entries[0].Snapshot), true
	}

	renderTime := wallNow - ip.delayMs
	before, after, t := bracket(entries, renderTime)
	blended := blend(before.Snapshot, after.Snapshot, t)
	return ip.filterWells(blended), true
}

// bracket finds the adjacent pair (before, after) with
// before.PushedAt <= renderTime <= after.PushedAt, clamping to the first or
// last entry at either edge, and returns the clamped interpolation factor.
func bracket(entries []snapshotstore.Entry, renderTime int64) (snapshotstore.Entry, snapshotstore.Entry, float32) {
	first := entries[0]
	last := entries[len(entries)-1]

	if renderTime <= first.PushedAt {
		return first, first, 0
	}
	if renderTime >= last.PushedAt {
		return last, last, 0
	}
	for i := 0; i < len(entries)-1; i++ {
		before, after := entries[i], entries[i+1]
		if before.PushedAt <= renderTime && renderTime <= after.PushedAt {
			duration := after.PushedAt - before.PushedAt
			if duration <= 0 {
				return before, after, 0
			}
			t := float32(renderTime-before.PushedAt) / float32(duration)
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			return before, after, t
		}
	}
	return last, last, 0
}

func (ip *Interpolator) filterWells(snapshot wire.GameSnapshot) wire.GameSnapshot {
	if len(ip.destroyedWells) == 0 {
		return snapshot
	}
	filtered := make([]wire.GravityWellSnapshot, 0, len(snapshot.GravityWells))
	for _, w := range snapshot.GravityWells {
		if _, destroyed := ip.destroyedWells[w.ID]; destroyed {
			continue
		}
		filtered = append(filtered, w)
	}
	snapshot.GravityWells = filtered
	return snapshot
}
