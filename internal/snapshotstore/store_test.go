package snapshotstore

import (
	"testing"

	"orbit/client/internal/wire"
)

func fakeClock(start int64) func() int64 {
	t := start
	return func() int64 {
		t += 16
		return t
	}
}

func TestPushMonotonicityAndCapacity(t *testing.T) {
	s := New(2, fakeClock(0))
	s.Push(wire.GameSnapshot{Tick: 1})
	s.Push(wire.GameSnapshot{Tick: 2})
	s.Push(wire.GameSnapshot{Tick: 3})

	if s.CurrentTick() != 3 {
		t.Fatalf("CurrentTick() = %d, want 3", s.CurrentTick())
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (capacity enforced)", s.Len())
	}
}

func TestPushLateSnapshotNeverRewindsTick(t *testing.T) {
	s := New(4, fakeClock(0))
	s.Push(wire.GameSnapshot{Tick: 10})
	s.Push(wire.GameSnapshot{Tick: 5})

	if s.CurrentTick() != 10 {
		t.Fatalf("CurrentTick() = %d, want 10 (late snapshot must not rewind)", s.CurrentTick())
	}
	if s.Len() != 2 {
		t.Fatalf("expected late snapshot still stored, Len() = %d", s.Len())
	}
}

func TestApplyDeltaCorrectness(t *testing.T) {
	s := New(4, fakeClock(0))
	s.Push(wire.GameSnapshot{
		Tick: 100,
		Players: []wire.PlayerSnapshot{
			{ID: "p1", Position: wire.Vec2{X: 1, Y: 2}, Velocity: wire.Vec2{X: 0.5, Y: 0}, Rotation: 1.5, Mass: 100, Kills: 0},
		},
	})

	newMass := float32(175)
	newKills := uint32(5)
	s.ApplyDelta(wire.DeltaUpdate{
		Tick:     101,
		BaseTick: 100,
		PlayerUpdates: []wire.PlayerDelta{
			{ID: "p1", Mass: &newMass, Kills: &newKills},
		},
	})

	if s.CurrentTick() != 101 {
		t.Fatalf("CurrentTick() = %d, want 101", s.CurrentTick())
	}
	entries := s.Entries()
	latest := entries[len(entries)-1].Snapshot
	if len(latest.Players) != 1 {
		t.Fatalf("expected one player, got %d", len(latest.Players))
	}
	p := latest.Players[0]
	if p.Mass != 175 || p.Kills != 5 {
		t.Fatalf("expected mass=175 kills=5, got mass=%v kills=%v", p.Mass, p.Kills)
	}
	if p.Position != (wire.Vec2{X: 1, Y: 2}) {
		t.Fatalf("expected position unchanged, got %v", p.Position)
	}
	if p.Rotation != 1.5 {
		t.Fatalf("expected rotation unchanged, got %v", p.Rotation)
	}
}

func TestApplyDeltaMissingBaseDiscardedSilently(t *testing.T) {
	s := New(4, fakeClock(0))
	s.Push(wire.GameSnapshot{Tick: 100})
	s.ApplyDelta(wire.DeltaUpdate{Tick: 99, BaseTick: 99})

	if s.Len() != 1 {
		t.Fatalf("expected missing-base delta to have no effect, Len() = %d", s.Len())
	}
	s.Push(wire.GameSnapshot{Tick: 101})
	if s.CurrentTick() != 101 {
		t.Fatalf("CurrentTick() = %d, want 101", s.CurrentTick())
	}
}

func TestResetClearsStore(t *testing.T) {
	s := New(4, fakeClock(0))
	s.Push(wire.GameSnapshot{Tick: 10})
	s.Reset()
	if s.Len() != 0 || s.CurrentTick() != 0 {
		t.Fatalf("expected empty store after Reset, got Len=%d CurrentTick=%d", s.Len(), s.CurrentTick())
	}
}

func TestApplyDeltaRemovesProjectilesAndReplacesDebris(t *testing.T) {
	s := New(4, fakeClock(0))
	s.Push(wire.GameSnapshot{
		Tick: 1,
		Projectiles: []wire.ProjectileSnapshot{
			{ID: 1, Position: wire.Vec2{X: 0, Y: 0}},
			{ID: 2, Position: wire.Vec2{X: 1, Y: 1}},
		},
		Debris: []wire.DebrisSnapshot{{ID: 9, Size: wire.DebrisLarge}},
	})
	s.ApplyDelta(wire.DeltaUpdate{
		Tick:               2,
		BaseTick:           1,
		RemovedProjectiles: []uint64{1},
		Debris:             []wire.DebrisSnapshot{{ID: 10, Size: wire.DebrisSmall}},
	})
	latest := s.Entries()[len(s.Entries())-1].Snapshot
	if len(latest.Projectiles) != 1 || latest.Projectiles[0].ID != 2 {
		t.Fatalf("expected only projectile 2 to remain, got %+v", latest.Projectiles)
	}
	if len(latest.Debris) != 1 || latest.Debris[0].ID != 10 {
		t.Fatalf("expected debris array replaced wholesale, got %+v", latest.Debris)
	}
}
