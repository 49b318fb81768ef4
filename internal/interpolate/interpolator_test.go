package interpolate

import (
	"testing"

	"orbit/client/internal/snapshotstore"
	"orbit/client/internal/wire"
)

func entryAt(ts int64, x float32) snapshotstore.Entry {
	return snapshotstore.Entry{
		PushedAt: ts,
		Snapshot: wire.GameSnapshot{
			Players: []wire.PlayerSnapshot{
				{ID: "p1", Position: wire.Vec2{X: x, Y: 0}, Flags: wire.PlayerFlags{Alive: true}},
			},
		},
	}
}

func TestRenderBracketingFullFactor(t *testing.T) {
	entries := []snapshotstore.Entry{entryAt(1000, 0), entryAt(1100, 100)}
	ip := New(100)
	state, ok := ip.Render(entries, 1200)
	if !ok {
		t.Fatalf("expected a state")
	}
	if state.Players[0].Position.X != 100 {
		t.Fatalf("expected x=100 at factor 1.0, got %v", state.Players[0].Position.X)
	}
}

func TestRenderBracketingHalfFactor(t *testing.T) {
	entries := []snapshotstore.Entry{entryAt(1000, 0), entryAt(1100, 100)}
	ip := New(100)
	state, ok := ip.Render(entries, 1150)
	if !ok {
		t.Fatalf("expected a state")
	}
	if state.Players[0].Position.X != 50 {
		t.Fatalf("expected x=50 at factor 0.5, got %v", state.Players[0].Position.X)
	}
}

func TestRenderSingleEntryReturnsItVerbatim(t *testing.T) {
	entries := []snapshotstore.Entry{entryAt(1000, 42)}
	ip := New(100)
	state, ok := ip.Render(entries, 5000)
	if !ok || state.Players[0].Position.X != 42 {
		t.Fatalf("expected verbatim single entry, got %+v ok=%v", state, ok)
	}
}

func TestRenderEmptyStoreReturnsNotOK(t *testing.T) {
	ip := New(100)
	_, ok := ip.Render(nil, 1000)
	if ok {
		t.Fatalf("expected ok=false for empty store")
	}
}

func TestRespawnSnapsToAfterWithoutBlending(t *testing.T) {
	before := snapshotstore.Entry{
		PushedAt: 1000,
		Snapshot: wire.GameSnapshot{Players: []wire.PlayerSnapshot{
			{ID: "p1", Position: wire.Vec2{X: 0, Y: 0}, Flags: wire.PlayerFlags{Alive: false}},
		}},
	}
	after := snapshotstore.Entry{
		PushedAt: 1100,
		Snapshot: wire.GameSnapshot{Players: []wire.PlayerSnapshot{
			{ID: "p1", Position: wire.Vec2{X: 500, Y: 500}, Flags: wire.PlayerFlags{Alive: true}},
		}},
	}
	ip := New(100)
	state, ok := ip.Render([]snapshotstore.Entry{before, after}, 1150)
	if !ok {
		t.Fatalf("expected a state")
	}
	if state.Players[0].Position != (wire.Vec2{X: 500, Y: 500}) {
		t.Fatalf("expected respawn snap to after's position exactly, got %v", state.Players[0].Position)
	}
}

func TestMarkWellDestroyedFiltersAndReaps(t *testing.T) {
	snap := wire.GameSnapshot{GravityWells: []wire.GravityWellSnapshot{{ID: 7}, {ID: 8}}}
	entry := snapshotstore.Entry{PushedAt: 1000, Snapshot: snap}
	ip := New(100)
	ip.MarkWellDestroyed(7)

	state, ok := ip.Render([]snapshotstore.Entry{entry}, 1000)
	if !ok {
		t.Fatalf("expected a state")
	}
	if len(state.GravityWells) != 1 || state.GravityWells[0].ID != 8 {
		t.Fatalf("expected well 7 filtered, got %+v", state.GravityWells)
	}

	//1.- Once the server stops advertising well 7, it should age out of the destroyed set.
	ip.ReapDestroyedWells(wire.GameSnapshot{GravityWells: []wire.GravityWellSnapshot{{ID: 8}}})
	if _, stillTracked := ip.destroyedWells[7]; stillTracked {
		t.Fatalf("expected well 7 to age out of destroyedWells")
	}
}
