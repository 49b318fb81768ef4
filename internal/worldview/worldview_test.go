package worldview

import (
	"testing"

	"orbit/client/internal/wire"
)

func TestJoinThenFirstSnapshot(t *testing.T) {
	const local = "01234567-89ab-cdef-0123-456789abcdef"
	wv := New(local, 8)
	wv.RememberName(local, "Alice")

	snapshot := wire.GameSnapshot{
		Players: []wire.PlayerSnapshot{
			{ID: local, Mass: 100, Flags: wire.PlayerFlags{Alive: true}},
		},
	}
	wv.Observe(snapshot, 1000)

	if got := wv.DisplayName(local, ""); got != "Alice" {
		t.Fatalf("expected display name Alice, got %q", got)
	}
	if wv.Stats().BestMass != 100 {
		t.Fatalf("expected bestMass 100, got %v", wv.Stats().BestMass)
	}
}

func TestObserveTracksKillStreakAndDeath(t *testing.T) {
	const local = "p1"
	wv := New(local, 8)
	wv.Observe(wire.GameSnapshot{Players: []wire.PlayerSnapshot{
		{ID: local, Mass: 50, Kills: 0, Flags: wire.PlayerFlags{Alive: true}},
	}}, 0)
	wv.Observe(wire.GameSnapshot{Players: []wire.PlayerSnapshot{
		{ID: local, Mass: 50, Kills: 2, Flags: wire.PlayerFlags{Alive: true}},
	}}, 100)

	stats := wv.Stats()
	if stats.KillStreak != 2 || stats.TotalKills != 2 || stats.BestKillStreak != 2 {
		t.Fatalf("unexpected stats after kills: %+v", stats)
	}

	wv.Observe(wire.GameSnapshot{Players: []wire.PlayerSnapshot{
		{ID: local, Mass: 50, Kills: 2, Flags: wire.PlayerFlags{Alive: false}},
	}}, 200)
	stats = wv.Stats()
	if stats.KillStreak != 0 || stats.TotalDeaths != 1 {
		t.Fatalf("unexpected stats after death: %+v", stats)
	}

	wv.Observe(wire.GameSnapshot{Players: []wire.PlayerSnapshot{
		{ID: local, Mass: 50, Kills: 2, Flags: wire.PlayerFlags{Alive: true}},
	}}, 300)
	if wv.Stats().LastSpawnTime != 300 {
		t.Fatalf("expected lastSpawnTime=300, got %v", wv.Stats().LastSpawnTime)
	}
}

func TestGravityWaveRetiresChargingEntry(t *testing.T) {
	wv := New("p1", 8)
	wv.OnGravityWellCharging(7, Vec2{X: 10, Y: 20}, 100)
	if !wv.IsCharging(7) {
		t.Fatalf("expected well 7 to be charging")
	}

	wv.OnGravityWaveExplosion(7, Vec2{X: 10, Y: 20}, 150)
	if wv.IsCharging(7) {
		t.Fatalf("expected charging entry for well 7 to be removed")
	}

	effects := wv.Effects(150)
	waveCount := 0
	for _, e := range effects {
		if e.Kind == EffectGravityWave {
			waveCount++
		}
	}
	if waveCount != 1 {
		t.Fatalf("expected exactly one wave effect, got %d", waveCount)
	}
}

func TestLeaderboardAliveOnlySortedByMassDescending(t *testing.T) {
	state := wire.GameSnapshot{Players: []wire.PlayerSnapshot{
		{ID: "a", Mass: 50, Flags: wire.PlayerFlags{Alive: true}},
		{ID: "b", Mass: 150, Flags: wire.PlayerFlags{Alive: true}},
		{ID: "c", Mass: 999, Flags: wire.PlayerFlags{Alive: false}},
	}}
	board := Leaderboard(state)
	if len(board) != 2 || board[0].ID != "b" || board[1].ID != "a" {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
}

func TestWellBornTimeSetOnceAtFirstObservation(t *testing.T) {
	wv := New("p1", 8)
	wv.Observe(wire.GameSnapshot{GravityWells: []wire.GravityWellSnapshot{{ID: 1}}}, 1000)
	if born, ok := wv.WellBornTime(1); !ok || born != 0 {
		t.Fatalf("expected well seen in the first snapshot to have bornTime 0, got %v (ok=%v)", born, ok)
	}

	wv.Observe(wire.GameSnapshot{GravityWells: []wire.GravityWellSnapshot{{ID: 1}, {ID: 2}}}, 2000)
	if born, ok := wv.WellBornTime(2); !ok || born != 2000 {
		t.Fatalf("expected well first seen later to have bornTime 2000, got %v (ok=%v)", born, ok)
	}
	if born, _ := wv.WellBornTime(1); born != 0 {
		t.Fatalf("expected well 1's bornTime to stay 0, got %v", born)
	}

	if _, ok := wv.WellBornTime(99); ok {
		t.Fatalf("expected unseen well id to report ok=false")
	}
}

func TestDestroyedWellReapsOnceServerOmitsIt(t *testing.T) {
	wv := New("p1", 8)
	wv.MarkWellDestroyed(5, 100)
	wv.ReapDestroyedWells(wire.GameSnapshot{GravityWells: []wire.GravityWellSnapshot{{ID: 5}}})
	if _, tracked := wv.DestroyedWellIDs()[5]; !tracked {
		t.Fatalf("expected well 5 to remain tracked while server still advertises it")
	}

	wv.ReapDestroyedWells(wire.GameSnapshot{})
	if _, tracked := wv.DestroyedWellIDs()[5]; tracked {
		t.Fatalf("expected well 5 to age out once server stops advertising it")
	}
}
