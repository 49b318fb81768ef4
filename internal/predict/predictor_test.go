package predict

import (
	"testing"

	"orbit/client/internal/wire"
)

func TestRecordInputEvictsOldestOverCapacity(t *testing.T) {
	p := New(2)
	p.RecordInput(wire.PlayerInput{Tick: 1})
	p.RecordInput(wire.PlayerInput{Tick: 2})
	p.RecordInput(wire.PlayerInput{Tick: 3})

	pending := p.PendingInputs()
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending inputs, got %d", len(pending))
	}
	if pending[0].Tick != 2 || pending[1].Tick != 3 {
		t.Fatalf("expected ticks [2,3], got %+v", pending)
	}
}

func TestPredictionMovesForwardUnderBoost(t *testing.T) {
	p := New(16)
	input := func(tick uint64) wire.PlayerInput {
		return wire.PlayerInput{Tick: tick, Thrust: wire.Vec2{X: 1, Y: 0}, Boost: true}
	}
	p.RecordInput(input(10))
	p.RecordInput(input(11))
	p.RecordInput(input(12))

	p.Reconcile(9, wire.PlayerSnapshot{Position: wire.Vec2{X: 0, Y: 0}, Velocity: wire.Vec2{X: 0, Y: 0}, Mass: 100})

	if p.PredictedPosition.X <= 0 {
		t.Fatalf("expected positive x position after boosted replay, got %v", p.PredictedPosition.X)
	}
	if p.PredictedVelocity.X <= 0 {
		t.Fatalf("expected positive x velocity after boosted replay, got %v", p.PredictedVelocity.X)
	}
}

func TestReconcileDropsAckedInputs(t *testing.T) {
	p := New(16)
	input := func(tick uint64) wire.PlayerInput {
		return wire.PlayerInput{Tick: tick, Thrust: wire.Vec2{X: 1, Y: 0}, Boost: true}
	}
	p.RecordInput(input(10))
	p.RecordInput(input(11))
	p.RecordInput(input(12))
	p.Reconcile(9, wire.PlayerSnapshot{Mass: 100})

	p.Reconcile(11, wire.PlayerSnapshot{Position: wire.Vec2{X: 5, Y: 0}, Velocity: wire.Vec2{X: 0, Y: 0}, Mass: 100})

	pending := p.PendingInputs()
	if len(pending) != 1 || pending[0].Tick != 12 {
		t.Fatalf("expected exactly one pending input at tick 12, got %+v", pending)
	}

	wantPos, wantVel := SimulateInput(wire.Vec2{X: 5, Y: 0}, wire.Vec2{X: 0, Y: 0}, input(12), 100)
	if p.PredictedPosition != wantPos || p.PredictedVelocity != wantVel {
		t.Fatalf("expected predicted state %v/%v, got %v/%v", wantPos, wantVel, p.PredictedPosition, p.PredictedVelocity)
	}
}

func TestReconcileIdempotence(t *testing.T) {
	p := New(16)
	p.RecordInput(wire.PlayerInput{Tick: 5, Thrust: wire.Vec2{X: 1, Y: 0}, Boost: true})

	server := wire.PlayerSnapshot{Position: wire.Vec2{X: 1, Y: 1}, Velocity: wire.Vec2{X: 0, Y: 0}, Mass: 100}
	p.Reconcile(4, server)
	first := p.PredictedPosition
	firstVel := p.PredictedVelocity

	//1.- Reconcile again against the same snapshot with no new inputs recorded.
	p.Reconcile(4, server)

	if p.PredictedPosition != first || p.PredictedVelocity != firstVel {
		t.Fatalf("expected idempotent reconcile, got %v/%v vs %v/%v", p.PredictedPosition, p.PredictedVelocity, first, firstVel)
	}
}

func TestMassToThrustMultiplierIsMonotonicallyDecreasing(t *testing.T) {
	light := massToThrustMultiplier(50)
	heavy := massToThrustMultiplier(200)
	if !(light > heavy) {
		t.Fatalf("expected lighter mass to have larger multiplier: light=%v heavy=%v", light, heavy)
	}
}
