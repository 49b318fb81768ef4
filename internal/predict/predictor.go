// Package predict implements client-side prediction of the local player's
// motion and reconciliation against authoritative server snapshots. The
// simulation constants must stay byte-for-byte identical to the server's
// so reconciliation converges instead of drifting.
package predict

import "orbit/client/internal/wire"

// Predictor tracks the locally predicted position/velocity of the player
// and the inputs not yet acknowledged by the server.
type Predictor struct {
	PredictedPosition wire.Vec2
	PredictedVelocity wire.Vec2

	pendingInputs  []wire.PlayerInput
	inputBufferCap int
}

// New builds a Predictor that evicts the oldest pending input once more than
// inputBufferCap are outstanding.
func New(inputBufferCap int) *Predictor {
	if inputBufferCap < 1 {
		inputBufferCap = 1
	}
	return &Predictor{inputBufferCap: inputBufferCap}
}

// RecordInput appends a freshly collected input to the pending queue,
// evicting the oldest entry once the buffer exceeds its configured cap.
func (p *Predictor) RecordInput(input wire.PlayerInput) {
	p.pendingInputs = append(p.pendingInputs, input)
	if len(p.pendingInputs) > p.inputBufferCap {
		//1.- Drop the oldest pending input; the buffer never grows unbounded.
		p.pendingInputs = p.pendingInputs[1:]
	}
}

// PendingInputs exposes the currently unacknowledged inputs, oldest first.
// The returned slice aliases internal storage and must not be mutated.
func (p *Predictor) PendingInputs() []wire.PlayerInput { return p.pendingInputs }

// Reconcile resets predicted state to the authoritative player snapshot and
// replays every input the server has not yet acknowledged.
func (p *Predictor) Reconcile(serverTick uint64, serverPlayer wire.PlayerSnapshot) {
	//1.- Drop every pending input the server has already applied.
	remaining := p.pendingInputs[:0:0]
	for _, input := range p.pendingInputs {
		if input.Tick > serverTick {
			remaining = append(remaining, input)
		}
	}
	p.pendingInputs = remaining

	//2.- Re-ground predicted state at the authoritative values.
	p.PredictedPosition = serverPlayer.Position
	p.PredictedVelocity = serverPlayer.Velocity

	//3.- Replay every unacknowledged input in order.
	for _, input := range p.pendingInputs {
		p.PredictedPosition, p.PredictedVelocity = SimulateInput(p.PredictedPosition, p.PredictedVelocity, input, serverPlayer.Mass)
	}
}

// SimulateInput advances one DT step given the current predicted state, a
// single input, and the player's mass. It is a pure function so
// both Reconcile's replay and direct callers get identical behavior.
func SimulateInput(position, velocity wire.Vec2, input wire.PlayerInput, mass float32) (wire.Vec2, wire.Vec2) {
	if input.Boost && input.Thrust.LengthSquared() > 0 {
		thrustMult := massToThrustMultiplier(mass)
		accel := input.Thrust.Normalized().Scale(Boost.BaseThrust * thrustMult * DT)
		velocity = velocity.Add(accel)
	}
	//1.- Apply drag before clamping so the clamp reflects the post-drag speed.
	velocity = velocity.Scale(1 - Drag)
	if velocity.Length() > MaxVelocity {
		velocity = velocity.Normalized().Scale(MaxVelocity)
	}
	position = position.Add(velocity.Scale(DT))
	return position, velocity
}
