// Package session orchestrates the wire codec, snapshot store, interpolator,
// predictor, and world view collaborators behind a single-threaded
// cooperative lifecycle.
package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"orbit/client/internal/capture"
	"orbit/client/internal/config"
	"orbit/client/internal/input"
	"orbit/client/internal/interpolate"
	"orbit/client/internal/logging"
	"orbit/client/internal/predict"
	"orbit/client/internal/snapshotstore"
	"orbit/client/internal/timesync"
	"orbit/client/internal/transport"
	"orbit/client/internal/wire"
	"orbit/client/internal/worldview"
)

// Controller drives one connection's lifecycle: dial, join, per-frame
// input/render loop, and teardown. It runs on a single goroutine (the
// host's event loop); none of its methods are safe to call concurrently.
type Controller struct {
	cfg    *config.Config
	logger *logging.Logger
	dialer transport.Dialer
	now    func() int64

	tr transport.Transport

	store     *snapshotstore.Store
	interp    *interpolate.Interpolator
	predictor *predict.Predictor
	world     *worldview.WorldView
	clock     *timesync.Estimator
	inputGate *input.Gate
	capture   *capture.Writer

	phase         Phase
	localPlayerID string

	errLimiter *rate.Limiter

	onConnectionError func(error)
	onTerminal        func(error)
}

// Option configures optional Controller parameters at construction time.
type Option func(*Controller)

// WithClock injects a deterministic millisecond clock, primarily for tests.
func WithClock(now func() int64) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDialer overrides the transport dialer, primarily for tests.
func WithDialer(d transport.Dialer) Option {
	return func(c *Controller) {
		if d != nil {
			c.dialer = d
		}
	}
}

// New builds a Controller wired from cfg, ready to Connect.
func New(cfg *config.Config, logger *logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		cfg:    cfg,
		logger: logger,
		dialer: transport.WebsocketDialer{},
		now:    defaultClockMs,
		phase:  PhasePreJoin,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.store = snapshotstore.New(cfg.SnapshotBufferSize, c.now)
	c.interp = interpolate.New(int64(cfg.InterpolationDelayMs))
	c.predictor = predict.New(cfg.InputBufferSize)
	c.clock = timesync.New()
	c.errLimiter = rate.NewLimiter(rate.Limit(float64(cfg.MaxDecodeErrorBurst))/cfg.MaxDecodeErrorWindow.Seconds(), cfg.MaxDecodeErrorBurst)
	c.inputGate = input.NewGate(
		input.Config{MaxAge: cfg.InputMaxAge, MinInterval: cfg.InputMinInterval},
		logger,
		input.WithClock(msClock{now: c.now}),
	)
	return c
}

// msClock adapts the controller's monotonic millisecond clock to input.Clock.
type msClock struct{ now func() int64 }

func (c msClock) Now() time.Time { return time.UnixMilli(c.now()) }

// Phase reports the controller's current lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// OnConnectionError registers the callback invoked when the transport
// reports a terminal failure.
func (c *Controller) OnConnectionError(cb func(error)) { c.onConnectionError = cb }

// OnTerminal registers the callback invoked on JoinRejected or Kicked.
func (c *Controller) OnTerminal(cb func(error)) { c.onTerminal = cb }

// Connect dials the transport and sends the initial JoinRequest. A trace ID
// is minted for the connection's lifetime and threaded through the
// controller's logger, the same way the teacher threads one through a
// single request.
func (c *Controller) Connect(ctx context.Context, name string, colorIndex uint8, isSpectator bool) error {
	_, logger, _ := logging.WithTrace(ctx, c.logger, "")
	c.logger = logger

	c.phase = PhaseConnecting
	tr, err := c.dialer.Dial(ctx, c.cfg.ServerURL, c.cfg.CertHash)
	if err != nil {
		c.phase = PhaseDisconnected
		return fmt.Errorf("dial: %w", err)
	}
	c.tr = tr
	tr.OnMessage(c.handleFrame)
	tr.OnError(c.handleTransportError)

	join := wire.JoinRequest{Name: name, ColorIndex: colorIndex, IsSpectator: isSpectator}
	return c.tr.SendReliable(wire.EncodeClientMessage(join))
}

// SendInput records the input with the predictor for later reconciliation,
// then paces the transmission through the input gate: frames that arrive
// with a non-monotonic sequence, sat too long locally, or exceed the
// configured send rate are still predicted locally but never hit the wire.
func (c *Controller) SendInput(playerInput wire.PlayerInput) error {
	if c.phase != PhaseJoinedPlayer {
		return nil
	}
	c.predictor.RecordInput(playerInput)

	decision := c.inputGate.Evaluate(input.Frame{
		SequenceID: playerInput.Sequence,
	})
	if !decision.Accepted {
		return nil
	}
	return c.tr.SendUnreliable(wire.EncodeClientMessage(wire.InputMessage{PlayerInput: playerInput}))
}

// Render pulls the interpolated world state for rendering at wallNow,
// reaping destroyed-well bookkeeping and updating WorldView session stats
// along the way.
func (c *Controller) Render(wallNow int64) (wire.GameSnapshot, bool) {
	state, ok := c.interp.Render(c.store.Entries(), wallNow)
	if !ok {
		return wire.GameSnapshot{}, false
	}
	c.interp.ReapDestroyedWells(state)
	if c.world != nil {
		c.world.ReapDestroyedWells(state)
		c.world.Observe(state, wallNow)
	}
	return state, true
}

// Predicted exposes the predictor's current local-player estimate, to be
// used in place of the snapshot-derived position for the local player when
// rendering.
func (c *Controller) Predicted() (wire.Vec2, wire.Vec2) {
	return c.predictor.PredictedPosition, c.predictor.PredictedVelocity
}

// Disconnect tears down the transport, clears the store, and resets the
// predictor, synchronously from the caller's perspective.
func (c *Controller) Disconnect() {
	if c.tr != nil {
		_ = c.tr.Close()
	}
	c.store.Reset()
	c.predictor = predict.New(c.cfg.InputBufferSize)
	c.inputGate.Forget()
	c.closeCapture()
	c.phase = PhaseDisconnected
}

// openCapture starts a diagnostic capture bundle for this connection when
// enabled, named after the player ID assigned by JoinAccepted.
func (c *Controller) openCapture() {
	if !c.cfg.CaptureEnabled || c.capture != nil {
		return
	}
	writer, _, err := capture.NewWriter(c.cfg.CapturePath, c.localPlayerID, nil)
	if err != nil {
		c.logger.Warn("failed to open session capture", logging.Error(err))
		return
	}
	writer.SetHeaderMetadata(c.localPlayerID, nil)
	c.capture = writer
}

func (c *Controller) closeCapture() {
	if c.capture == nil {
		return
	}
	if err := c.capture.Close(); err != nil {
		c.logger.Warn("failed to close session capture", logging.Error(err))
	}
	c.capture = nil
}

// recordCapture mirrors a successfully decoded inbound frame into the
// capture bundle, tagging it by wire message type.
func (c *Controller) recordCapture(msg wire.ServerMessage, raw []byte) {
	if c.capture == nil {
		return
	}
	switch m := msg.(type) {
	case wire.SnapshotMessage:
		_ = c.capture.AppendFrame(m.Tick, c.now(), raw)
	case wire.DeltaMessage:
		_ = c.capture.AppendFrame(m.Tick, c.now(), raw)
	case wire.EventMessage:
		_ = c.capture.AppendEvent(c.store.CurrentTick(), c.now(), fmt.Sprintf("%T", m.Event), raw)
	}
}

func (c *Controller) handleTransportError(err error) {
	if c.onConnectionError != nil {
		c.onConnectionError(err)
	}
	c.Disconnect()
}

// handleFrame decodes and dispatches one inbound frame. Decode failures are
// logged and the frame is dropped; a burst above the configured threshold
// escalates to a ProtocolMismatchError and disconnects.
func (c *Controller) handleFrame(data []byte) {
	msg, err := wire.DecodeServerMessage(data)
	if err != nil {
		c.logger.Warn("dropping undecodable frame", logging.Error(err))
		if !c.errLimiter.Allow() {
			mismatch := &ProtocolMismatchError{WindowErrors: c.cfg.MaxDecodeErrorBurst}
			if c.onConnectionError != nil {
				c.onConnectionError(mismatch)
			}
			c.Disconnect()
		}
		return
	}
	c.recordCapture(msg, data)
	c.dispatch(msg)
}

func (c *Controller) dispatch(msg wire.ServerMessage) {
	switch m := msg.(type) {
	case wire.JoinAccepted:
		c.localPlayerID = m.PlayerID
		if m.IsSpectator {
			c.phase = PhaseJoinedSpectator
		} else {
			c.phase = PhaseJoinedPlayer
		}
		c.world = worldview.New(c.localPlayerID, defaultEffectCap)
		c.openCapture()
	case wire.JoinRejected:
		c.phase = PhasePreJoin
		if c.onTerminal != nil {
			c.onTerminal(&TerminalError{Reason: m.Reason})
		}
	case wire.SnapshotMessage:
		c.store.Push(m.GameSnapshot)
		c.reconcileIfLocalPlayerPresent(m.GameSnapshot)
	case wire.DeltaMessage:
		c.store.ApplyDelta(m.DeltaUpdate)
	case wire.EventMessage:
		c.dispatchEvent(m.Event)
	case wire.Pong:
		c.clock.Observe(int64(m.ClientTime), int64(m.ServerTime), c.now())
	case wire.Kicked:
		c.phase = PhaseDisconnected
		if c.onTerminal != nil {
			c.onTerminal(&TerminalError{Reason: m.Reason, Kicked: true})
		}
		c.Disconnect()
	case wire.PhaseChange:
		// Arena/match phase bookkeeping lives in the rendered GameSnapshot;
		// nothing further to do here beyond having decoded it successfully.
	case wire.SpectatorModeChanged:
		if m.IsSpectator {
			c.phase = PhaseJoinedSpectator
		} else {
			c.phase = PhaseJoinedPlayer
		}
	}
}

// reconcileIfLocalPlayerPresent fires the predictor's reconcile step after
// the snapshot has been stored, so a same-turn Render call observes the
// freshly-stored data.
func (c *Controller) reconcileIfLocalPlayerPresent(snapshot wire.GameSnapshot) {
	if c.localPlayerID == "" {
		return
	}
	for _, p := range snapshot.Players {
		if p.ID == c.localPlayerID {
			c.predictor.Reconcile(snapshot.Tick, p)
			return
		}
	}
}

func (c *Controller) dispatchEvent(event wire.GameEvent) {
	if c.world == nil {
		return
	}
	now := c.now()
	switch e := event.(type) {
	case wire.PlayerJoined:
		c.world.RememberName(e.ID, e.Name)
	case wire.GravityWellCharging:
		c.world.OnGravityWellCharging(e.WellID, e.Position, now)
	case wire.GravityWaveExplosion:
		c.world.OnGravityWaveExplosion(e.WellID, e.Position, now)
	case wire.GravityWellDestroyed:
		c.world.MarkWellDestroyed(e.WellID, now)
		c.interp.MarkWellDestroyed(e.WellID)
	}
}

const defaultEffectCap = 32

func defaultClockMs() int64 {
	return nowMillis()
}
