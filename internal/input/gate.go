// Package input paces outbound PlayerInput frames before they reach the
// unreliable transport: it rejects non-monotonic sequence numbers left over
// from a reconnect, drops frames that sat too long before being sent, and
// throttles bursts that would otherwise flood the socket above the
// configured tick rate.
package input

import (
	"sync"
	"time"

	"orbit/client/internal/logging"
)

// Clock exposes the current time for rate limiting decisions.
type Clock interface {
	Now() time.Time
}

type clockFunc func() time.Time

// Now implements Clock for functional adapters.
func (c clockFunc) Now() time.Time { return c() }

// systemClock relies on time.Now for production code paths.
type systemClock struct{}

// Now implements Clock by delegating to time.Now.
func (systemClock) Now() time.Time { return time.Now() }

// Config controls the freshness and throughput gates applied to outbound inputs.
type Config struct {
	MaxAge      time.Duration
	MinInterval time.Duration
}

// DropReason enumerates why a frame was rejected by the gate.
type DropReason string

const (
	DropReasonNone        DropReason = ""
	DropReasonSequence    DropReason = "sequence"
	DropReasonStale       DropReason = "stale"
	DropReasonRateLimited DropReason = "rate_limit"
)

// String returns the textual representation of the drop reason.
func (r DropReason) String() string { return string(r) }

// Decision summarises whether a frame passed validation.
type Decision struct {
	Accepted bool
	Reason   DropReason
	Delay    time.Duration
}

// Frame captures the metadata required to validate an outbound input.
type Frame struct {
	SequenceID uint64
	SentAt     time.Time
}

// DropCounters aggregates per-reason drop counts for the connection's
// outbound input stream.
type DropCounters struct {
	Sequence    uint64 `json:"sequence"`
	Stale       uint64 `json:"stale"`
	RateLimited uint64 `json:"rate_limited"`
}

// Gate validates sequencing, freshness, and throughput for the connection's
// single outbound input stream. Unlike the server, which tracks one such
// state per remote client, the client only ever has one stream: itself.
type Gate struct {
	mu     sync.Mutex
	cfg    Config
	clock  Clock
	logger *logging.Logger

	lastSequence uint64
	lastAccepted time.Time
	drops        DropCounters
}

// Option customises gate construction.
type Option func(*Gate)

// WithClock overrides the clock used for latency calculations.
func WithClock(clock Clock) Option {
	return func(g *Gate) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// NewGate constructs a gate with the supplied configuration and logger.
func NewGate(cfg Config, logger *logging.Logger, opts ...Option) *Gate {
	//1.- Normalise zero or negative intervals to disable the corresponding checks gracefully.
	if cfg.MaxAge < 0 {
		cfg.MaxAge = 0
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	gate := &Gate{
		cfg:    cfg,
		clock:  systemClock{},
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(gate)
		}
	}
	if gate.clock == nil {
		gate.clock = systemClock{}
	}
	return gate
}

// Evaluate applies sequencing, freshness, and throughput guards to the frame.
func (g *Gate) Evaluate(frame Frame) Decision {
	decision := Decision{Accepted: true}
	if g == nil {
		return decision
	}
	now := g.clock.Now()
	if !frame.SentAt.IsZero() {
		//1.- Compute the wall-clock delay between capture and arrival for diagnostics.
		delay := now.Sub(frame.SentAt)
		if delay < 0 {
			delay = 0
		}
		decision.Delay = delay
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case frame.SequenceID == 0:
		decision = Decision{Accepted: false, Reason: DropReasonSequence, Delay: decision.Delay}
	case g.lastSequence == 0:
		//2.- First frame for this stream always passes baseline checks.
		g.lastSequence = frame.SequenceID
		g.lastAccepted = now
	default:
		if frame.SequenceID <= g.lastSequence {
			decision = Decision{Accepted: false, Reason: DropReasonSequence, Delay: decision.Delay}
			break
		}
		interval := now.Sub(g.lastAccepted)
		if g.cfg.MinInterval > 0 && interval < g.cfg.MinInterval {
			decision = Decision{Accepted: false, Reason: DropReasonRateLimited, Delay: decision.Delay}
			break
		}

		if g.cfg.MaxAge > 0 {
			if decision.Delay > g.cfg.MaxAge && decision.Delay > 0 {
				decision = Decision{Accepted: false, Reason: DropReasonStale, Delay: decision.Delay}
				break
			}
			//3.- Estimate extra latency using the previous acceptance time when capture timestamps are absent.
			if g.cfg.MinInterval > 0 {
				seqDelta := frame.SequenceID - g.lastSequence
				expected := time.Duration(seqDelta) * g.cfg.MinInterval
				extra := interval - expected
				if extra > g.cfg.MaxAge {
					decision = Decision{Accepted: false, Reason: DropReasonStale, Delay: decision.Delay}
					break
				}
			}
		}

		//4.- Promote the frame as the latest accepted event when it passes all gates.
		g.lastSequence = frame.SequenceID
		g.lastAccepted = now
	}

	if !decision.Accepted {
		switch decision.Reason {
		case DropReasonSequence:
			g.drops.Sequence++
		case DropReasonStale:
			g.drops.Stale++
		case DropReasonRateLimited:
			g.drops.RateLimited++
		}
	}
	return decision
}

// Forget resets sequencing and drop counters, as if the stream had never
// sent a frame. Called when the connection tears down so a subsequent
// session starts fresh.
func (g *Gate) Forget() {
	if g == nil {
		return
	}
	//1.- Reset sequencing and drop counters so a new session starts clean.
	g.mu.Lock()
	g.lastSequence = 0
	g.lastAccepted = time.Time{}
	g.drops = DropCounters{}
	g.mu.Unlock()
}

// Metrics returns a snapshot of the latest drop counters.
func (g *Gate) Metrics() DropCounters {
	if g == nil {
		return DropCounters{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.drops
}
