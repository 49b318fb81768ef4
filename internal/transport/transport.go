// Package transport defines the connection contract the core depends on
// and a gorilla/websocket implementation of it.
package transport

import "context"

// ConnectionState enumerates the lifecycle states reported to the core.
type ConnectionState int

const (
	StateConnecting ConnectionState = iota
	StateConnected
	StateDisconnected
)

// Transport is the contract the SessionController depends on: a secure
// session exposing reliable and unreliable sends, inbound message delivery,
// connection-state changes, and error reporting. The core is agnostic to
// how this is implemented.
type Transport interface {
	// SendReliable queues bytes on the ordered, retransmitted channel (used
	// for JoinRequest, Leave, SnapshotAck, SpectateTarget, SwitchToPlayer).
	SendReliable(data []byte) error
	// SendUnreliable queues bytes on the best-effort channel (used for
	// Input and ViewportInfo, where staleness beats latency).
	SendUnreliable(data []byte) error
	// OnMessage registers the callback invoked for every inbound frame, in
	// delivery order.
	OnMessage(func(data []byte))
	// OnStateChange registers the callback invoked when the connection
	// lifecycle transitions.
	OnStateChange(func(state ConnectionState))
	// OnError registers the callback invoked for a transport-level failure.
	OnError(func(err error))
	// RTT reports the most recently measured round-trip time in
	// milliseconds.
	RTT() int64
	// Close tears down the connection. Idempotent.
	Close() error
}

// Dialer opens a Transport to serverURL. certHash, when non-empty, pins the
// expected TLS certificate hash for the connection.
type Dialer interface {
	Dial(ctx context.Context, serverURL, certHash string) (Transport, error)
}
