package wire

// ServerMessage is the tagged union of messages the core decodes from the
// transport.
type ServerMessage interface {
	isServerMessage()
}

const (
	tagJoinAccepted uint32 = iota
	tagJoinRejected
	tagSnapshot
	tagDelta
	tagEvent
	tagPong
	tagKicked
	tagPhaseChange
	tagSpectatorModeChanged
)

// JoinAccepted admits the connection, carrying the assigned player ID and a
// session token used to authenticate a reconnect.
type JoinAccepted struct {
	PlayerID     string
	SessionToken []byte
	IsSpectator  bool
}

func (JoinAccepted) isServerMessage() {}

// JoinRejected refuses admission with a human-readable reason.
type JoinRejected struct {
	Reason string
}

func (JoinRejected) isServerMessage() {}

// SnapshotMessage carries a complete authoritative world state.
type SnapshotMessage struct {
	GameSnapshot
}

func (SnapshotMessage) isServerMessage() {}

// DeltaMessage carries an incremental update against a prior snapshot.
type DeltaMessage struct {
	DeltaUpdate
}

func (DeltaMessage) isServerMessage() {}

// EventMessage wraps a single GameEvent.
type EventMessage struct {
	Event GameEvent
}

func (EventMessage) isServerMessage() {}

// Pong answers a Ping, echoing the client timestamp alongside the server's
// own clock reading for RTT and offset estimation.
type Pong struct {
	ClientTime uint64
	ServerTime uint64
}

func (Pong) isServerMessage() {}

// Kicked terminates the session with a human-readable reason.
type Kicked struct {
	Reason string
}

func (Kicked) isServerMessage() {}

// PhaseChange announces a match lifecycle transition.
type PhaseChange struct {
	Phase     uint32
	Countdown float32
}

func (PhaseChange) isServerMessage() {}

// SpectatorModeChanged announces that the local connection's spectator
// status flipped.
type SpectatorModeChanged struct {
	IsSpectator bool
}

func (SpectatorModeChanged) isServerMessage() {}

// EncodeServerMessage serialises a server message into the wire format.
// The client only needs this direction for tests and for any diagnostic
// tooling that replays captured frames; production code only decodes
// server messages.
func EncodeServerMessage(msg ServerMessage) []byte {
	w := NewWriter()
	switch m := msg.(type) {
	case JoinAccepted:
		w.WriteU32(tagJoinAccepted)
		_ = w.WriteUUID(m.PlayerID)
		w.WriteByteArray(m.SessionToken)
		w.WriteBool(m.IsSpectator)
	case JoinRejected:
		w.WriteU32(tagJoinRejected)
		w.WriteString(m.Reason)
	case SnapshotMessage:
		w.WriteU32(tagSnapshot)
		encodeGameSnapshot(w, m.GameSnapshot)
	case DeltaMessage:
		w.WriteU32(tagDelta)
		encodeDeltaUpdate(w, m.DeltaUpdate)
	case EventMessage:
		w.WriteU32(tagEvent)
		encodeGameEvent(w, m.Event)
	case Pong:
		w.WriteU32(tagPong)
		w.WriteU64(m.ClientTime)
		w.WriteU64(m.ServerTime)
	case Kicked:
		w.WriteU32(tagKicked)
		w.WriteString(m.Reason)
	case PhaseChange:
		w.WriteU32(tagPhaseChange)
		w.WriteU32(m.Phase)
		w.WriteF32(m.Countdown)
	case SpectatorModeChanged:
		w.WriteU32(tagSpectatorModeChanged)
		w.WriteBool(m.IsSpectator)
	}
	return w.Bytes()
}

// DecodeServerMessage parses a server message previously produced by
// EncodeServerMessage, failing with UnknownVariant{kind:"ServerMessage"} for
// an unrecognised tag.
func DecodeServerMessage(data []byte) (ServerMessage, error) {
	r := NewReader(data)
	tag, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagJoinAccepted:
		id, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		token, err := r.ReadByteArray()
		if err != nil {
			return nil, err
		}
		isSpectator, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		return JoinAccepted{PlayerID: id, SessionToken: token, IsSpectator: isSpectator}, nil
	case tagJoinRejected:
		reason, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return JoinRejected{Reason: reason}, nil
	case tagSnapshot:
		snap, err := decodeGameSnapshot(r)
		if err != nil {
			return nil, err
		}
		return SnapshotMessage{GameSnapshot: snap}, nil
	case tagDelta:
		delta, err := decodeDeltaUpdate(r)
		if err != nil {
			return nil, err
		}
		return DeltaMessage{DeltaUpdate: delta}, nil
	case tagEvent:
		event, err := decodeGameEvent(r)
		if err != nil {
			return nil, err
		}
		return EventMessage{Event: event}, nil
	case tagPong:
		clientTime, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		serverTime, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return Pong{ClientTime: clientTime, ServerTime: serverTime}, nil
	case tagKicked:
		reason, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return Kicked{Reason: reason}, nil
	case tagPhaseChange:
		phase, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		countdown, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		return PhaseChange{Phase: phase, Countdown: countdown}, nil
	case tagSpectatorModeChanged:
		isSpectator, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		return SpectatorModeChanged{IsSpectator: isSpectator}, nil
	default:
		return nil, unknownVariantErr("ServerMessage", tag)
	}
}
