package wire

// ClientMessage is the tagged union of messages the core encodes for the
// transport. The unexported marker method closes the set to the types in
// this package; the compiler does not check type switches over it for
// exhaustiveness.
type ClientMessage interface {
	isClientMessage()
}

const (
	tagJoinRequest uint32 = iota
	tagInput
	tagLeave
	tagPing
	tagSnapshotAck
	tagSpectateTarget
	tagSwitchToPlayer
	tagViewportInfo
)

// JoinRequest asks the server to admit the local player (or spectator) into the match.
type JoinRequest struct {
	Name        string
	ColorIndex  uint8
	IsSpectator bool
}

func (JoinRequest) isClientMessage() {}

// InputMessage wraps a PlayerInput for the unreliable control channel.
type InputMessage struct {
	PlayerInput
}

func (InputMessage) isClientMessage() {}

// Leave tells the server the local player is disconnecting voluntarily.
type Leave struct{}

func (Leave) isClientMessage() {}

// Ping carries a client timestamp echoed back in a Pong for RTT measurement.
type Ping struct {
	Timestamp uint64
}

func (Ping) isClientMessage() {}

// SnapshotAck acknowledges receipt of a full snapshot at the given tick.
type SnapshotAck struct {
	Tick uint64
}

func (SnapshotAck) isClientMessage() {}

// SpectateTarget requests the server to focus the spectator camera on a
// player, or clears the focus when ID is empty.
type SpectateTarget struct {
	ID string // empty means "no target" (option<uuid> = none)
}

func (SpectateTarget) isClientMessage() {}

// SwitchToPlayer asks the server to move the local connection from spectator
// to an active player with the requested color.
type SwitchToPlayer struct {
	ColorIndex uint8
}

func (SwitchToPlayer) isClientMessage() {}

// ViewportInfo reports the renderer's current zoom level for AOI tuning.
type ViewportInfo struct {
	Zoom float32
}

func (ViewportInfo) isClientMessage() {}

// EncodeClientMessage serialises a client message into the wire format:
// a u32 tag followed by the variant body.
func EncodeClientMessage(msg ClientMessage) []byte {
	w := NewWriter()
	switch m := msg.(type) {
	case JoinRequest:
		w.WriteU32(tagJoinRequest)
		w.WriteString(m.Name)
		w.WriteU8(m.ColorIndex)
		w.WriteBool(m.IsSpectator)
	case InputMessage:
		w.WriteU32(tagInput)
		encodePlayerInput(w, m.PlayerInput)
	case Leave:
		w.WriteU32(tagLeave)
	case Ping:
		w.WriteU32(tagPing)
		w.WriteU64(m.Timestamp)
	case SnapshotAck:
		w.WriteU32(tagSnapshotAck)
		w.WriteU64(m.Tick)
	case SpectateTarget:
		w.WriteU32(tagSpectateTarget)
		if m.ID == "" {
			w.WriteBool(false)
		} else {
			w.WriteBool(true)
			_ = w.WriteUUID(m.ID)
		}
	case SwitchToPlayer:
		w.WriteU32(tagSwitchToPlayer)
		w.WriteU8(m.ColorIndex)
	case ViewportInfo:
		w.WriteU32(tagViewportInfo)
		w.WriteF32(m.Zoom)
	}
	return w.Bytes()
}

// DecodeClientMessage parses a client message previously produced by
// EncodeClientMessage, failing with UnknownVariant{kind:"ClientMessage"} for
// an unrecognised tag.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	r := NewReader(data)
	tag, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagJoinRequest:
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		color, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		isSpectator, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		return JoinRequest{Name: name, ColorIndex: color, IsSpectator: isSpectator}, nil
	case tagInput:
		input, err := decodePlayerInput(r)
		if err != nil {
			return nil, err
		}
		return InputMessage{PlayerInput: input}, nil
	case tagLeave:
		return Leave{}, nil
	case tagPing:
		ts, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return Ping{Timestamp: ts}, nil
	case tagSnapshotAck:
		tick, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return SnapshotAck{Tick: tick}, nil
	case tagSpectateTarget:
		present, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		if !present {
			return SpectateTarget{}, nil
		}
		id, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		return SpectateTarget{ID: id}, nil
	case tagSwitchToPlayer:
		color, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return SwitchToPlayer{ColorIndex: color}, nil
	case tagViewportInfo:
		zoom, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		return ViewportInfo{Zoom: zoom}, nil
	default:
		return nil, unknownVariantErr("ClientMessage", tag)
	}
}

func encodePlayerInput(w *Writer, input PlayerInput) {
	w.WriteU64(input.Sequence)
	w.WriteU64(input.Tick)
	w.WriteU64(input.ClientTime)
	w.WriteVec2(input.Thrust)
	w.WriteVec2(input.Aim)
	w.WriteBool(input.Boost)
	w.WriteBool(input.Fire)
	w.WriteBool(input.FireReleased)
}

func decodePlayerInput(r *Reader) (PlayerInput, error) {
	var in PlayerInput
	var err error
	if in.Sequence, err = r.ReadU64(); err != nil {
		return in, err
	}
	if in.Tick, err = r.ReadU64(); err != nil {
		return in, err
	}
	if in.ClientTime, err = r.ReadU64(); err != nil {
		return in, err
	}
	if in.Thrust, err = r.ReadVec2(); err != nil {
		return in, err
	}
	if in.Aim, err = r.ReadVec2(); err != nil {
		return in, err
	}
	if in.Boost, err = r.ReadBool(); err != nil {
		return in, err
	}
	if in.Fire, err = r.ReadBool(); err != nil {
		return in, err
	}
	if in.FireReleased, err = r.ReadBool(); err != nil {
		return in, err
	}
	return in, nil
}
