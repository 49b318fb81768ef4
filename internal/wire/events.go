package wire

// GameEvent is the tagged union of one-shot notifications carried inside a
// ServerMessage Event frame.
type GameEvent interface {
	isGameEvent()
}

// nilUUID is the wire representation of "no player" for PlayerKilled's
// killer slot, which the layout encodes as a plain uuid rather than an
// option<uuid>.
const nilUUID = "00000000-0000-0000-0000-000000000000"

const (
	eventPlayerKilled uint32 = iota
	eventPlayerJoined
	eventPlayerLeft
	eventMatchStarted
	eventMatchEnded
	eventZoneCollapse
	eventPlayerDeflection
	eventGravityWellCharging
	eventGravityWaveExplosion
	eventGravityWellDestroyed
)

// PlayerKilled announces a kill, optionally attributing it to a killer.
type PlayerKilled struct {
	KillerID   string // empty when the death has no killer (environmental)
	VictimID   string
	KillerName string
	VictimName string
}

func (PlayerKilled) isGameEvent() {}

// PlayerJoined announces a new participant entering the match.
type PlayerJoined struct {
	ID   string
	Name string
}

func (PlayerJoined) isGameEvent() {}

// PlayerLeft announces a participant departing the match.
type PlayerLeft struct {
	ID   string
	Name string
}

func (PlayerLeft) isGameEvent() {}

// MatchStarted announces the transition out of the countdown phase.
type MatchStarted struct{}

func (MatchStarted) isGameEvent() {}

// MatchEnded announces the match result.
type MatchEnded struct {
	HasWinner  bool
	WinnerID   string
	WinnerName string
}

func (MatchEnded) isGameEvent() {}

// ZoneCollapse announces an arena shrink step.
type ZoneCollapse struct {
	Phase      uint8
	SafeRadius float32
}

func (ZoneCollapse) isGameEvent() {}

// PlayerDeflection announces two players bouncing off each other at the
// collapsing boundary.
type PlayerDeflection struct {
	PlayerAID string
	PlayerBID string
	Position  Vec2
	Intensity float32
}

func (PlayerDeflection) isGameEvent() {}

// GravityWellCharging announces a well building toward detonation.
type GravityWellCharging struct {
	WellID   uint32
	Position Vec2
}

func (GravityWellCharging) isGameEvent() {}

// GravityWaveExplosion announces a well's detonation.
type GravityWaveExplosion struct {
	WellID   uint32
	Position Vec2
	Strength float32
}

func (GravityWaveExplosion) isGameEvent() {}

// GravityWellDestroyed announces a well permanently leaving the simulation.
type GravityWellDestroyed struct {
	WellID   uint32
	Position Vec2
}

func (GravityWellDestroyed) isGameEvent() {}

func encodeGameEvent(w *Writer, event GameEvent) {
	switch e := event.(type) {
	case PlayerKilled:
		w.WriteU32(eventPlayerKilled)
		killerID := e.KillerID
		if killerID == "" {
			killerID = nilUUID
		}
		_ = w.WriteUUID(killerID)
		_ = w.WriteUUID(e.VictimID)
		w.WriteString(e.KillerName)
		w.WriteString(e.VictimName)
	case PlayerJoined:
		w.WriteU32(eventPlayerJoined)
		_ = w.WriteUUID(e.ID)
		w.WriteString(e.Name)
	case PlayerLeft:
		w.WriteU32(eventPlayerLeft)
		_ = w.WriteUUID(e.ID)
		w.WriteString(e.Name)
	case MatchStarted:
		w.WriteU32(eventMatchStarted)
	case MatchEnded:
		w.WriteU32(eventMatchEnded)
		w.WriteBool(e.HasWinner)
		if e.HasWinner {
			_ = w.WriteUUID(e.WinnerID)
			w.WriteString(e.WinnerName)
		}
	case ZoneCollapse:
		w.WriteU32(eventZoneCollapse)
		w.WriteU8(e.Phase)
		w.WriteF32(e.SafeRadius)
	case PlayerDeflection:
		w.WriteU32(eventPlayerDeflection)
		_ = w.WriteUUID(e.PlayerAID)
		_ = w.WriteUUID(e.PlayerBID)
		w.WriteVec2(e.Position)
		w.WriteF32(e.Intensity)
	case GravityWellCharging:
		w.WriteU32(eventGravityWellCharging)
		w.WriteU32(e.WellID)
		w.WriteVec2(e.Position)
	case GravityWaveExplosion:
		w.WriteU32(eventGravityWaveExplosion)
		w.WriteU32(e.WellID)
		w.WriteVec2(e.Position)
		w.WriteF32(e.Strength)
	case GravityWellDestroyed:
		w.WriteU32(eventGravityWellDestroyed)
		w.WriteU32(e.WellID)
		w.WriteVec2(e.Position)
	}
}

func decodeGameEvent(r *Reader) (GameEvent, error) {
	tag, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	switch tag {
	case eventPlayerKilled:
		killer, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		victim, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		killerName, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		victimName, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if killer == nilUUID {
			killer = ""
		}
		return PlayerKilled{KillerID: killer, VictimID: victim, KillerName: killerName, VictimName: victimName}, nil
	case eventPlayerJoined:
		id, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return PlayerJoined{ID: id, Name: name}, nil
	case eventPlayerLeft:
		id, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return PlayerLeft{ID: id, Name: name}, nil
	case eventMatchStarted:
		return MatchStarted{}, nil
	case eventMatchEnded:
		hasWinner, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		var winnerID, winnerName string
		if hasWinner {
			if winnerID, err = r.ReadUUID(); err != nil {
				return nil, err
			}
			if winnerName, err = r.ReadString(); err != nil {
				return nil, err
			}
		}
		return MatchEnded{HasWinner: hasWinner, WinnerID: winnerID, WinnerName: winnerName}, nil
	case eventZoneCollapse:
		phase, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		radius, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		return ZoneCollapse{Phase: phase, SafeRadius: radius}, nil
	case eventPlayerDeflection:
		a, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		pos, err := r.ReadVec2()
		if err != nil {
			return nil, err
		}
		intensity, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		return PlayerDeflection{PlayerAID: a, PlayerBID: b, Position: pos, Intensity: intensity}, nil
	case eventGravityWellCharging:
		id, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		pos, err := r.ReadVec2()
		if err != nil {
			return nil, err
		}
		return GravityWellCharging{WellID: id, Position: pos}, nil
	case eventGravityWaveExplosion:
		id, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		pos, err := r.ReadVec2()
		if err != nil {
			return nil, err
		}
		strength, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		return GravityWaveExplosion{WellID: id, Position: pos, Strength: strength}, nil
	case eventGravityWellDestroyed:
		id, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		pos, err := r.ReadVec2()
		if err != nil {
			return nil, err
		}
		return GravityWellDestroyed{WellID: id, Position: pos}, nil
	default:
		return nil, unknownVariantErr("GameEvent", tag)
	}
}
