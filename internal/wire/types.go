package wire

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// Vec2 is a pair of 32-bit floats with value semantics.
type Vec2 struct {
	X, Y float32
}

// Add returns a new vector that is the componentwise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns a new vector that is the componentwise difference v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns a new vector scaled by s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Length returns the Euclidean magnitude of v.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// LengthSquared avoids the square root for threshold comparisons.
func (v Vec2) LengthSquared() float32 { return v.X*v.X + v.Y*v.Y }

// Normalized returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec2) Normalized() Vec2 {
	length := v.Length()
	if length == 0 {
		return Vec2{}
	}
	return v.Scale(1 / length)
}

// Lerp linearly blends a and b by t, producing a new Vec2.
func Lerp(a, b Vec2, t float32) Vec2 {
	return Vec2{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// LerpAngle blends two radian angles along the shortest arc.
func LerpAngle(a, b, t float32) float32 {
	diff := b - a
	//1.- Wrap the delta into [-pi, pi] so the blend always takes the short way around.
	for diff > math.Pi {
		diff -= 2 * math.Pi
	}
	for diff < -math.Pi {
		diff += 2 * math.Pi
	}
	return a + diff*t
}

func parseUUID(id string) ([16]byte, error) {
	var out [16]byte
	cleaned := strings.ReplaceAll(id, "-", "")
	if len(cleaned) != 32 {
		return out, fmt.Errorf("malformed uuid %q", id)
	}
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return out, fmt.Errorf("malformed uuid %q: %w", id, err)
	}
	copy(out[:], raw)
	return out, nil
}

func formatUUID(id [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", id[0:4], id[4:6], id[6:8], id[8:10], id[10:16])
}

// PlayerFlags is the packed representation of PlayerSnapshot.flags.
type PlayerFlags struct {
	Alive           bool
	SpawnProtection bool
	IsBot           bool
}

func (f PlayerFlags) encode() uint8 {
	var b uint8
	if f.Alive {
		b |= 1 << 0
	}
	if f.SpawnProtection {
		b |= 1 << 1
	}
	if f.IsBot {
		b |= 1 << 2
	}
	return b
}

func decodePlayerFlags(b uint8) PlayerFlags {
	return PlayerFlags{
		Alive:           b&(1<<0) != 0,
		SpawnProtection: b&(1<<1) != 0,
		IsBot:           b&(1<<2) != 0,
	}
}

// PlayerSnapshot is the authoritative per-tick state of one player.
type PlayerSnapshot struct {
	ID         string
	Name       string
	Position   Vec2
	Velocity   Vec2
	Rotation   float32
	Mass       float32
	Flags      PlayerFlags
	Kills      uint32
	Deaths     uint32
	ColorIndex uint8
}

// ProjectileSnapshot is the authoritative per-tick state of one projectile.
type ProjectileSnapshot struct {
	ID       uint64
	OwnerID  string
	Position Vec2
	Velocity Vec2
	Mass     float32
}

// DebrisSize enumerates the three debris sizes carried on the wire.
type DebrisSize uint8

const (
	DebrisSmall DebrisSize = iota
	DebrisMedium
	DebrisLarge
)

// DebrisSnapshot is the authoritative per-tick state of one debris field (no velocity).
type DebrisSnapshot struct {
	ID       uint64
	Position Vec2
	Size     DebrisSize
}

// GravityWellSnapshot is the authoritative per-tick state of one gravity well.
type GravityWellSnapshot struct {
	ID         uint32
	Position   Vec2
	Mass       float32
	CoreRadius float32
}

// NotablePlayer is a minimap radar record.
type NotablePlayer struct {
	ID         string
	Position   Vec2
	Mass       float32
	ColorIndex uint8
}

// MatchPhase enumerates the match lifecycle. Unknown values decode
// to MatchWaiting rather than failing, for forward-compatibility with
// server-added phases.
type MatchPhase uint32

const (
	MatchWaiting MatchPhase = iota
	MatchCountdown
	MatchPlaying
	MatchOver
)

func decodeMatchPhase(raw uint32) MatchPhase {
	switch raw {
	case uint32(MatchCountdown):
		return MatchCountdown
	case uint32(MatchPlaying):
		return MatchPlaying
	case uint32(MatchOver):
		return MatchOver
	default:
		return MatchWaiting
	}
}

// GameSnapshot is a complete authoritative world state for one tick.
// Field order mirrors the wire layout exactly; it is load-bearing.
type GameSnapshot struct {
	Tick                uint64
	Phase               MatchPhase
	MatchTime           float32
	Countdown           float32
	Players             []PlayerSnapshot
	Projectiles         []ProjectileSnapshot
	Debris              []DebrisSnapshot
	ArenaCollapsePhase  uint8
	ArenaSafeRadius     float32
	ArenaScale          float32
	GravityWells        []GravityWellSnapshot
	TotalPlayers        uint32
	TotalAlive          uint32
	DensityGrid         []byte
	NotablePlayers      []NotablePlayer
	EchoClientTime      uint64
}

// PlayerDelta carries at most six independently optional field updates for one player.
type PlayerDelta struct {
	ID string

	Position    *Vec2
	Velocity    *Vec2
	Rotation    *float32
	Mass        *float32
	Alive       *bool
	Kills       *uint32
}

// ProjectileDelta overwrites position/velocity for an existing projectile.
type ProjectileDelta struct {
	ID       uint64
	Position Vec2
	Velocity Vec2
}

// DeltaUpdate encodes the difference from a named baseTick snapshot.
type DeltaUpdate struct {
	Tick               uint64
	BaseTick           uint64
	PlayerUpdates      []PlayerDelta
	ProjectileUpdates  []ProjectileDelta
	RemovedProjectiles []uint64
	Debris             []DebrisSnapshot
}

// PlayerInput is issued by the input collector and recorded by the Predictor
// for later replay during reconciliation.
type PlayerInput struct {
	Sequence     uint64
	Tick         uint64
	ClientTime   uint64
	Thrust       Vec2
	Aim          Vec2
	Boost        bool
	Fire         bool
	FireReleased bool
}
