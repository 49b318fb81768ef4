package interpolate

import "orbit/client/internal/wire"

// blend produces a fresh GameSnapshot combining before and after at factor
// t. Discrete fields snap to after; continuous fields lerp; a player
// transitioning dead->alive or gaining spawn protection is emitted verbatim
// from after to avoid the "flying corpse" artifact.
func blend(before, after wire.GameSnapshot, t float32) wire.GameSnapshot {
	out := after
	out.MatchTime = lerpF32(before.MatchTime, after.MatchTime, t)
	out.Countdown = lerpF32(before.Countdown, after.Countdown, t)
	out.ArenaSafeRadius = lerpF32(before.ArenaSafeRadius, after.ArenaSafeRadius, t)
	out.ArenaScale = lerpF32(before.ArenaScale, after.ArenaScale, t)
	// Phase and collapse phase are discrete; out already carries after's values.

	out.Players = blendPlayers(before.Players, after.Players, t)
	out.Projectiles = blendProjectiles(before.Projectiles, after.Projectiles, t)
	out.Debris = blendDebris(before.Debris, after.Debris, t)
	out.GravityWells = blendWells(before.GravityWells, after.GravityWells, t)
	out.NotablePlayers = blendNotablePlayers(before.NotablePlayers, after.NotablePlayers, t)
	return out
}

func lerpF32(a, b, t float32) float32 { return a + (b-a)*t }

func blendPlayers(before, after []wire.PlayerSnapshot, t float32) []wire.PlayerSnapshot {
	beforeByID := make(map[string]wire.PlayerSnapshot, len(before))
	for _, p := range before {
		beforeByID[p.ID] = p
	}
	out := make([]wire.PlayerSnapshot, 0, len(after))
	for _, a := range after {
		b, ok := beforeByID[a.ID]
		if !ok {
			//1.- A player present only in after is emitted verbatim.
			out = append(out, a)
			continue
		}
		if (!b.Flags.Alive && a.Flags.Alive) || (!b.Flags.SpawnProtection && a.Flags.SpawnProtection) {
			//2.- Respawn or fresh spawn-protection: snap to after, skip blending.
			out = append(out, a)
			continue
		}
		blended := a
		blended.Position = wire.Lerp(b.Position, a.Position, t)
		blended.Velocity = wire.Lerp(b.Velocity, a.Velocity, t)
		blended.Rotation = wire.LerpAngle(b.Rotation, a.Rotation, t)
		blended.Mass = lerpF32(b.Mass, a.Mass, t)
		// Flags, kills, deaths, colorIndex, name are discrete: already from a.
		out = append(out, blended)
	}
	return out
}

func blendProjectiles(before, after []wire.ProjectileSnapshot, t float32) []wire.ProjectileSnapshot {
	beforeByID := make(map[uint64]wire.ProjectileSnapshot, len(before))
	for _, p := range before {
		beforeByID[p.ID] = p
	}
	out := make([]wire.ProjectileSnapshot, 0, len(after))
	for _, a := range after {
		b, ok := beforeByID[a.ID]
		if !ok {
			out = append(out, a)
			continue
		}
		blended := a
		blended.Position = wire.Lerp(b.Position, a.Position, t)
		blended.Velocity = wire.Lerp(b.Velocity, a.Velocity, t)
		// Mass and ownerId are discrete: already from a.
		out = append(out, blended)
	}
	return out
}

func blendDebris(before, after []wire.DebrisSnapshot, t float32) []wire.DebrisSnapshot {
	beforeByID := make(map[uint64]wire.DebrisSnapshot, len(before))
	for _, d := range before {
		beforeByID[d.ID] = d
	}
	out := make([]wire.DebrisSnapshot, 0, len(after))
	for _, a := range after {
		b, ok := beforeByID[a.ID]
		if !ok {
			out = append(out, a)
			continue
		}
		blended := a
		blended.Position = wire.Lerp(b.Position, a.Position, t)
		// Size is discrete: already from a.
		out = append(out, blended)
	}
	return out
}

func blendWells(before, after []wire.GravityWellSnapshot, t float32) []wire.GravityWellSnapshot {
	beforeByID := make(map[uint32]wire.GravityWellSnapshot, len(before))
	for _, w := range before {
		beforeByID[w.ID] = w
	}
	out := make([]wire.GravityWellSnapshot, 0, len(after))
	for _, a := range after {
		b, ok := beforeByID[a.ID]
		if !ok {
			out = append(out, a)
			continue
		}
		blended := a
		blended.Position = wire.Lerp(b.Position, a.Position, t)
		blended.Mass = lerpF32(b.Mass, a.Mass, t)
		blended.CoreRadius = lerpF32(b.CoreRadius, a.CoreRadius, t)
		out = append(out, blended)
	}
	return out
}

func blendNotablePlayers(before, after []wire.NotablePlayer, t float32) []wire.NotablePlayer {
	beforeByID := make(map[string]wire.NotablePlayer, len(before))
	for _, n := range before {
		beforeByID[n.ID] = n
	}
	out := make([]wire.NotablePlayer, 0, len(after))
	for _, a := range after {
		b, ok := beforeByID[a.ID]
		if !ok {
			out = append(out, a)
			continue
		}
		blended := a
		blended.Position = wire.Lerp(b.Position, a.Position, t)
		blended.Mass = lerpF32(b.Mass, a.Mass, t)
		out = append(out, blended)
	}
	return out
}
