package wire

// This file holds the encode/decode routines for the aggregate snapshot and
// delta payloads. Field order in every function below
// must track the struct field order in types.go exactly; it is the wire
// contract.

func encodePlayerSnapshot(w *Writer, p PlayerSnapshot) {
	_ = w.WriteUUID(p.ID)
	w.WriteString(p.Name)
	w.WriteVec2(p.Position)
	w.WriteVec2(p.Velocity)
	w.WriteF32(p.Rotation)
	w.WriteF32(p.Mass)
	w.WriteU8(p.Flags.encode())
	w.WriteU32(p.Kills)
	w.WriteU32(p.Deaths)
	w.WriteU8(p.ColorIndex)
}

func decodePlayerSnapshot(r *Reader) (PlayerSnapshot, error) {
	var p PlayerSnapshot
	var err error
	if p.ID, err = r.ReadUUID(); err != nil {
		return p, err
	}
	if p.Name, err = r.ReadString(); err != nil {
		return p, err
	}
	if p.Position, err = r.ReadVec2(); err != nil {
		return p, err
	}
	if p.Velocity, err = r.ReadVec2(); err != nil {
		return p, err
	}
	if p.Rotation, err = r.ReadF32(); err != nil {
		return p, err
	}
	if p.Mass, err = r.ReadF32(); err != nil {
		return p, err
	}
	flags, err := r.ReadU8()
	if err != nil {
		return p, err
	}
	p.Flags = decodePlayerFlags(flags)
	if p.Kills, err = r.ReadU32(); err != nil {
		return p, err
	}
	if p.Deaths, err = r.ReadU32(); err != nil {
		return p, err
	}
	if p.ColorIndex, err = r.ReadU8(); err != nil {
		return p, err
	}
	return p, nil
}

func encodeProjectileSnapshot(w *Writer, p ProjectileSnapshot) {
	w.WriteU64(p.ID)
	_ = w.WriteUUID(p.OwnerID)
	w.WriteVec2(p.Position)
	w.WriteVec2(p.Velocity)
	w.WriteF32(p.Mass)
}

func decodeProjectileSnapshot(r *Reader) (ProjectileSnapshot, error) {
	var p ProjectileSnapshot
	var err error
	if p.ID, err = r.ReadU64(); err != nil {
		return p, err
	}
	if p.OwnerID, err = r.ReadUUID(); err != nil {
		return p, err
	}
	if p.Position, err = r.ReadVec2(); err != nil {
		return p, err
	}
	if p.Velocity, err = r.ReadVec2(); err != nil {
		return p, err
	}
	if p.Mass, err = r.ReadF32(); err != nil {
		return p, err
	}
	return p, nil
}

func encodeDebrisSnapshot(w *Writer, d DebrisSnapshot) {
	w.WriteU64(d.ID)
	w.WriteVec2(d.Position)
	w.WriteU8(uint8(d.Size))
}

func decodeDebrisSnapshot(r *Reader) (DebrisSnapshot, error) {
	var d DebrisSnapshot
	var err error
	if d.ID, err = r.ReadU64(); err != nil {
		return d, err
	}
	if d.Position, err = r.ReadVec2(); err != nil {
		return d, err
	}
	size, err := r.ReadU8()
	if err != nil {
		return d, err
	}
	d.Size = DebrisSize(size)
	return d, nil
}

func encodeGravityWellSnapshot(w *Writer, g GravityWellSnapshot) {
	w.WriteU32(g.ID)
	w.WriteVec2(g.Position)
	w.WriteF32(g.Mass)
	w.WriteF32(g.CoreRadius)
}

func decodeGravityWellSnapshot(r *Reader) (GravityWellSnapshot, error) {
	var g GravityWellSnapshot
	var err error
	if g.ID, err = r.ReadU32(); err != nil {
		return g, err
	}
	if g.Position, err = r.ReadVec2(); err != nil {
		return g, err
	}
	if g.Mass, err = r.ReadF32(); err != nil {
		return g, err
	}
	if g.CoreRadius, err = r.ReadF32(); err != nil {
		return g, err
	}
	return g, nil
}

func encodeNotablePlayer(w *Writer, n NotablePlayer) {
	_ = w.WriteUUID(n.ID)
	w.WriteVec2(n.Position)
	w.WriteF32(n.Mass)
	w.WriteU8(n.ColorIndex)
}

func decodeNotablePlayer(r *Reader) (NotablePlayer, error) {
	var n NotablePlayer
	var err error
	if n.ID, err = r.ReadUUID(); err != nil {
		return n, err
	}
	if n.Position, err = r.ReadVec2(); err != nil {
		return n, err
	}
	if n.Mass, err = r.ReadF32(); err != nil {
		return n, err
	}
	if n.ColorIndex, err = r.ReadU8(); err != nil {
		return n, err
	}
	return n, nil
}

func encodeGameSnapshot(w *Writer, s GameSnapshot) {
	w.WriteU64(s.Tick)
	w.WriteU32(uint32(s.Phase))
	w.WriteF32(s.MatchTime)
	w.WriteF32(s.Countdown)

	w.WriteU64(uint64(len(s.Players)))
	for _, p := range s.Players {
		encodePlayerSnapshot(w, p)
	}
	w.WriteU64(uint64(len(s.Projectiles)))
	for _, p := range s.Projectiles {
		encodeProjectileSnapshot(w, p)
	}
	w.WriteU64(uint64(len(s.Debris)))
	for _, d := range s.Debris {
		encodeDebrisSnapshot(w, d)
	}

	w.WriteU8(s.ArenaCollapsePhase)
	w.WriteF32(s.ArenaSafeRadius)
	w.WriteF32(s.ArenaScale)

	w.WriteU64(uint64(len(s.GravityWells)))
	for _, g := range s.GravityWells {
		encodeGravityWellSnapshot(w, g)
	}

	w.WriteU32(s.TotalPlayers)
	w.WriteU32(s.TotalAlive)
	w.WriteByteArray(s.DensityGrid)

	w.WriteU64(uint64(len(s.NotablePlayers)))
	for _, n := range s.NotablePlayers {
		encodeNotablePlayer(w, n)
	}

	w.WriteU64(s.EchoClientTime)
}

func decodeGameSnapshot(r *Reader) (GameSnapshot, error) {
	var s GameSnapshot
	var err error
	if s.Tick, err = r.ReadU64(); err != nil {
		return s, err
	}
	phase, err := r.ReadU32()
	if err != nil {
		return s, err
	}
	s.Phase = decodeMatchPhase(phase)
	if s.MatchTime, err = r.ReadF32(); err != nil {
		return s, err
	}
	if s.Countdown, err = r.ReadF32(); err != nil {
		return s, err
	}

	playerCount, err := r.ReadU64()
	if err != nil {
		return s, err
	}
	s.Players = make([]PlayerSnapshot, 0, playerCount)
	for i := uint64(0); i < playerCount; i++ {
		p, err := decodePlayerSnapshot(r)
		if err != nil {
			return s, err
		}
		s.Players = append(s.Players, p)
	}

	projectileCount, err := r.ReadU64()
	if err != nil {
		return s, err
	}
	s.Projectiles = make([]ProjectileSnapshot, 0, projectileCount)
	for i := uint64(0); i < projectileCount; i++ {
		p, err := decodeProjectileSnapshot(r)
		if err != nil {
			return s, err
		}
		s.Projectiles = append(s.Projectiles, p)
	}

	debrisCount, err := r.ReadU64()
	if err != nil {
		return s, err
	}
	s.Debris = make([]DebrisSnapshot, 0, debrisCount)
	for i := uint64(0); i < debrisCount; i++ {
		d, err := decodeDebrisSnapshot(r)
		if err != nil {
			return s, err
		}
		s.Debris = append(s.Debris, d)
	}

	if s.ArenaCollapsePhase, err = r.ReadU8(); err != nil {
		return s, err
	}
	if s.ArenaSafeRadius, err = r.ReadF32(); err != nil {
		return s, err
	}
	if s.ArenaScale, err = r.ReadF32(); err != nil {
		return s, err
	}

	wellCount, err := r.ReadU64()
	if err != nil {
		return s, err
	}
	s.GravityWells = make([]GravityWellSnapshot, 0, wellCount)
	for i := uint64(0); i < wellCount; i++ {
		g, err := decodeGravityWellSnapshot(r)
		if err != nil {
			return s, err
		}
		s.GravityWells = append(s.GravityWells, g)
	}

	if s.TotalPlayers, err = r.ReadU32(); err != nil {
		return s, err
	}
	if s.TotalAlive, err = r.ReadU32(); err != nil {
		return s, err
	}
	if s.DensityGrid, err = r.ReadByteArray(); err != nil {
		return s, err
	}

	notableCount, err := r.ReadU64()
	if err != nil {
		return s, err
	}
	s.NotablePlayers = make([]NotablePlayer, 0, notableCount)
	for i := uint64(0); i < notableCount; i++ {
		n, err := decodeNotablePlayer(r)
		if err != nil {
			return s, err
		}
		s.NotablePlayers = append(s.NotablePlayers, n)
	}

	if s.EchoClientTime, err = r.ReadU64(); err != nil {
		return s, err
	}
	return s, nil
}

func encodePlayerDelta(w *Writer, d PlayerDelta) {
	_ = w.WriteUUID(d.ID)
	writeOptionalVec2(w, d.Position)
	writeOptionalVec2(w, d.Velocity)
	writeOptionalF32(w, d.Rotation)
	writeOptionalF32(w, d.Mass)
	writeOptionalBool(w, d.Alive)
	writeOptionalU32(w, d.Kills)
}

func decodePlayerDelta(r *Reader) (PlayerDelta, error) {
	var d PlayerDelta
	var err error
	if d.ID, err = r.ReadUUID(); err != nil {
		return d, err
	}
	if d.Position, err = readOptionalVec2(r); err != nil {
		return d, err
	}
	if d.Velocity, err = readOptionalVec2(r); err != nil {
		return d, err
	}
	if d.Rotation, err = readOptionalF32(r); err != nil {
		return d, err
	}
	if d.Mass, err = readOptionalF32(r); err != nil {
		return d, err
	}
	if d.Alive, err = readOptionalBool(r); err != nil {
		return d, err
	}
	if d.Kills, err = readOptionalU32(r); err != nil {
		return d, err
	}
	return d, nil
}

func encodeProjectileDelta(w *Writer, d ProjectileDelta) {
	w.WriteU64(d.ID)
	w.WriteVec2(d.Position)
	w.WriteVec2(d.Velocity)
}

func decodeProjectileDelta(r *Reader) (ProjectileDelta, error) {
	var d ProjectileDelta
	var err error
	if d.ID, err = r.ReadU64(); err != nil {
		return d, err
	}
	if d.Position, err = r.ReadVec2(); err != nil {
		return d, err
	}
	if d.Velocity, err = r.ReadVec2(); err != nil {
		return d, err
	}
	return d, nil
}

func encodeDeltaUpdate(w *Writer, d DeltaUpdate) {
	w.WriteU64(d.Tick)
	w.WriteU64(d.BaseTick)

	w.WriteU64(uint64(len(d.PlayerUpdates)))
	for _, p := range d.PlayerUpdates {
		encodePlayerDelta(w, p)
	}
	w.WriteU64(uint64(len(d.ProjectileUpdates)))
	for _, p := range d.ProjectileUpdates {
		encodeProjectileDelta(w, p)
	}
	w.WriteU64(uint64(len(d.RemovedProjectiles)))
	for _, id := range d.RemovedProjectiles {
		w.WriteU64(id)
	}
	w.WriteU64(uint64(len(d.Debris)))
	for _, deb := range d.Debris {
		encodeDebrisSnapshot(w, deb)
	}
}

func decodeDeltaUpdate(r *Reader) (DeltaUpdate, error) {
	var d DeltaUpdate
	var err error
	if d.Tick, err = r.ReadU64(); err != nil {
		return d, err
	}
	if d.BaseTick, err = r.ReadU64(); err != nil {
		return d, err
	}

	playerCount, err := r.ReadU64()
	if err != nil {
		return d, err
	}
	d.PlayerUpdates = make([]PlayerDelta, 0, playerCount)
	for i := uint64(0); i < playerCount; i++ {
		p, err := decodePlayerDelta(r)
		if err != nil {
			return d, err
		}
		d.PlayerUpdates = append(d.PlayerUpdates, p)
	}

	projectileCount, err := r.ReadU64()
	if err != nil {
		return d, err
	}
	d.ProjectileUpdates = make([]ProjectileDelta, 0, projectileCount)
	for i := uint64(0); i < projectileCount; i++ {
		p, err := decodeProjectileDelta(r)
		if err != nil {
			return d, err
		}
		d.ProjectileUpdates = append(d.ProjectileUpdates, p)
	}

	removedCount, err := r.ReadU64()
	if err != nil {
		return d, err
	}
	d.RemovedProjectiles = make([]uint64, 0, removedCount)
	for i := uint64(0); i < removedCount; i++ {
		id, err := r.ReadU64()
		if err != nil {
			return d, err
		}
		d.RemovedProjectiles = append(d.RemovedProjectiles, id)
	}

	debrisCount, err := r.ReadU64()
	if err != nil {
		return d, err
	}
	d.Debris = make([]DebrisSnapshot, 0, debrisCount)
	for i := uint64(0); i < debrisCount; i++ {
		deb, err := decodeDebrisSnapshot(r)
		if err != nil {
			return d, err
		}
		d.Debris = append(d.Debris, deb)
	}

	return d, nil
}

// Optional-field helpers encode a presence byte ahead of the value, mirroring
// the option<T> wire convention used throughout the delta payloads.

func writeOptionalVec2(w *Writer, v *Vec2) {
	if v == nil {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	w.WriteVec2(*v)
}

func readOptionalVec2(r *Reader) (*Vec2, error) {
	present, err := r.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	v, err := r.ReadVec2()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeOptionalF32(w *Writer, v *float32) {
	if v == nil {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	w.WriteF32(*v)
}

func readOptionalF32(r *Reader) (*float32, error) {
	present, err := r.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	v, err := r.ReadF32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeOptionalBool(w *Writer, v *bool) {
	if v == nil {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	w.WriteBool(*v)
}

func readOptionalBool(r *Reader) (*bool, error) {
	present, err := r.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	v, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeOptionalU32(w *Writer, v *uint32) {
	if v == nil {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	w.WriteU32(*v)
}

func readOptionalU32(r *Reader) (*uint32, error) {
	present, err := r.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	v, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}
