// Command framedump replays a capture bundle through the decode and
// state-synchronization pipeline offline, producing a per-tick trace of the
// renderable world state instead of the raw JSON a bundle contains on disk.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"orbit/client/internal/config"
	"orbit/client/internal/framedump"
	"orbit/client/internal/interpolate"
	"orbit/client/internal/snapshotstore"
	"orbit/client/internal/wire"
	"orbit/client/internal/worldview"
)

type tickTrace struct {
	Tick         uint64  `json:"tick"`
	SimulatedMs  int64   `json:"simulated_ms"`
	AliveCount   uint32  `json:"alive_count"`
	TotalCount   uint32  `json:"total_count"`
	LocalPlaced  int     `json:"local_placement,omitempty"`
	LocalMass    float32 `json:"local_mass,omitempty"`
	EventsByType string  `json:"event_type,omitempty"`
}

func main() {
	path := flag.String("path", "", "path to a capture bundle directory or its manifest.json")
	localPlayerID := flag.String("local-player", "", "player id to track placement/mass for")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "framedump: -path is required")
		os.Exit(2)
	}

	manifest, events, frames, err := framedump.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "framedump: %v\n", err)
		os.Exit(1)
	}

	//1.- Wire the same collaborators the live session uses, seeded with defaults.
	store := snapshotstore.New(config.DefaultSnapshotBufferSize, func() int64 { return 0 })
	interpolator := interpolate.New(config.DefaultInterpolationDelayMs)
	view := worldview.New(*localPlayerID, 32)

	traces := make([]tickTrace, 0, len(frames))

	//2.- Replay events first; PhaseChange/Kicked/etc. carry no snapshot state but
	// inform well bookkeeping and display names the same way the live session does.
	for _, evt := range events {
		msg, err := wire.DecodeServerMessage(evt.Payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "framedump: skipping undecodable event at tick %d: %v\n", evt.Tick, err)
			continue
		}
		applyEvent(msg, view)
	}

	//3.- Replay frames through the store so deltas resolve against their recorded
	// base tick exactly as they did during the live session.
	for _, frame := range frames {
		msg, err := wire.DecodeServerMessage(frame.Payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "framedump: skipping undecodable frame at tick %d: %v\n", frame.Tick, err)
			continue
		}
		switch m := msg.(type) {
		case wire.SnapshotMessage:
			store.Push(m.GameSnapshot)
		case wire.DeltaMessage:
			store.ApplyDelta(m.DeltaUpdate)
		default:
			continue
		}

		rendered, ok := interpolator.Render(store.Entries(), frame.CapturedAt.UnixMilli())
		if !ok {
			continue
		}
		interpolator.ReapDestroyedWells(rendered)
		view.Observe(rendered, frame.SimulatedMs)
		view.ReapDestroyedWells(rendered)

		trace := tickTrace{
			Tick:        frame.Tick,
			SimulatedMs: frame.SimulatedMs,
			AliveCount:  worldview.AliveCount(rendered),
			TotalCount:  worldview.TotalCount(rendered),
		}
		if *localPlayerID != "" {
			trace.LocalPlaced = worldview.Placement(rendered, *localPlayerID)
			for _, p := range rendered.Players {
				if p.ID == *localPlayerID {
					trace.LocalMass = p.Mass
				}
			}
		}
		traces = append(traces, trace)
	}

	output := struct {
		Manifest struct {
			Version         int    `json:"version"`
			FrameIntervalMs int    `json:"frame_interval_ms"`
			CreatedAt       string `json:"created_at"`
		} `json:"manifest"`
		Ticks []tickTrace `json:"ticks"`
	}{}
	output.Manifest.Version = manifest.Version
	output.Manifest.FrameIntervalMs = manifest.FrameIntervalMs
	output.Manifest.CreatedAt = manifest.CreatedAt
	output.Ticks = traces

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "framedump: encode output: %v\n", err)
		os.Exit(1)
	}
}

func applyEvent(msg wire.ServerMessage, view *worldview.WorldView) {
	if evtMsg, ok := msg.(wire.EventMessage); ok {
		applyGameEvent(evtMsg.Event, view)
	}
}

func applyGameEvent(evt wire.GameEvent, view *worldview.WorldView) {
	switch e := evt.(type) {
	case wire.PlayerJoined:
		view.RememberName(e.ID, e.Name)
	case wire.GravityWellCharging:
		view.OnGravityWellCharging(e.WellID, e.Position, 0)
	case wire.GravityWaveExplosion:
		view.OnGravityWaveExplosion(e.WellID, e.Position, 0)
	case wire.GravityWellDestroyed:
		view.MarkWellDestroyed(e.WellID, 0)
	}
}
