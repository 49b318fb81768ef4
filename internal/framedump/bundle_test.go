package framedump

import (
	"testing"
	"time"

	"orbit/client/internal/capture"
)

func TestLoadRoundTripsEventsAndFrames(t *testing.T) {
	tmp := t.TempDir()
	clock := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	writer, _, err := capture.NewWriter(tmp, "Round Trip", func() time.Time { return clock })
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := writer.AppendEvent(1, 10, "join", []byte("hello")); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := writer.AppendFrame(1, 10, []byte("frame-one")); err != nil {
		t.Fatalf("AppendFrame: %v", err)
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	manifest, events, frames, err := Load(writer.Directory())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if manifest.Version != 1 {
		t.Fatalf("expected manifest version 1, got %d", manifest.Version)
	}
	if len(events) != 1 || string(events[0].Payload) != "hello" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if len(frames) != 1 || string(frames[0].Payload) != "frame-one" {
		t.Fatalf("unexpected frames: %+v", frames)
	}
	if frames[0].Tick != 1 || frames[0].SimulatedMs != 10 {
		t.Fatalf("unexpected frame metadata: %+v", frames[0])
	}
}

func TestLoadRejectsMissingManifest(t *testing.T) {
	tmp := t.TempDir()
	if _, _, _, err := Load(tmp); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}
