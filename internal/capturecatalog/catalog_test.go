package capturecatalog

import (
	"os"
	"path/filepath"
	"testing"

	"orbit/client/internal/capture"
)

func TestListCollectsHeaders(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "alpha")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	header := capture.Header{
		SchemaVersion: capture.HeaderSchemaVersion,
		SessionID:     "session-alpha",
		ServerMeta:    capture.ServerMetadata{"roughness": 0.4},
		FilePointer:   "session.json.gz",
	}
	headerPath := filepath.Join(dataDir, "header.json")
	if err := capture.WriteHeader(headerPath, header); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	entries, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected single entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Header.SessionID != "session-alpha" {
		t.Fatalf("unexpected session id: %q", entry.Header.SessionID)
	}
	if entry.ArtefactPath != filepath.Join(dataDir, "session.json.gz") {
		t.Fatalf("unexpected artefact path: %q", entry.ArtefactPath)
	}

	payload, err := MarshalEntries(entries)
	if err != nil {
		t.Fatalf("MarshalEntries: %v", err)
	}
	if len(payload) == 0 {
		t.Fatalf("expected JSON payload to be non-empty")
	}
}

func TestListRejectsMissingRoot(t *testing.T) {
	if _, err := List(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
