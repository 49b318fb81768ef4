package capture

import (
	"path/filepath"
	"testing"
)

func TestWriteAndReadHeader(t *testing.T) {
	dir := t.TempDir()
	header := Header{
		SchemaVersion: HeaderSchemaVersion,
		SessionID:     "seed-9",
		ServerMeta:    ServerMetadata{"roughness": 0.5},
		FilePointer:   "session.json.gz",
	}
	path := filepath.Join(dir, "example.header.json")
	if err := WriteHeader(path, header); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	loaded, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if loaded.SchemaVersion != header.SchemaVersion || loaded.SessionID != header.SessionID {
		t.Fatalf("unexpected header values: %+v", loaded)
	}
	if loaded.ServerMeta["roughness"] != 0.5 {
		t.Fatalf("unexpected server metadata: %#v", loaded.ServerMeta)
	}
	if loaded.FilePointer != header.FilePointer {
		t.Fatalf("unexpected file pointer: %q", loaded.FilePointer)
	}
}
