package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"orbit/client/internal/config"
)

func TestNewWritesStructuredJSON(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(config.LoggingConfig{
		Level:      "debug",
		Path:       filepath.Join(dir, "client.log"),
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	logger.Info("session established", String("server", "arena-1"), Int("tick", 42))
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync() returned error: %v", err)
	}

	var buf bytes.Buffer
	data, err := os.ReadFile(filepath.Join(dir, "client.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	buf.Write(data)

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("expected valid JSON line, got %q: %v", buf.String(), err)
	}
	if payload["message"] != "session established" {
		t.Fatalf("unexpected message field: %v", payload["message"])
	}
	if payload["server"] != "arena-1" {
		t.Fatalf("unexpected server field: %v", payload["server"])
	}
}

func TestWithAddsFieldsWithoutMutatingParent(t *testing.T) {
	base := NewTestLogger()
	child := base.With(String("session", "abc"))
	if len(base.fields) != 0 {
		t.Fatalf("expected parent fields untouched, got %v", base.fields)
	}
	if child.fields["session"] != "abc" {
		t.Fatalf("expected child field to be set")
	}
}

func TestLevelFiltering(t *testing.T) {
	logger := NewTestLogger()
	logger.level = WarnLevel
	logger.Debug("should be filtered")
	logger.Warn("should pass")
}

func TestWithTraceGeneratesID(t *testing.T) {
	ctx, logger, traceID := WithTrace(nil, nil, "")
	if traceID == "" {
		t.Fatalf("expected generated trace id")
	}
	if got := TraceIDFromContext(ctx); got != traceID {
		t.Fatalf("expected trace id %q in context, got %q", traceID, got)
	}
	if logger == nil {
		t.Fatalf("expected non-nil derived logger")
	}
}
