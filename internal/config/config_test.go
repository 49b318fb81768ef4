package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"ORBIT_SERVER_URL", "ORBIT_CERT_HASH", "ORBIT_MAX_PAYLOAD_BYTES",
		"ORBIT_PING_INTERVAL", "ORBIT_INTERPOLATION_DELAY_MS",
		"ORBIT_SNAPSHOT_BUFFER_SIZE", "ORBIT_INPUT_BUFFER_SIZE",
		"ORBIT_LOG_LEVEL", "ORBIT_LOG_PATH", "ORBIT_LOG_MAX_SIZE_MB",
		"ORBIT_LOG_MAX_BACKUPS", "ORBIT_LOG_MAX_AGE_DAYS", "ORBIT_LOG_COMPRESS",
		"ORBIT_CAPTURE_ENABLED", "ORBIT_CAPTURE_PATH",
		"ORBIT_MAX_DECODE_ERROR_BURST", "ORBIT_MAX_DECODE_ERROR_WINDOW",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.ServerURL != DefaultServerURL {
		t.Fatalf("expected default server url %q, got %q", DefaultServerURL, cfg.ServerURL)
	}
	if cfg.MaxPayloadBytes != DefaultMaxPayloadBytes {
		t.Fatalf("expected default max payload %d, got %d", DefaultMaxPayloadBytes, cfg.MaxPayloadBytes)
	}
	if cfg.PingInterval != DefaultPingInterval {
		t.Fatalf("expected default ping interval %s, got %s", DefaultPingInterval, cfg.PingInterval)
	}
	if cfg.InterpolationDelayMs != DefaultInterpolationDelayMs {
		t.Fatalf("expected default interpolation delay %d, got %d", DefaultInterpolationDelayMs, cfg.InterpolationDelayMs)
	}
	if cfg.SnapshotBufferSize != DefaultSnapshotBufferSize {
		t.Fatalf("expected default snapshot buffer size %d, got %d", DefaultSnapshotBufferSize, cfg.SnapshotBufferSize)
	}
	if cfg.InputBufferSize != DefaultInputBufferSize {
		t.Fatalf("expected default input buffer size %d, got %d", DefaultInputBufferSize, cfg.InputBufferSize)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.Logging.Level)
	}
	if cfg.CaptureEnabled {
		t.Fatalf("expected capture disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORBIT_SERVER_URL", "wss://arena.example:9443/ws")
	t.Setenv("ORBIT_CERT_HASH", "deadbeef")
	t.Setenv("ORBIT_PING_INTERVAL", "15s")
	t.Setenv("ORBIT_INTERPOLATION_DELAY_MS", "120")
	t.Setenv("ORBIT_SNAPSHOT_BUFFER_SIZE", "64")
	t.Setenv("ORBIT_INPUT_BUFFER_SIZE", "512")
	t.Setenv("ORBIT_CAPTURE_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.ServerURL != "wss://arena.example:9443/ws" {
		t.Fatalf("unexpected server url %q", cfg.ServerURL)
	}
	if cfg.CertHash != "deadbeef" {
		t.Fatalf("unexpected cert hash %q", cfg.CertHash)
	}
	if cfg.PingInterval != 15*time.Second {
		t.Fatalf("unexpected ping interval %s", cfg.PingInterval)
	}
	if cfg.InterpolationDelayMs != 120 {
		t.Fatalf("unexpected interpolation delay %d", cfg.InterpolationDelayMs)
	}
	if cfg.SnapshotBufferSize != 64 {
		t.Fatalf("unexpected snapshot buffer size %d", cfg.SnapshotBufferSize)
	}
	if cfg.InputBufferSize != 512 {
		t.Fatalf("unexpected input buffer size %d", cfg.InputBufferSize)
	}
	if !cfg.CaptureEnabled {
		t.Fatalf("expected capture enabled")
	}
}

func TestLoadRejectsInvalidCertHash(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORBIT_CERT_HASH", "short")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ORBIT_CERT_HASH") {
		t.Fatalf("expected cert hash validation error, got %v", err)
	}
}

func TestLoadRejectsInvalidDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORBIT_PING_INTERVAL", "not-a-duration")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ORBIT_PING_INTERVAL") {
		t.Fatalf("expected ping interval validation error, got %v", err)
	}
}
