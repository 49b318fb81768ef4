package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultServerURL is the default arena server endpoint dialed at startup.
	DefaultServerURL = "wss://127.0.0.1:43127/ws"
	// DefaultPingInterval controls the keepalive cadence for the transport connection.
	DefaultPingInterval = 30 * time.Second
	// DefaultMaxPayloadBytes limits inbound frame size accepted from the transport.
	DefaultMaxPayloadBytes int64 = 1 << 20

	// DefaultInterpolationDelayMs is the fixed render lag applied by the Interpolator.
	DefaultInterpolationDelayMs = 100
	// DefaultSnapshotBufferSize bounds how many snapshots the SnapshotStore retains.
	DefaultSnapshotBufferSize = 32
	// DefaultInputBufferSize bounds how many unacknowledged inputs the Predictor retains.
	DefaultInputBufferSize = 256

	// DefaultMaxDecodeErrorBurst is how many decode failures within the window escalate to ProtocolMismatch.
	DefaultMaxDecodeErrorBurst = 5
	// DefaultMaxDecodeErrorWindow is the period over which the decode-error
	// token bucket refills a full burst of tokens.
	DefaultMaxDecodeErrorWindow = time.Second

	// DefaultLogLevel controls verbosity for core logs.
	DefaultLogLevel = "info"
	// DefaultLogPath is where structured logs are written.
	DefaultLogPath = "orbit-client.log"
	// DefaultLogMaxSizeMB caps the size of a single log file before rotation.
	DefaultLogMaxSizeMB = 50
	// DefaultLogMaxBackups limits retained rotated log files.
	DefaultLogMaxBackups = 5
	// DefaultLogMaxAgeDays controls how long rotated log files are kept on disk.
	DefaultLogMaxAgeDays = 7
	// DefaultLogCompress toggles gzip compression for rotated log files.
	DefaultLogCompress = true

	// DefaultCapturePath is where diagnostic session captures are written when enabled.
	DefaultCapturePath = "captures"

	// DefaultInputMinInterval paces outbound input frames below this spacing,
	// protecting the unreliable channel from a renderer running faster than
	// the server's tick rate.
	DefaultInputMinInterval = time.Second / 60
	// DefaultInputMaxAge drops outbound input frames that sat in the local
	// queue longer than this before being sent.
	DefaultInputMaxAge = 250 * time.Millisecond
)

// Config captures all runtime tunables for the client network core.
type Config struct {
	ServerURL            string
	CertHash             string
	PingInterval         time.Duration
	MaxPayloadBytes      int64
	InterpolationDelayMs int
	SnapshotBufferSize   int
	InputBufferSize      int
	MaxDecodeErrorBurst  int
	MaxDecodeErrorWindow time.Duration
	Logging              LoggingConfig
	CaptureEnabled       bool
	CapturePath          string
	InputMinInterval     time.Duration
	InputMaxAge          time.Duration
}

// LoggingConfig captures structured logging configuration options.
type LoggingConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load reads the client configuration from environment variables, applying sane defaults
// and returning descriptive errors for invalid overrides.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:            getString("ORBIT_SERVER_URL", DefaultServerURL),
		CertHash:             strings.TrimSpace(os.Getenv("ORBIT_CERT_HASH")),
		PingInterval:         DefaultPingInterval,
		MaxPayloadBytes:      DefaultMaxPayloadBytes,
		InterpolationDelayMs: DefaultInterpolationDelayMs,
		SnapshotBufferSize:   DefaultSnapshotBufferSize,
		InputBufferSize:      DefaultInputBufferSize,
		MaxDecodeErrorBurst:  DefaultMaxDecodeErrorBurst,
		MaxDecodeErrorWindow: DefaultMaxDecodeErrorWindow,
		Logging: LoggingConfig{
			Level:      strings.TrimSpace(getString("ORBIT_LOG_LEVEL", DefaultLogLevel)),
			Path:       strings.TrimSpace(getString("ORBIT_LOG_PATH", DefaultLogPath)),
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   DefaultLogCompress,
		},
		CapturePath:      strings.TrimSpace(getString("ORBIT_CAPTURE_PATH", DefaultCapturePath)),
		InputMinInterval: DefaultInputMinInterval,
		InputMaxAge:      DefaultInputMaxAge,
	}

	var problems []string

	if raw := strings.TrimSpace(os.Getenv("ORBIT_CERT_HASH")); raw != "" && !isHex8(raw) {
		problems = append(problems, fmt.Sprintf("ORBIT_CERT_HASH must be an 8-hex-character fingerprint, got %q", raw))
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_MAX_PAYLOAD_BYTES")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_MAX_PAYLOAD_BYTES must be a positive integer, got %q", raw))
		} else {
			cfg.MaxPayloadBytes = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_PING_INTERVAL")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_PING_INTERVAL must be a positive duration, got %q", raw))
		} else {
			cfg.PingInterval = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_INTERPOLATION_DELAY_MS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_INTERPOLATION_DELAY_MS must be a non-negative integer, got %q", raw))
		} else {
			cfg.InterpolationDelayMs = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_SNAPSHOT_BUFFER_SIZE")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_SNAPSHOT_BUFFER_SIZE must be a positive integer, got %q", raw))
		} else {
			cfg.SnapshotBufferSize = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_INPUT_BUFFER_SIZE")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_INPUT_BUFFER_SIZE must be a positive integer, got %q", raw))
		} else {
			cfg.InputBufferSize = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_LOG_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_LOG_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.Logging.MaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_LOG_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_LOG_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_LOG_MAX_AGE_DAYS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_LOG_MAX_AGE_DAYS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxAgeDays = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_LOG_COMPRESS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("ORBIT_LOG_COMPRESS must be a boolean value, got %q", raw))
		} else {
			cfg.Logging.Compress = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_CAPTURE_ENABLED")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("ORBIT_CAPTURE_ENABLED must be a boolean value, got %q", raw))
		} else {
			cfg.CaptureEnabled = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_MAX_DECODE_ERROR_BURST")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_MAX_DECODE_ERROR_BURST must be a positive integer, got %q", raw))
		} else {
			cfg.MaxDecodeErrorBurst = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_MAX_DECODE_ERROR_WINDOW")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_MAX_DECODE_ERROR_WINDOW must be a positive duration, got %q", raw))
		} else {
			cfg.MaxDecodeErrorWindow = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_INPUT_MIN_INTERVAL")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration < 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_INPUT_MIN_INTERVAL must be a non-negative duration, got %q", raw))
		} else {
			cfg.InputMinInterval = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ORBIT_INPUT_MAX_AGE")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration < 0 {
			problems = append(problems, fmt.Sprintf("ORBIT_INPUT_MAX_AGE must be a non-negative duration, got %q", raw))
		} else {
			cfg.InputMaxAge = duration
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func isHex8(raw string) bool {
	if len(raw) != 8 {
		return false
	}
	_, err := strconv.ParseUint(raw, 16, 32)
	return err == nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
