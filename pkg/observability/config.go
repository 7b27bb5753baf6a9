package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// AppMode identifies how rbset is running.
type AppMode string

const (
	// ModeCLI is a one-shot command line invocation.
	ModeCLI AppMode = "cli"
	// ModeDemo is the built-in demonstration run.
	ModeDemo AppMode = "demo"
)

// ErrUnknownLevel is returned by ParseLevel for names it does not recognize.
var ErrUnknownLevel = errors.New("unknown log level")

// Config holds the logger settings.
type Config struct {
	// ServiceName is attached to every record as "service".
	ServiceName string

	// Mode is attached to every record as "mode".
	Mode AppMode

	// LogLevel is the minimum level emitted.
	LogLevel slog.Level

	// LogJSON switches from the text handler to the JSON one.
	LogJSON bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName: "rbset",
		Mode:        ModeCLI,
		LogLevel:    slog.LevelInfo,
	}
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}
