package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Accelerator binds a key combination to a named command.
type Accelerator struct {
	Keys    string `yaml:"keys"`
	Command string `yaml:"command"`
}

// LogConfig controls application logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SocketConfig controls the control socket.
type SocketConfig struct {
	Enabled bool `yaml:"enabled"`
}

// WatchdogConfig controls the UI-thread liveness probe.
type WatchdogConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
	StallSeconds    int  `yaml:"stall_seconds"`
}

// WindowConfig sets the demo window's initial state.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Config is the effective application configuration.
type Config struct {
	Log          LogConfig      `yaml:"log"`
	Socket       SocketConfig   `yaml:"socket"`
	Watchdog     WatchdogConfig `yaml:"watchdog"`
	Window       WindowConfig   `yaml:"window"`
	Accelerators []Accelerator  `yaml:"accelerators"`
}

// Validate checks the parts a typo would otherwise surface at runtime.
func (c *Config) Validate() error {
	for i, a := range c.Accelerators {
		if strings.TrimSpace(a.Keys) == "" {
			return fmt.Errorf("accelerators[%d]: keys must not be empty", i)
		}
		if strings.TrimSpace(a.Command) == "" {
			return fmt.Errorf("accelerators[%d] (%s): command must not be empty", i, a.Keys)
		}
	}
	if c.Watchdog.IntervalSeconds < 0 || c.Watchdog.StallSeconds < 0 {
		return fmt.Errorf("watchdog intervals must not be negative")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// LogLevel maps the configured level name to a slog level, defaulting
// to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
