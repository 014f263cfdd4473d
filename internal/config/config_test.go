package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Accelerators) == 0 {
		t.Fatal("expected builtin accelerators")
	}
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Window.Width != Default().Window.Width {
		t.Fatalf("expected default window width, got %d", cfg.Window.Width)
	}
}

func TestLoadFile_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := strings.Join([]string{
		"log:",
		"  level: debug",
		"window:",
		"  title: custom",
		"  width: 800",
		"  height: 600",
		"accelerators:",
		"  - keys: Mod4-x",
		"    command: quit",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Window.Title != "custom" || cfg.Window.Width != 800 {
		t.Fatalf("expected file values, got %+v", cfg.Window)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel())
	}
	if len(cfg.Accelerators) != 1 || cfg.Accelerators[0].Keys != "Mod4-x" {
		t.Fatalf("expected the file's accelerator list to replace the default, got %+v", cfg.Accelerators)
	}
	// Sections the file does not mention keep their defaults.
	if !cfg.Socket.Enabled {
		t.Fatal("expected socket to stay enabled")
	}
}

func TestLoadFile_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "accelerators:\n  - keys: Control-q\n    command: \"\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected an error for an accelerator without a command")
	}
}
