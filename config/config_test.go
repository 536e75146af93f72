package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Screen.Width != 1400 || cfg.Screen.Height != 900 {
		t.Errorf("screen = %dx%d, want 1400x900", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Derived.Tick != time.Second/60 {
		t.Errorf("Derived.Tick = %v, want %v", cfg.Derived.Tick, time.Second/60)
	}
	if math.Abs(cfg.Derived.FireTicks-30) > 1e-9 {
		t.Errorf("Derived.FireTicks = %v, want 30", cfg.Derived.FireTicks)
	}
	if got := len(cfg.Weapons.Wingman.Offsets); got != 4 {
		t.Errorf("wingman offsets = %d, want 4", got)
	}
	if len(cfg.Levels.List) == 0 {
		t.Fatal("no levels in defaults")
	}
	if cfg.Levels.List[0].Duration != 30*time.Second {
		t.Errorf("first level duration = %v, want 30s", cfg.Levels.List[0].Duration)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := []byte("player:\n  health: 250\nlevels:\n  start_pause: 1s\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Player.Health != 250 {
		t.Errorf("player.health = %d, want 250", cfg.Player.Health)
	}
	// Fields not present in the overlay keep their defaults
	if cfg.Player.CollisionDamage != 2 {
		t.Errorf("player.collision_damage = %d, want 2", cfg.Player.CollisionDamage)
	}
	if cfg.Levels.StartPause != time.Second {
		t.Errorf("levels.start_pause = %v, want 1s", cfg.Levels.StartPause)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "screen: [1, 2"},
		{"zero fps", "screen:\n  target_fps: 0\n"},
		{"zero spawn interval", "levels:\n  list:\n    - name: x\n      duration: 1s\n      spawns:\n        - {event: swarm, every: 0s}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load(%q) succeeded, want error", tt.name)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Player.MaxSpeed = 123

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Player.MaxSpeed != 123 {
		t.Errorf("max_speed = %v, want 123", loaded.Player.MaxSpeed)
	}
	if len(loaded.Levels.List) != len(cfg.Levels.List) {
		t.Errorf("levels = %d, want %d", len(loaded.Levels.List), len(cfg.Levels.List))
	}
	if loaded.Levels.List[1].EndPause != cfg.Levels.List[1].EndPause {
		t.Errorf("end_pause = %v, want %v", loaded.Levels.List[1].EndPause, cfg.Levels.List[1].EndPause)
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	clone, err := cfg.Clone()
	if err != nil {
		t.Fatalf("Clone error: %v", err)
	}
	clone.Weapons.Wingman.Offsets[0][0] = 999
	if cfg.Weapons.Wingman.Offsets[0][0] == 999 {
		t.Error("Clone shares wingman offsets with the original")
	}
	if clone.Derived.Tick != cfg.Derived.Tick {
		t.Errorf("clone Derived.Tick = %v, want %v", clone.Derived.Tick, cfg.Derived.Tick)
	}
}
