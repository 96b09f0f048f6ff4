package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symbiote.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
tick_rate = "16ms"
max_ticks = 100

[snapshot]
store = "postgres"
interval_ticks = 10

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.TickRate != 16*time.Millisecond || cfg.Engine.MaxTicks != 100 {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Snapshot.Store != "postgres" || cfg.Snapshot.IntervalTicks != 10 {
		t.Errorf("snapshot = %+v", cfg.Snapshot)
	}
	// untouched keys keep their defaults
	if cfg.Snapshot.Name != "world" || cfg.Scene.Path != "data/scene.yaml" || !cfg.Renderer.Enabled {
		t.Errorf("defaults lost: %+v %+v %+v", cfg.Snapshot, cfg.Scene, cfg.Renderer)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[engine\n"},
		{"zero tick rate", "[engine]\ntick_rate = \"0s\"\n"},
		{"unknown store", "[snapshot]\nstore = \"s3\"\n"},
		{"missing name", "[snapshot]\nname = \"\"\n"},
		{"negative interval", "[snapshot]\ninterval_ticks = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Fatal(err)
	}
}
