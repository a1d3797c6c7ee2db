package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Renderer.Backend != def.Renderer.Backend || cfg.Renderer.RingDepth != def.Renderer.RingDepth {
		t.Errorf("missing file did not yield defaults: %+v", cfg.Renderer)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.toml")
	body := `
log_level = "debug"

[renderer]
backend = "headless"
ring_depth = 2

[camera]
fov_degrees = 90.0
near_clip = 1.0
far_clip = 1000.0
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Renderer.RingDepth != 2 {
		t.Errorf("RingDepth = %d, want 2", cfg.Renderer.RingDepth)
	}
	if cfg.Camera.FOVDegrees != 90.0 {
		t.Errorf("FOVDegrees = %f, want 90", cfg.Camera.FOVDegrees)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Window.Width != 1280 {
		t.Errorf("Width = %d, want default 1280", cfg.Window.Width)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Renderer.Backend = "metal" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"zero ring depth", func(c *Config) { c.Renderer.RingDepth = 0 }},
		{"far before near", func(c *Config) { c.Camera.FarClip = 0.5 }},
		{"zero window", func(c *Config) { c.Window.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}
