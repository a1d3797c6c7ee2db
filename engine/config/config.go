package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/emberengine/ember/engine/core"
)

// Backend names accepted in the renderer section.
const (
	BackendHeadless = "headless"
	BackendVulkan   = "vulkan"
)

// Config is the application configuration, loaded from a TOML file.
type Config struct {
	LogLevel string         `toml:"log_level"`
	Renderer RendererConfig `toml:"renderer"`
	Window   WindowConfig   `toml:"window"`
	Camera   CameraConfig   `toml:"camera"`
	Assets   AssetsConfig   `toml:"assets"`
}

type RendererConfig struct {
	Backend string `toml:"backend"`
	// RingDepth is the number of frames the CPU may record before it has
	// to wait for the GPU. Higher values smooth stalls at the cost of
	// input latency and per-frame memory.
	RingDepth  uint32 `toml:"ring_depth"`
	FrameCapHz uint32 `toml:"frame_cap_hz"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type CameraConfig struct {
	FOVDegrees float32 `toml:"fov_degrees"`
	NearClip   float32 `toml:"near_clip"`
	FarClip    float32 `toml:"far_clip"`
}

type AssetsConfig struct {
	ShaderDir    string `toml:"shader_dir"`
	WatchShaders bool   `toml:"watch_shaders"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Renderer: RendererConfig{
			Backend:    BackendHeadless,
			RingDepth:  3,
			FrameCapHz: 60,
		},
		Window: WindowConfig{
			Title:  "Ember",
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			FOVDegrees: 45.0,
			NearClip:   1.0,
			FarClip:    1000.0,
		},
		Assets: AssetsConfig{
			ShaderDir: "assets/shaders",
		},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file
// is not an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Renderer.Backend {
	case BackendHeadless, BackendVulkan:
	default:
		return fmt.Errorf("config: unknown renderer backend %q", c.Renderer.Backend)
	}
	if c.Renderer.RingDepth == 0 {
		return fmt.Errorf("config: ring_depth must be at least 1")
	}
	if c.Camera.NearClip <= 0 || c.Camera.FarClip <= c.Camera.NearClip {
		return fmt.Errorf("config: invalid clip planes near=%f far=%f", c.Camera.NearClip, c.Camera.FarClip)
	}
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
