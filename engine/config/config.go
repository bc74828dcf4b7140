package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Carmen-Shannon/sunwave/engine/logger"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the sunwave configuration file. Every field has a default, so an empty file is valid.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Scene    SceneConfig    `yaml:"scene"`
	Shaders  ShaderConfig   `yaml:"shaders"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// WindowConfig describes the native window.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

// RendererConfig configures the GPU renderer.
type RendererConfig struct {
	VSync      bool       `yaml:"vsync"`
	MSAA       int        `yaml:"msaa"`
	Software   bool       `yaml:"software"`
	ClearColor [4]float64 `yaml:"clear_color"`
}

// SceneConfig configures the sun scene.
type SceneConfig struct {
	// TimeScale multiplies the frame timestamp in milliseconds to give the time uniform.
	TimeScale float64 `yaml:"time_scale"`
}

// ShaderConfig configures shader loading. An empty Dir uses the bundled shaders and disables hot reload.
type ShaderConfig struct {
	Dir      string        `yaml:"dir"`
	Vertex   string        `yaml:"vertex"`
	Fragment string        `yaml:"fragment"`
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig configures the frame profiler. An empty Addr disables the /metrics endpoint.
type MetricsConfig struct {
	Profile  bool          `yaml:"profile"`
	Addr     string        `yaml:"addr"`
	Interval time.Duration `yaml:"interval"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// SnapshotConfig holds the defaults of the snapshot command.
type SnapshotConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Workers int    `yaml:"workers"`
	Out     string `yaml:"out"`
}

// Default returns the built-in configuration: a 512x512 window, VSync, 4x MSAA, time scale 1/5000.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "sunwave",
			Width:     512,
			Height:    512,
			Resizable: true,
		},
		Renderer: RendererConfig{
			VSync:      true,
			MSAA:       4,
			ClearColor: [4]float64{0, 0, 0, 1},
		},
		Scene: SceneConfig{
			TimeScale: 1.0 / 5000.0,
		},
		Shaders: ShaderConfig{
			Vertex:   "sun_vertex.wgsl",
			Fragment: "sun_fragment.wgsl",
			Debounce: 150 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Interval: time.Second,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Snapshot: SnapshotConfig{
			Width:  512,
			Height: 512,
			Out:    "sunwave.png",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result. Unknown keys are rejected.
//
// Parameters:
//   - path: the file to read; empty returns the validated defaults
//
// Returns:
//   - Config: the merged configuration
//   - error: a read, decode, or validation error
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode unmarshals YAML into cfg, keeping the values of keys the document leaves out.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4:
		return fmt.Errorf("%w: msaa must be 1 or 4, got %d", ErrInvalidConfig, c.Renderer.MSAA)
	case c.Scene.TimeScale <= 0:
		return fmt.Errorf("%w: time_scale must be positive", ErrInvalidConfig)
	case c.Shaders.Debounce < 0:
		return fmt.Errorf("%w: negative shader debounce", ErrInvalidConfig)
	case c.Metrics.Interval <= 0:
		return fmt.Errorf("%w: metrics interval must be positive", ErrInvalidConfig)
	case c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0:
		return fmt.Errorf("%w: snapshot size %dx%d", ErrInvalidConfig, c.Snapshot.Width, c.Snapshot.Height)
	case c.Snapshot.Workers < 0:
		return fmt.Errorf("%w: negative snapshot workers", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Log.Encoding != "console" && c.Log.Encoding != "json" {
		return fmt.Errorf("%w: log encoding %q", ErrInvalidConfig, c.Log.Encoding)
	}
	return nil
}
