package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sunwave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 512, cfg.Window.Width)
	assert.Equal(t, 512, cfg.Window.Height)
	assert.True(t, cfg.Renderer.VSync)
	assert.Equal(t, 4, cfg.Renderer.MSAA)
	assert.InDelta(t, 0.0002, cfg.Scene.TimeScale, 1e-12)
	assert.Equal(t, 150*time.Millisecond, cfg.Shaders.Debounce)
	assert.Empty(t, cfg.Shaders.Dir)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, `
window:
  width: 1280
  height: 720
renderer:
  vsync: false
  msaa: 1
scene:
  time_scale: 0.001
shaders:
  dir: ./shaders
  debounce: 300ms
metrics:
  profile: true
  addr: ":9090"
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "sunwave", cfg.Window.Title, "untouched keys keep their defaults")
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, 1, cfg.Renderer.MSAA)
	assert.Equal(t, 0.001, cfg.Scene.TimeScale)
	assert.Equal(t, "./shaders", cfg.Shaders.Dir)
	assert.Equal(t, "sun_fragment.wgsl", cfg.Shaders.Fragment)
	assert.Equal(t, 300*time.Millisecond, cfg.Shaders.Debounce)
	assert.True(t, cfg.Metrics.Profile)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"unknown key", "window:\n  depth: 3\n", false},
		{"bad yaml", "window: [", false},
		{"zero width", "window:\n  width: 0\n", true},
		{"msaa 2", "renderer:\n  msaa: 2\n", true},
		{"negative time scale", "scene:\n  time_scale: -1\n", true},
		{"unknown level", "log:\n  level: loud\n", true},
		{"unknown encoding", "log:\n  encoding: xml\n", true},
		{"zero snapshot", "snapshot:\n  height: 0\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
