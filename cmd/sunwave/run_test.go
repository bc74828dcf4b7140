package main

import (
	"flag"
	"testing"

	"github.com/Carmen-Shannon/sunwave/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func runFlagContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("run", flag.ContinueOnError)
	set.Int("width", 0, "")
	set.Int("height", 0, "")
	set.Bool("vsync", true, "")
	set.Bool("software", false, "")
	set.String("shader-dir", "", "")
	set.String("metrics-addr", "", "")
	set.Bool("profile", false, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestApplyRunFlagsKeepsConfigWhenUnset(t *testing.T) {
	cfg := config.Default()
	applyRunFlags(runFlagContext(t), &cfg)

	assert.Equal(t, config.Default(), cfg)
}

func TestApplyRunFlagsOverrides(t *testing.T) {
	cfg := config.Default()
	applyRunFlags(runFlagContext(t,
		"-width", "1280",
		"-vsync=false",
		"-shader-dir", "shaders",
		"-metrics-addr", ":9100",
		"-profile",
	), &cfg)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, config.Default().Window.Height, cfg.Window.Height)
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, "shaders", cfg.Shaders.Dir)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.True(t, cfg.Metrics.Profile)
}
