package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/sunwave/engine/config"
	"github.com/Carmen-Shannon/sunwave/engine/logger"
	"github.com/Carmen-Shannon/sunwave/engine/scene"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// setup loads the configuration named by --config and builds the logger, honouring -v and -vv.
func setup(ctx *cli.Context) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return cfg, nil, err
	}

	log, err := logger.New(logger.Config{
		Level:    logger.VerbosityLevel(cfg.Log.Level, ctx.GlobalBool("v"), ctx.GlobalBool("vv")),
		Encoding: cfg.Log.Encoding,
	})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// shaderSources returns the vertex and fragment WGSL. With an empty dir the bundled shaders
// are returned and paths is nil.
func shaderSources(cfg config.ShaderConfig) (vertex, fragment string, paths []string, err error) {
	if cfg.Dir == "" {
		return scene.SunVertexSource, scene.SunFragmentSource, nil, nil
	}

	paths = []string{
		filepath.Join(cfg.Dir, cfg.Vertex),
		filepath.Join(cfg.Dir, cfg.Fragment),
	}
	vs, err := os.ReadFile(paths[0])
	if err != nil {
		return "", "", nil, fmt.Errorf("read vertex shader: %w", err)
	}
	fs, err := os.ReadFile(paths[1])
	if err != nil {
		return "", "", nil, fmt.Errorf("read fragment shader: %w", err)
	}
	return string(vs), string(fs), paths, nil
}
