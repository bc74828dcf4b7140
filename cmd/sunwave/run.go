package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/sunwave/engine"
	"github.com/Carmen-Shannon/sunwave/engine/config"
	"github.com/Carmen-Shannon/sunwave/engine/profiler"
	"github.com/Carmen-Shannon/sunwave/engine/renderer"
	"github.com/Carmen-Shannon/sunwave/engine/renderer/shader"
	"github.com/Carmen-Shannon/sunwave/engine/scene"
	"github.com/Carmen-Shannon/sunwave/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// applyRunFlags overrides configuration values with the flags given on the command line.
func applyRunFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet("width") {
		cfg.Window.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Window.Height = ctx.Int("height")
	}
	if ctx.IsSet("vsync") {
		cfg.Renderer.VSync = ctx.BoolT("vsync")
	}
	if ctx.IsSet("software") {
		cfg.Renderer.Software = ctx.Bool("software")
	}
	if ctx.IsSet("shader-dir") {
		cfg.Shaders.Dir = ctx.String("shader-dir")
	}
	if ctx.IsSet("metrics-addr") {
		cfg.Metrics.Addr = ctx.String("metrics-addr")
	}
	if ctx.IsSet("profile") {
		cfg.Metrics.Profile = ctx.Bool("profile")
	}
}

func runScene(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	applyRunFlags(ctx, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	vertexSource, fragmentSource, shaderPaths, err := shaderSources(cfg.Shaders)
	if err != nil {
		return err
	}

	w, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
	)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	presentMode := renderer.PresentModeVSync
	if !cfg.Renderer.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	cc := cfg.Renderer.ClearColor
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, w,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
		renderer.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	e := engine.NewEngine(w, r,
		engine.WithLogger(log),
		engine.WithProfiling(cfg.Metrics.Profile),
		engine.WithProfiler(profiler.NewProfiler(
			profiler.WithLogger(log),
			profiler.WithUpdateInterval(cfg.Metrics.Interval),
		)),
	)

	rl := &reloader{
		engine:    e,
		logger:    log,
		shaders:   cfg.Shaders,
		timeScale: cfg.Scene.TimeScale,
	}
	if err := rl.swap(vertexSource, fragmentSource); err != nil {
		return err
	}
	defer rl.release()

	bg, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := e.Profiler().Serve(bg, cfg.Metrics.Addr); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	if len(shaderPaths) > 0 {
		watcher, err := shader.NewWatcher(log, shaderPaths, cfg.Shaders.Debounce, func() {
			e.Post(rl.reload)
		})
		if err != nil {
			return err
		}
		if err := watcher.Start(bg); err != nil {
			return err
		}
		defer func() { _ = watcher.Stop() }()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case <-signals:
			log.Info("interrupted")
			e.Quit()
		case <-bg.Done():
		}
	}()

	log.Info("running",
		zap.Int("width", w.Width()),
		zap.Int("height", w.Height()),
		zap.Bool("vsync", cfg.Renderer.VSync),
		zap.Bool("hot_reload", len(shaderPaths) > 0))
	e.Run()
	return nil
}

// reloader owns the running scene and replaces it when the shader files change.
// Every method runs on the engine's main loop.
type reloader struct {
	engine    engine.Engine
	logger    *zap.Logger
	shaders   config.ShaderConfig
	timeScale float64

	generation int
	current    scene.SunScene
}

// swap builds a scene from the given sources under a fresh pipeline key and hands it to the
// frame driver. The previous scene is released only once its replacement is installed.
func (rl *reloader) swap(vertexSource, fragmentSource string) error {
	key := scene.DefaultPipelineKey
	if rl.generation > 0 {
		key = fmt.Sprintf("%s-%d", scene.DefaultPipelineKey, rl.generation)
	}

	p, err := scene.BuildSunPipeline(key, vertexSource, fragmentSource)
	if err != nil {
		return err
	}
	next, err := scene.NewSunScene(rl.engine.Renderer(), rl.engine.State(),
		scene.WithPipeline(p),
		scene.WithTimeScale(rl.timeScale),
		scene.WithLogger(rl.logger),
		scene.WithFrameHook(rl.engine.FrameHook()),
	)
	if err != nil {
		return err
	}

	rl.generation++
	rl.engine.Start(next)
	if rl.current != nil {
		rl.current.Release()
	}
	rl.current = next
	return nil
}

func (rl *reloader) reload() {
	vertexSource, fragmentSource, _, err := shaderSources(rl.shaders)
	if err == nil {
		err = rl.swap(vertexSource, fragmentSource)
	}
	rl.engine.Profiler().RecordReload(err == nil)
	if err != nil {
		rl.logger.Named("reload").Warn("shader reload failed, keeping the running scene", zap.Error(err))
		return
	}
	rl.logger.Named("reload").Info("shaders reloaded", zap.String("pipeline", rl.current.PipelineKey()))
}

func (rl *reloader) release() {
	rl.engine.State().Slot().Clear()
	if rl.current != nil {
		rl.current.Release()
		rl.current = nil
	}
}
