package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/sunwave/engine/frame_driver"
	"github.com/Carmen-Shannon/sunwave/engine/profiler"
	"github.com/Carmen-Shannon/sunwave/engine/renderer"
	"github.com/Carmen-Shannon/sunwave/engine/scene"
	"github.com/Carmen-Shannon/sunwave/engine/window"
	"go.uber.org/zap"
)

// postQueueSize bounds work posted from other goroutines between two loop iterations.
const postQueueSize = 64

// engine is the implementation of the Engine interface.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	state    scene.State
	queue    frame_driver.FrameQueue
	driver   frame_driver.Driver
	logger   *zap.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	posts       chan func()
	quitChannel chan struct{}
	quitOnce    sync.Once

	now       func() time.Time
	startTime time.Time
	lastStamp float64

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
}

// Engine owns the single cooperative main loop: each window message loop iteration polls input,
// runs work posted from other goroutines, then flushes the frame queue the Driver schedules on.
// Everything except Post and Quit must be called from the goroutine that runs Run.
type Engine interface {
	// Window returns the window driving the message loop.
	Window() window.Window

	// Renderer returns the renderer bound to the window's surface.
	Renderer() renderer.Renderer

	// State returns the cursor and active slot shared with the running scene.
	State() scene.State

	// Driver returns the frame driver reading State().Slot().
	Driver() frame_driver.Driver

	// Profiler returns the frame profiler. Ticks are only recorded while profiling is enabled.
	Profiler() *profiler.Profiler

	// EnableProfiler enables frame statistics logging and metrics.
	EnableProfiler()

	// DisableProfiler disables frame statistics logging and metrics.
	DisableProfiler()

	// FrameHook returns the function a scene calls after each frame, see scene.WithFrameHook.
	FrameHook() func(timestamp float64, drawn bool)

	// SetRenderFrameLimit sets an optional render frame rate cap.
	//
	// Parameters:
	//   - fps: maximum frames per second, 0 to uncap
	SetRenderFrameLimit(fps float64)

	// Start installs a as the per-frame function, starting the frame chain if it is not alive.
	Start(a frame_driver.Advancer)

	// Post queues fn to run on the main loop before the next frame. Safe for concurrent use.
	// Blocks while the queue is full.
	Post(fn func())

	// Run installs the window callbacks and runs the message loop until the window closes or Quit is called.
	Run()

	// Quit stops the message loop after the current iteration. Safe for concurrent use.
	Quit()

	// Done is closed once Quit has been called or Run has returned.
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates an Engine for an already spawned window and its renderer.
//
// Parameters:
//   - w: the window whose message loop drives the frames
//   - r: the renderer bound to w's surface
//   - options: functional options applied to the engine
//
// Returns:
//   - Engine: the engine, not yet running
func NewEngine(w window.Window, r renderer.Renderer, options ...EngineBuilderOption) Engine {
	e := &engine{
		window:      w,
		renderer:    r,
		logger:      zap.NewNop(),
		posts:       make(chan func(), postQueueSize),
		quitChannel: make(chan struct{}),
		now:         time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.state == nil {
		e.state = scene.NewState()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	e.queue = frame_driver.NewFrameQueue()
	e.driver = frame_driver.NewDriver(e.state.Slot(), e.queue, frame_driver.WithLogger(e.logger))
	e.startTime = e.now()
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) State() scene.State {
	return e.state
}

func (e *engine) Driver() frame_driver.Driver {
	return e.driver
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) FrameHook() func(timestamp float64, drawn bool) {
	return func(_ float64, drawn bool) {
		if e.profilingEnabled {
			e.profiler.Tick(drawn)
		}
	}
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Start(a frame_driver.Advancer) {
	e.driver.Start(a)
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-e.quitChannel:
		return
	default:
	}
	select {
	case e.posts <- fn:
	case <-e.quitChannel:
	}
}

func (e *engine) Run() {
	e.window.SetMouseMoveCallback(func(x, y float64) {
		e.state.MoveCursor(x, y, e.window.Width(), e.window.Height())
	})
	e.window.SetResizeCallback(func(width, height int) {
		if err := e.renderer.Resize(width, height); err != nil {
			e.logger.Error("resize failed", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		}
	})
	e.window.SetUpdateCallback(e.update)

	// a window closed by the user ends the engine as if Quit had been called
	defer e.Quit()

	e.logger.Debug("message loop started")
	e.window.ProcessMessages()
	e.logger.Debug("message loop stopped", zap.Uint64("ticks", e.driver.Ticks()))
}

// update runs once per message loop iteration.
func (e *engine) update() {
	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}

	e.drainPosts()
	e.queue.Flush(e.timestamp())

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(e.lastFrame); remaining > 0 {
			time.Sleep(remaining)
		}
		e.lastFrame = e.now()
	}
}

func (e *engine) drainPosts() {
	for {
		select {
		case fn := <-e.posts:
			fn()
		default:
			return
		}
	}
}

// timestamp returns milliseconds since the engine was created, never less than the previous value.
func (e *engine) timestamp() float64 {
	ms := float64(e.now().Sub(e.startTime)) / float64(time.Millisecond)
	e.lastStamp = max(e.lastStamp, ms)
	return e.lastStamp
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}
