package engine

import (
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/sunwave/engine/frame_driver"
	"github.com/Carmen-Shannon/sunwave/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of message loop iterations, firing scripted input before each.
type fakeWindow struct {
	width, height int
	iterations    int
	input         map[int]func(w *fakeWindow)

	onUpdate    func()
	onResize    func(width, height int)
	onMouseMove func(x, y float64)
	closed      bool
}

func (w *fakeWindow) SetUpdateCallback(cb func())                { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(int, int))        { w.onResize = cb }
func (w *fakeWindow) SetMouseMoveCallback(cb func(x, y float64)) { w.onMouseMove = cb }
func (w *fakeWindow) SetKeyDownCallback(func(int))               {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool                            { return !w.closed }
func (w *fakeWindow) RequestClose()                              { w.closed = true }
func (w *fakeWindow) Close() error                               { w.closed = true; return nil }
func (w *fakeWindow) Width() int                                 { return w.width }
func (w *fakeWindow) Height() int                                { return w.height }
func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.iterations && w.IsRunning(); i++ {
		if in := w.input[i]; in != nil {
			in(w)
		}
		w.onUpdate()
	}
}

type resizeRenderer struct {
	renderer.Renderer
	sizes [][2]int
	err   error
}

func (r *resizeRenderer) Resize(w, h int) error {
	r.sizes = append(r.sizes, [2]int{w, h})
	return r.err
}

// steppingClock advances 16ms on every read.
type steppingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *steppingClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(16 * time.Millisecond)
	return c.t
}

func newTestEngine(w *fakeWindow, r renderer.Renderer) *engine {
	clock := &steppingClock{t: time.Unix(0, 0)}
	return NewEngine(w, r, WithClock(clock.now)).(*engine)
}

func TestEngineRunsDriverOncePerIteration(t *testing.T) {
	w := &fakeWindow{width: 512, height: 512, iterations: 5}
	e := newTestEngine(w, &resizeRenderer{})

	var stamps []float64
	e.Start(frame_driver.AdvancerFunc(func(ts float64) { stamps = append(stamps, ts) }))
	e.Run()

	require.Len(t, stamps, 5)
	for i := 1; i < len(stamps); i++ {
		assert.GreaterOrEqual(t, stamps[i], stamps[i-1])
	}
	assert.Equal(t, 16.0, stamps[0])
	assert.Equal(t, uint64(5), e.Driver().Ticks())
}

func TestEngineClearingSlotStopsFrames(t *testing.T) {
	w := &fakeWindow{width: 512, height: 512, iterations: 6}
	e := newTestEngine(w, &resizeRenderer{})

	calls := 0
	e.Start(frame_driver.AdvancerFunc(func(float64) {
		calls++
		if calls == 2 {
			e.State().Slot().Clear()
		}
	}))
	e.Run()

	assert.Equal(t, 2, calls)
	assert.False(t, e.Driver().Running())
}

func TestEngineMouseMoveUpdatesCursor(t *testing.T) {
	w := &fakeWindow{width: 400, height: 200, iterations: 1, input: map[int]func(*fakeWindow){
		0: func(w *fakeWindow) { w.onMouseMove(300, 50) },
	}}
	e := newTestEngine(w, &resizeRenderer{})
	e.Run()

	assert.Equal(t, [2]float32{0.5, 0.5}, e.State().Cursor())
}

func TestEngineResizeReconfiguresRenderer(t *testing.T) {
	r := &resizeRenderer{err: errors.New("lost device")}
	w := &fakeWindow{width: 512, height: 512, iterations: 1, input: map[int]func(*fakeWindow){
		0: func(w *fakeWindow) { w.onResize(1024, 768) },
	}}
	e := newTestEngine(w, r)
	e.Run()

	assert.Equal(t, [][2]int{{1024, 768}}, r.sizes)
}

func TestEnginePostRunsOnLoop(t *testing.T) {
	w := &fakeWindow{width: 512, height: 512, iterations: 3}
	e := newTestEngine(w, &resizeRenderer{})

	var order []string
	e.Start(frame_driver.AdvancerFunc(func(float64) { order = append(order, "frame") }))

	done := make(chan struct{})
	go func() {
		e.Post(func() { order = append(order, "posted") })
		close(done)
	}()
	<-done
	e.Run()

	require.NotEmpty(t, order)
	assert.Equal(t, "posted", order[0], "posted work runs before the frame of the same iteration")
	assert.Len(t, order, 4)
}

func TestEngineQuit(t *testing.T) {
	w := &fakeWindow{width: 512, height: 512, iterations: 100}
	e := newTestEngine(w, &resizeRenderer{})

	frames := 0
	e.Start(frame_driver.AdvancerFunc(func(float64) {
		frames++
		if frames == 3 {
			e.Quit()
		}
	}))
	e.Run()

	assert.Equal(t, 3, frames)
	assert.True(t, w.closed)
	select {
	case <-e.Done():
	default:
		t.Fatal("Done not closed after Quit")
	}

	e.Quit()
	e.Post(func() { t.Fatal("posted after quit") })
}

func TestEngineWindowCloseEndsEngine(t *testing.T) {
	w := &fakeWindow{width: 512, height: 512, iterations: 10, input: map[int]func(*fakeWindow){
		2: func(w *fakeWindow) { w.closed = true },
	}}
	e := newTestEngine(w, &resizeRenderer{})
	e.Run()

	select {
	case <-e.Done():
	default:
		t.Fatal("Done not closed after the window closed")
	}

	// more posts than the queue holds must not block once the loop is gone
	finished := make(chan struct{})
	go func() {
		for i := 0; i < postQueueSize*2; i++ {
			e.Post(func() {})
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Post blocked after the window closed")
	}
}

func TestEngineFrameHookRespectsProfiling(t *testing.T) {
	e := newTestEngine(&fakeWindow{}, &resizeRenderer{})
	hook := e.FrameHook()

	hook(16, true)
	e.EnableProfiler()
	hook(32, true)
	hook(48, false)
	e.DisableProfiler()
	hook(64, true)

	rec := metricsBody(t, e)
	assert.Contains(t, rec, `sunwave_frames_total{result="drawn"} 1`)
	assert.Contains(t, rec, `sunwave_frames_total{result="dropped"} 1`)
}

func TestSetRenderFrameLimit(t *testing.T) {
	e := newTestEngine(&fakeWindow{}, &resizeRenderer{})
	e.SetRenderFrameLimit(50)
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}

func metricsBody(t *testing.T, e *engine) string {
	t.Helper()
	rec := httptest.NewRecorder()
	e.Profiler().Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}
