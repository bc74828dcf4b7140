package profiler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "sunwave"

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Stats are logged at a configurable interval and exported as Prometheus metrics on the
// profiler's own registry.
type Profiler struct {
	logger         *zap.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	registry      *prometheus.Registry
	frames        *prometheus.CounterVec
	frameInterval prometheus.Histogram
	fps           prometheus.Gauge
	heapBytes     prometheus.Gauge
	allocRate     prometheus.Gauge
	gcPauseMax    prometheus.Gauge
	reloads       *prometheus.CounterVec
}

// ProfilerBuilderOption is a functional option applied to a Profiler in NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger the periodic stats line is written to.
func WithLogger(logger *zap.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger.Named("profiler")
		}
	}
}

// WithUpdateInterval sets how often stats are logged and the gauges refreshed.
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options applied to the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:         zap.NewNop(),
		now:            time.Now,
		updateInterval: time.Second,
		registry:       prometheus.NewRegistry(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()

	p.frames = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_total",
		Help:      "Frames advanced, by whether they reached the screen.",
	}, []string{"result"})
	p.frameInterval = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "frame_interval_seconds",
		Help:      "Wall time between consecutive frames.",
		Buckets:   []float64{0.004, 0.008, 0.0167, 0.025, 0.0334, 0.05, 0.1, 0.25},
	})
	p.fps = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fps",
		Help:      "Frames per second over the last update interval.",
	})
	p.heapBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "heap_alloc_bytes",
		Help:      "Bytes of live heap objects.",
	})
	p.allocRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "alloc_rate_bytes_per_second",
		Help:      "Heap allocation rate over the last update interval.",
	})
	p.gcPauseMax = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gc_pause_max_seconds",
		Help:      "Longest GC pause over the last update interval.",
	})
	p.reloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shader_reloads_total",
		Help:      "Shader hot reloads, by outcome.",
	}, []string{"result"})

	p.registry.MustRegister(p.frames, p.frameInterval, p.fps, p.heapBytes, p.allocRate, p.gcPauseMax, p.reloads)
	return p
}

// Registry returns the registry holding the profiler's metrics.
func (p *Profiler) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns an HTTP handler exposing the profiler's registry in the Prometheus text format.
func (p *Profiler) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
//
// Parameters:
//   - ctx: cancelling it shuts the server down
//   - addr: the listen address, e.g. ":9090"
//
// Returns:
//   - error: the listen error, nil after a clean shutdown
func (p *Profiler) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	p.logger.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RecordReload counts a shader hot reload.
func (p *Profiler) RecordReload(ok bool) {
	if ok {
		p.reloads.WithLabelValues("ok").Inc()
		return
	}
	p.reloads.WithLabelValues("error").Inc()
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - drawn: whether the frame reached the screen
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(drawn bool) bool {
	currentTime := p.now()
	if drawn {
		p.frames.WithLabelValues("drawn").Inc()
	} else {
		p.frames.WithLabelValues("dropped").Inc()
	}
	if !p.lastFrame.IsZero() {
		p.frameInterval.Observe(currentTime.Sub(p.lastFrame).Seconds())
	}
	p.lastFrame = currentTime

	p.frameCount++
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRate := float64(allocDelta) / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	var lastPause, maxPause uint64
	if gcCount > 0 {
		lastPause = p.memStats.PauseNs[(gcCount-1)%256]
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPause = max(maxPause, p.memStats.PauseNs[i%256])
		}
	}

	p.fps.Set(fps)
	p.heapBytes.Set(float64(p.memStats.Alloc))
	p.allocRate.Set(allocRate)
	p.gcPauseMax.Set(time.Duration(maxPause).Seconds())

	p.logger.Info("frame stats",
		zap.Float64("fps", fps),
		zap.Float64("heap_mb", float64(p.memStats.Alloc)/1024/1024),
		zap.Float64("alloc_rate_mb_s", allocRate/1024/1024),
		zap.Uint32("gc", gcCount),
		zap.Duration("gc_last", time.Duration(lastPause)),
		zap.Duration("gc_max", time.Duration(maxPause)),
		zap.Float64("sys_mb", float64(p.memStats.Sys)/1024/1024))

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
