package shading

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/sunwave/common"
	"github.com/gogpu/gg"
	"go.uber.org/zap"
)

// ErrInvalidSize is returned by Render for a non-positive image size.
var ErrInvalidSize = errors.New("shading: image size must be positive")

type renderConfig struct {
	workers int
	logger  *zap.Logger
}

// RenderOption configures Render.
type RenderOption func(*renderConfig)

// WithWorkers sets the number of row workers. Defaults to runtime.NumCPU().
func WithWorkers(n int) RenderOption {
	return func(c *renderConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger used to report render timing.
func WithLogger(logger *zap.Logger) RenderOption {
	return func(c *renderConfig) {
		if logger != nil {
			c.logger = logger.Named("shading")
		}
	}
}

// Render shades every pixel of a width x height image on the CPU. Rows are shaded in parallel on
// a worker pool and then copied into a gg context, so the result matches one GPU frame at p.Time.
//
// Parameters:
//   - p: the frame parameters
//   - width, height: the image size in pixels
//   - options: render options
//
// Returns:
//   - *gg.Context: the canvas holding the shaded image
//   - error: ErrInvalidSize
func Render(p Params, width, height int, options ...RenderOption) (*gg.Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	cfg := renderConfig{workers: runtime.NumCPU(), logger: zap.NewNop()}
	for _, opt := range options {
		opt(&cfg)
	}

	start := time.Now()
	pixels := make([]gg.RGBA, width*height)

	pool := worker.NewDynamicWorkerPool(cfg.workers, height, time.Second)
	defer pool.Stop()

	// the pool's Wait blocks until workers idle out, so rows are joined on a WaitGroup instead
	var wg sync.WaitGroup
	for y := range height {
		wg.Add(1)
		row := pixels[y*width : (y+1)*width]
		py := float64(y) + 0.5
		pool.SubmitTask(worker.Task{
			ID: y,
			Do: func() (any, error) {
				defer wg.Done()
				for x := range row {
					c := Shade(float64(x)+0.5, py, width, height, p)
					row[x] = gg.RGBA{
						R: common.Clamp(c[0], 0, 1),
						G: common.Clamp(c[1], 0, 1),
						B: common.Clamp(c[2], 0, 1),
						A: 1,
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	dc := gg.NewContext(width, height)
	for y := range height {
		for x := range width {
			dc.SetPixel(x, y, pixels[y*width+x])
		}
	}

	cfg.logger.Debug("frame shaded",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("workers", cfg.workers),
		zap.Duration("took", time.Since(start)))
	return dc, nil
}

// Snapshot renders one frame and writes it to path as a PNG.
//
// Parameters:
//   - path: the output file
//   - p: the frame parameters
//   - width, height: the image size in pixels
//   - options: render options
//
// Returns:
//   - error: ErrInvalidSize or the file error
func Snapshot(path string, p Params, width, height int, options ...RenderOption) error {
	dc, err := Render(p, width, height, options...)
	if err != nil {
		return err
	}
	defer dc.Close()

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("shading: save %s: %w", path, err)
	}
	return nil
}
