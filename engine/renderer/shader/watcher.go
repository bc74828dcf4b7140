package shader

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// defaultDebounce coalesces the burst of events an editor emits for a single save.
const defaultDebounce = 150 * time.Millisecond

// Watcher watches WGSL source files and invokes a callback once per burst of changes.
type Watcher struct {
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	files    []string
	debounce time.Duration
	onChange func()
}

// NewWatcher creates a Watcher for the given WGSL files. The parent directories are watched
// rather than the files themselves so atomic-rename saves keep being observed.
//
// Parameters:
//   - logger: the logger for change and error reporting
//   - files: the WGSL file paths to watch
//   - debounce: quiet period after the last event before onChange runs, 0 for the default
//   - onChange: invoked on the watcher goroutine after each debounced burst
//
// Returns:
//   - *Watcher: the watcher, not yet started
//   - error: an error if the underlying fsnotify watcher could not be created
func NewWatcher(logger *zap.Logger, files []string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	abs := make([]string, 0, len(files))
	for _, f := range files {
		p, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve %q: %w", f, err)
		}
		abs = append(abs, filepath.Clean(p))
	}

	return &Watcher{
		logger:   logger.Named("shader_watcher"),
		watcher:  fw,
		files:    abs,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Start adds the watched directories and begins dispatching events until ctx is done.
//
// Parameters:
//   - ctx: cancelling the context stops the event loop
//
// Returns:
//   - error: an error if a directory could not be watched
func (w *Watcher) Start(ctx context.Context) error {
	dirs := make([]string, 0, len(w.files))
	for _, f := range w.files {
		dir := filepath.Dir(f)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}
	w.logger.Info("watching shader sources", zap.Strings("files", w.files))

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C

	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if w.shouldProcessEvent(event) {
					w.logger.Debug("shader source changed",
						zap.String("file", event.Name),
						zap.String("op", event.Op.String()))
					debounceTimer.Reset(w.debounce)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error("watcher error", zap.Error(err))
			case <-debounceTimer.C:
				w.onChange()
			case <-ctx.Done():
				w.logger.Debug("stopping shader watcher")
				return
			}
		}
	}()
	return nil
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// shouldProcessEvent reports whether the event touches one of the watched WGSL files.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !strings.HasSuffix(event.Name, ".wgsl") {
		return false
	}
	p, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return slices.Contains(w.files, filepath.Clean(p))
}
