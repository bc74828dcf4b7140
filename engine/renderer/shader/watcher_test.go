package shader

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sun.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("// v1"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(nil, []string{path}, 50*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx))

	for i := range 3 {
		require.NoError(t, os.WriteFile(path, []byte{'/', '/', byte('a' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst of writes reloads once")
}

func TestWatcherShouldProcessEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sun.wgsl")
	w, err := NewWatcher(nil, []string{path}, 0, func() {})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	assert.Equal(t, defaultDebounce, w.debounce)
	assert.True(t, w.shouldProcessEvent(fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.True(t, w.shouldProcessEvent(fsnotify.Event{Name: path, Op: fsnotify.Create}))
	assert.False(t, w.shouldProcessEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
	assert.False(t, w.shouldProcessEvent(fsnotify.Event{Name: filepath.Join(dir, "other.wgsl"), Op: fsnotify.Write}))
	assert.False(t, w.shouldProcessEvent(fsnotify.Event{Name: filepath.Join(dir, "sun.wgsl.swp"), Op: fsnotify.Write}))
}
