package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/configurator/internal/testutil"
)

const testDebounce = 50 * time.Millisecond

func startWatcher(t *testing.T, path string) (<-chan struct{}, *atomic.Int32) {
	t.Helper()
	w, err := New(path, testDebounce, testutil.DiscardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	changes := make(chan struct{}, 16)
	var count atomic.Int32
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(context.Context) {
			count.Add(1)
			changes <- struct{}{}
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return changes, &count
}

func waitChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_BurstTriggersOneCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channels: []\n"), 0o644))

	changes, count := startWatcher(t, path)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("channels: []\n# edit\n"), 0o644))
	}
	waitChange(t, changes)

	time.Sleep(4 * testDebounce)
	assert.Equal(t, int32(1), count.Load())
}

func TestWatcher_AtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channels: []\n"), 0o644))

	changes, _ := startWatcher(t, path)

	tmp := filepath.Join(dir, ".catalog.yaml.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("channels: []\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	waitChange(t, changes)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channels: []\n"), 0o644))

	_, count := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	time.Sleep(4 * testDebounce)
	assert.Equal(t, int32(0), count.Load())
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "catalog.yaml"), 0, nil)
	assert.Error(t, err)
}

func TestNew_DefaultDebounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	w, err := New(path, 0, nil)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.True(t, filepath.IsAbs(w.Path()))
}
