package level

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCatalog(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, c, 20*time.Millisecond) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	hasLevel := func(id int) func() bool {
		return func() bool { return slices.Contains(c.IDs(), id) }
	}

	// The watcher may not be registered yet; keep rewriting until it notices.
	require.Eventually(t, func() bool {
		writeLevel(t, dir, "extra.yaml", "id: 12\nvertices:\n  - {id: 0, x: 0, y: 0}\n")
		return hasLevel(12)()
	}, 5*time.Second, 50*time.Millisecond)

	// A broken file keeps the previous contents.
	writeLevel(t, dir, "extra.yaml", "id: [12")
	time.Sleep(100 * time.Millisecond)
	assert.True(t, hasLevel(12)())

	require.NoError(t, os.Remove(filepath.Join(dir, "extra.yaml")))
	require.Eventually(t, func() bool { return !hasLevel(12)() }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []int{0, 1}, c.IDs())
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), NewCatalog(), DefaultDebounce)
	assert.Error(t, err)
}
