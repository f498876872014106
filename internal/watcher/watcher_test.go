package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpString(t *testing.T) {
	assert.Equal(t, "NONE", Op(0).String())
	assert.Equal(t, "WRITE", OpWrite.String())
	assert.Equal(t, "CREATE|WRITE", (OpCreate | OpWrite).String())
	assert.True(t, (OpCreate | OpRemove).Has(OpRemove))
}

func TestWatchErrors(t *testing.T) {
	w, err := New()
	require.NoError(t, err)

	assert.ErrorIs(t, w.Watch(filepath.Join(t.TempDir(), "missing.yaml")), ErrPathNotExist)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	path := filepath.Join(t.TempDir(), "a.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	assert.ErrorIs(t, w.Watch(path), ErrWatcherClosed)
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(watched, []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("v1"), 0o644))

	w, err := New(WithDebounce(50 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(watched))
	require.NoError(t, w.Watch(watched), "watching twice is a no-op")
	assert.True(t, w.IsWatching(watched))
	assert.False(t, w.IsWatching(other))
	assert.Len(t, w.Files(), 1)

	require.NoError(t, os.WriteFile(other, []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("v3"), 0o644))

	var got []Event
	timeout := time.After(2 * time.Second)
	settle := time.After(500 * time.Millisecond)
collect:
	for {
		select {
		case ev := <-w.Events():
			got = append(got, ev)
		case <-settle:
			if len(got) > 0 {
				break collect
			}
			settle = time.After(100 * time.Millisecond)
		case <-timeout:
			break collect
		}
	}

	require.Len(t, got, 1, "writes within the window are merged and other files ignored")
	abs, err := filepath.Abs(watched)
	require.NoError(t, err)
	assert.Equal(t, abs, got[0].Path)
	assert.True(t, got[0].Op.Has(OpWrite))
}
