package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/bus"
	"github.com/studiowebux/spotui/internal/logging"
)

func receive(t *testing.T, b *bus.Bus, timeout time.Duration) (action.Action, bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if a, ok := b.TryReceive(); ok {
			return a, true
		}
		select {
		case <-b.Ready():
		case <-deadline:
			return action.Action{}, false
		}
	}
}

func TestRefreshOnCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(50*time.Millisecond, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))
	assert.Equal(t, dir, w.Dir())

	ctx, cancel := context.WithCancel(context.Background())
	b := bus.New()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, b) }()

	// a burst is reported once
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}

	a, ok := receive(t, b, 3*time.Second)
	require.True(t, ok, "no refresh received")
	assert.True(t, a.Equal(action.Refresh()))

	_, ok = receive(t, b, 200*time.Millisecond)
	assert.False(t, ok, "burst produced more than one refresh")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchSwitchesDirectory(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	w, err := New(20*time.Millisecond, logging.Discard())
	require.NoError(t, err)

	require.NoError(t, w.Watch(first))
	require.NoError(t, w.Watch(second))
	assert.Equal(t, second, w.Dir())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := bus.New()
	go w.Run(ctx, b)

	require.NoError(t, os.WriteFile(filepath.Join(first, "ignored.zip"), nil, 0o644))
	_, ok := receive(t, b, 300*time.Millisecond)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(second, "seen.zip"), nil, 0o644))
	_, ok = receive(t, b, 3*time.Second)
	assert.True(t, ok)
}

func TestWatchRejectsFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	w, err := New(0, logging.Discard())
	require.NoError(t, err)
	assert.Error(t, w.Watch(file))
	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing")))
}

func TestRunStopsWhenBusCloses(t *testing.T) {
	dir := t.TempDir()
	w, err := New(10*time.Millisecond, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))

	b := bus.New()
	b.Close()
	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background(), b) }()

	require.NoError(t, os.Mkdir(filepath.Join(dir, "x"), 0o755))
	select {
	case err := <-done:
		assert.ErrorIs(t, err, bus.ErrClosed)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher kept running on a closed bus")
	}
}
