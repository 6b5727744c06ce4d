package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWatchedConfig(t *testing.T, path, authType string) {
	t.Helper()
	content := "server:\n  listen: \"127.0.0.1:5000\"\nauth:\n  type: " + authType + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()

	w, err := NewWatcher(path, WithDebounceDelay(20*time.Millisecond), WithWatcherLogger(zerolog.Nop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Watch(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})

	// Let the watcher start receiving events.
	time.Sleep(50 * time.Millisecond)
	return w
}

func TestNewWatcher_PathResolution(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, "basic_auth")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, w.Path())
}

func TestNewWatcher_InvalidPath(t *testing.T) {
	t.Parallel()

	w, err := NewWatcher("/nonexistent/path/to/config.yaml")
	if err == nil {
		_ = w.Close()
	}
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, "basic_auth")

	w := startWatcher(t, path)

	var latest atomic.Pointer[Config]
	w.OnReload(func(cfg *Config) error {
		latest.Store(cfg)
		return nil
	})

	writeWatchedConfig(t, path, "session_auth")

	require.Eventually(t, func() bool {
		cfg := latest.Load()
		return cfg != nil && cfg.Auth.Type == "session_auth"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_InvalidConfigKeepsCallbacksQuiet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, "basic_auth")

	w, err := NewWatcher(path, WithWatcherLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int32
	w.OnReload(func(*Config) error {
		calls.Add(1)
		return nil
	})

	writeWatchedConfig(t, path, "jwt")
	w.Reload()
	assert.Zero(t, calls.Load())

	writeWatchedConfig(t, path, "session_auth")
	w.Reload()
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_CallbackErrorDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, "basic_auth")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	var second atomic.Bool
	w.OnReload(func(*Config) error { return assert.AnError })
	w.OnReload(func(*Config) error {
		second.Store(true)
		return nil
	})

	w.Reload()
	assert.True(t, second.Load())
}

func TestWatcher_CloseTwice(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, "basic_auth")

	w, err := NewWatcher(path)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrWatcherClosed)
}
