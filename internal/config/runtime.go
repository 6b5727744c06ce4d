package config

import "sync/atomic"

// Runtime holds the current configuration for hot-reload. Reads are
// lock-free; in-flight requests keep the config they started with while
// new requests see the reloaded one.
//
//	runtime := config.NewRuntime(initial)
//	watcher.OnReload(func(cfg *config.Config) error {
//		runtime.Store(cfg)
//		return nil
//	})
type Runtime struct {
	ptr atomic.Pointer[Config]
}

// NewRuntime creates a Runtime holding initial.
func NewRuntime(initial *Config) *Runtime {
	r := &Runtime{}
	r.ptr.Store(initial)
	return r
}

// Get returns the current configuration.
func (r *Runtime) Get() *Config {
	return r.ptr.Load()
}

// Store atomically replaces the configuration.
func (r *Runtime) Store(cfg *Config) {
	r.ptr.Store(cfg)
}

var _ RuntimeConfig = (*Runtime)(nil)
