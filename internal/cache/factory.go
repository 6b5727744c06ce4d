package cache

import (
	"fmt"
)

// New creates a Cache for values of type V based on the configuration.
// It returns an error if the configuration is invalid or if the backend
// fails to initialize.
func New[V any](cfg *Config) (Cache[V], error) {
	log := logger().With().Str("component", "cache_factory").Logger()

	if err := cfg.Validate(); err != nil {
		log.Debug().Err(err).Str("mode", string(cfg.Mode)).Msg("cache factory: validation failed")
		return nil, err
	}

	switch cfg.Mode {
	case ModeSingle:
		c, err := newRistrettoCache[V](cfg.Ristretto)
		if err != nil {
			log.Error().Err(err).Msg("cache factory: backend initialization failed")
			return nil, err
		}
		return c, nil
	case ModeDisabled, "":
		return newNoopCache[V](), nil
	default:
		return nil, fmt.Errorf("cache: unknown mode %q", cfg.Mode)
	}
}
