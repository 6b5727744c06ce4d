// Package config provides configuration loading, parsing, and validation for authgate.
package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/omarluq/authgate/internal/cache"
	"github.com/omarluq/authgate/internal/redact"
	"github.com/omarluq/authgate/internal/users"
)

// RuntimeConfig defines the interface for accessing configuration that
// supports hot-reload. Components that must observe reloads hold a
// RuntimeConfig instead of a *Config, which would go stale.
type RuntimeConfig interface {
	Get() *Config
}

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Environment variables consulted when the file leaves a value unset.
const (
	EnvAuthType    = "AUTH_TYPE"
	EnvSessionName = "SESSION_NAME"
	EnvAPIHost     = "API_HOST"
	EnvAPIPort     = "API_PORT"
)

// Defaults.
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = "5000"

	DefaultUserCacheTTLSeconds = 60
)

// DefaultExcludedPaths are the routes reachable without authentication.
var DefaultExcludedPaths = []string{
	"/api/v1/status/",
	"/api/v1/unauthorized/",
	"/api/v1/forbidden/",
	"/api/v1/auth_session/login/",
}

// Config represents the complete authgate configuration.
type Config struct {
	Users       []UserConfig        `yaml:"users" toml:"users"`
	Auth        AuthConfig          `yaml:"auth" toml:"auth"`
	Logging     LoggingConfig       `yaml:"logging" toml:"logging"`
	Server      ServerConfig        `yaml:"server" toml:"server"`
	UserCache   UserCacheConfig     `yaml:"user_cache" toml:"user_cache"`
	UserBreaker users.BreakerConfig `yaml:"user_breaker" toml:"user_breaker"`
}

// ServerConfig defines server-level settings.
type ServerConfig struct {
	// Listen is the host:port address. Defaults to ${API_HOST}:${API_PORT},
	// then 0.0.0.0:5000.
	Listen string `yaml:"listen" toml:"listen"`

	// TimeoutMS bounds reading a request and writing its response.
	TimeoutMS int `yaml:"timeout_ms" toml:"timeout_ms"`

	// EnableHTTP2 serves cleartext HTTP/2 (h2c) next to HTTP/1.1.
	EnableHTTP2 bool `yaml:"enable_http2" toml:"enable_http2"`
}

// GetTimeoutOption returns the request timeout, or None when unset.
func (s *ServerConfig) GetTimeoutOption() mo.Option[time.Duration] {
	if s.TimeoutMS <= 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(time.Duration(s.TimeoutMS) * time.Millisecond)
}

// AuthConfig selects the authentication strategy.
type AuthConfig struct {
	// Type is none, basic_auth or session_auth. Empty disables
	// authentication entirely. Defaults to ${AUTH_TYPE}.
	Type string `yaml:"type" toml:"type"`

	// SessionName is the session cookie name. Defaults to ${SESSION_NAME}.
	SessionName string `yaml:"session_name" toml:"session_name"`

	// ExcludedPaths need no authentication. A trailing "*" matches by prefix.
	ExcludedPaths []string `yaml:"excluded_paths" toml:"excluded_paths"`
}

// IsEnabled reports whether an auth type is configured.
func (a *AuthConfig) IsEnabled() bool {
	return a.Type != ""
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string       `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string       `yaml:"format" toml:"format"` // json, console
	Output string       `yaml:"output" toml:"output"` // stdout, stderr, or file path
	Redact RedactConfig `yaml:"redact" toml:"redact"`
	Pretty bool         `yaml:"pretty" toml:"pretty"` // enable colored console output
}

// ParseLevel converts a string log level to zerolog.Level.
// Returns zerolog.InfoLevel if the level string is invalid.
func (l *LoggingConfig) ParseLevel() zerolog.Level {
	switch strings.ToLower(l.Level) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// RedactConfig configures log redaction.
type RedactConfig struct {
	Token     string   `yaml:"token" toml:"token"`
	Separator string   `yaml:"separator" toml:"separator"`
	Fields    []string `yaml:"fields" toml:"fields"`
}

// SeparatorRune returns the configured separator or redact.DefaultSeparator.
func (r *RedactConfig) SeparatorRune() rune {
	runes := []rune(r.Separator)
	if len(runes) != 1 {
		return redact.DefaultSeparator
	}
	return runes[0]
}

// NewRedactor builds the redactor this configuration describes.
func (r *RedactConfig) NewRedactor() *redact.Redactor {
	return redact.New(r.Fields, r.Token, r.SeparatorRune())
}

// UserConfig is one user of the in-memory user store.
type UserConfig struct {
	ID        string `yaml:"id" toml:"id"`
	Email     string `yaml:"email" toml:"email"`
	Password  string `yaml:"password" toml:"password"`
	FirstName string `yaml:"first_name" toml:"first_name"`
	LastName  string `yaml:"last_name" toml:"last_name"`
}

// ToUser converts the entry to a users.User.
func (u *UserConfig) ToUser() *users.User {
	return users.NewUser(u.ID, u.Email, u.Password).WithName(u.FirstName, u.LastName)
}

// UserCacheConfig configures the user lookup cache.
type UserCacheConfig struct {
	Mode       cache.Mode            `yaml:"mode" toml:"mode"`
	Ristretto  cache.RistrettoConfig `yaml:"ristretto" toml:"ristretto"`
	TTLSeconds int                   `yaml:"ttl_seconds" toml:"ttl_seconds"`
}

// CacheConfig returns the cache package configuration.
func (u *UserCacheConfig) CacheConfig() *cache.Config {
	return &cache.Config{Mode: u.Mode, Ristretto: u.Ristretto}
}

// GetTTL returns the entry TTL or the default.
func (u *UserCacheConfig) GetTTL() time.Duration {
	if u.TTLSeconds <= 0 {
		return DefaultUserCacheTTLSeconds * time.Second
	}
	return time.Duration(u.TTLSeconds) * time.Second
}

// IsEnabled reports whether lookups are cached.
func (u *UserCacheConfig) IsEnabled() bool {
	return u.Mode == cache.ModeSingle
}
