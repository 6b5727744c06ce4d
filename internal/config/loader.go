package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/omarluq/authgate/internal/cache"
	"github.com/omarluq/authgate/internal/redact"
)

// Format is a configuration file format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// detectFormat picks the format from the file extension.
func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and parses a YAML or TOML configuration file, chosen by
// extension. Environment variables in the format ${VAR_NAME} are expanded
// before parsing and defaults are applied afterwards. Load does not validate.
func Load(path string) (cfg *Config, err error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", cerr)
		}
	}()

	return LoadFromReader(file, format)
}

// LoadFromReader parses configuration in the given format from r.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(content)))

	var cfg Config
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills unset values from the environment and built-in
// defaults. It is idempotent.
func (c *Config) ApplyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = net.JoinHostPort(
			envOr(EnvAPIHost, DefaultHost),
			envOr(EnvAPIPort, DefaultPort),
		)
	}

	if c.Auth.Type == "" {
		c.Auth.Type = os.Getenv(EnvAuthType)
	}
	if c.Auth.SessionName == "" {
		c.Auth.SessionName = os.Getenv(EnvSessionName)
	}
	if c.Auth.ExcludedPaths == nil {
		c.Auth.ExcludedPaths = append([]string(nil), DefaultExcludedPaths...)
	}

	if c.Logging.Redact.Fields == nil {
		c.Logging.Redact.Fields = append([]string(nil), redact.PIIFields...)
	}
	if c.Logging.Redact.Token == "" {
		c.Logging.Redact.Token = redact.DefaultToken
	}
	if c.Logging.Redact.Separator == "" {
		c.Logging.Redact.Separator = string(redact.DefaultSeparator)
	}

	if c.UserCache.Mode == cache.ModeSingle && c.UserCache.Ristretto == (cache.RistrettoConfig{}) {
		c.UserCache.Ristretto = cache.DefaultRistrettoConfig()
	}

	for i := range c.Users {
		if c.Users[i].ID == "" {
			c.Users[i].ID = uuid.NewString()
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
