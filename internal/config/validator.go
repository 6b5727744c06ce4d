package config

import (
	"net"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/omarluq/authgate/internal/auth"
)

var validLogLevels = map[string]bool{
	"":         true, // Empty defaults to info
	LevelDebug: true,
	LevelInfo:  true,
	LevelWarn:  true,
	LevelError: true,
}

var validLogFormats = map[string]bool{
	"":        true, // Empty defaults to json
	"json":    true,
	"console": true,
	"text":    true, // Alias for console
	"pretty":  true,
}

// Validate checks the configuration for errors.
// Returns a ValidationError containing all errors found, or nil if valid.
func (c *Config) Validate() error {
	errs := &ValidationError{}

	validateServer(c, errs)
	validateAuth(c, errs)
	validateLogging(c, errs)
	validateUsers(c, errs)
	validateUserCache(c, errs)
	validateUserBreaker(c, errs)

	return errs.ToError()
}

func validateServer(c *Config, errs *ValidationError) {
	if c.Server.Listen == "" {
		errs.Add("server.listen is required")
	} else {
		validateListenAddress(c.Server.Listen, errs)
	}

	if c.Server.TimeoutMS < 0 {
		errs.Add("server.timeout_ms must be >= 0")
	}
}

func validateListenAddress(addr string, errs *ValidationError) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		errs.Addf("server.listen must be in host:port format (got %q)", addr)
		return
	}

	if host != "" && net.ParseIP(host) == nil && strings.ContainsAny(host, " \t\n") {
		errs.Add("server.listen host contains invalid characters")
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		errs.Addf("server.listen port is invalid (got %q)", port)
	}
}

func validateAuth(c *Config, errs *ValidationError) {
	if c.Auth.Type != "" && !auth.Type(c.Auth.Type).Valid() {
		errs.Addf("auth.type is invalid (got %q, valid: none, basic_auth, session_auth)", c.Auth.Type)
	}

	for i, p := range c.Auth.ExcludedPaths {
		if p != "*" && !strings.HasPrefix(p, "/") {
			errs.Addf("auth.excluded_paths[%d] must start with / (got %q)", i, p)
		}
		if strings.Count(p, "*") > 1 || (strings.Contains(p, "*") && !strings.HasSuffix(p, "*")) {
			errs.Addf("auth.excluded_paths[%d] may only end with a single * (got %q)", i, p)
		}
	}
}

func validateLogging(c *Config, errs *ValidationError) {
	if !validLogLevels[c.Logging.Level] {
		errs.Addf("logging.level is invalid (got %q, valid: debug, info, warn, error)",
			c.Logging.Level)
	}

	if !validLogFormats[c.Logging.Format] {
		errs.Addf("logging.format is invalid (got %q, valid: json, console, text, pretty)",
			c.Logging.Format)
	}

	if sep := c.Logging.Redact.Separator; sep != "" && utf8.RuneCountInString(sep) != 1 {
		errs.Addf("logging.redact.separator must be a single character (got %q)", sep)
	}

	for i, f := range c.Logging.Redact.Fields {
		if f == "" || strings.ContainsAny(f, "= ") {
			errs.Addf("logging.redact.fields[%d] is invalid (got %q)", i, f)
		}
	}
}

func validateUsers(c *Config, errs *ValidationError) {
	seenEmails := make(map[string]bool, len(c.Users))

	for i, u := range c.Users {
		if u.Email == "" {
			errs.Addf("users[%d].email is required", i)
		} else {
			if seenEmails[u.Email] {
				errs.Addf("duplicate user email: %s", u.Email)
			}
			seenEmails[u.Email] = true
		}
	}

	ids := lo.FilterMap(c.Users, func(u UserConfig, _ int) (string, bool) {
		return u.ID, u.ID != ""
	})
	for _, id := range lo.FindDuplicates(ids) {
		errs.Addf("duplicate user id: %s", id)
	}
}

func validateUserCache(c *Config, errs *ValidationError) {
	errs.AddErr("user_cache", c.UserCache.CacheConfig().Validate())

	if c.UserCache.TTLSeconds < 0 {
		errs.Add("user_cache.ttl_seconds must be >= 0")
	}
}

func validateUserBreaker(c *Config, errs *ValidationError) {
	b := c.UserBreaker
	if b.FailureThreshold < 0 {
		errs.Add("user_breaker.failure_threshold must be >= 0")
	}
	if b.OpenDurationMS < 0 {
		errs.Add("user_breaker.open_duration_ms must be >= 0")
	}
	if b.HalfOpenProbes < 0 {
		errs.Add("user_breaker.half_open_probes must be >= 0")
	}
}
