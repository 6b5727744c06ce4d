package main

import (
	"os"
	"path/filepath"
)

// resolveConfigPath returns --config when set, otherwise the first existing
// default location. An empty result means running on defaults and the
// environment.
func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := findConfigIn("."); p != "" {
		return p
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return findConfigIn(filepath.Join(home, ".config", "authgate"))
	}
	return ""
}

// findConfigIn returns the config file in dir, or "" if there is none.
func findConfigIn(dir string) string {
	for _, name := range []string{defaultConfigFile, "config.yml", "config.toml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
