package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Catalog validation
	if c.Catalog.URL != "" {
		if u, err := url.Parse(c.Catalog.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("catalog.url: not an absolute URL: %q", c.Catalog.URL))
		}
	}
	if c.Catalog.CacheHours < 0 {
		errs = append(errs, fmt.Sprintf("catalog.cache_hours: must not be negative, got %d", c.Catalog.CacheHours))
	}

	// Database path warning (non-fatal)
	if dir := filepath.Dir(c.Database.Path); dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("database.path: warning: directory %q does not exist", dir))
		}
	}

	return errs
}
