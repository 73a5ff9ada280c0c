// Package config loads, validates, and resolves the project configuration
// with precedence handling.
package config

import (
	"os"
)

// Resolve returns the effective configuration for dir.
// Precedence below CLI flags: environment variables > nearest .lmacfy.yaml
// walking up from dir > built-in defaults. The returned path names the
// config file that contributed, empty when none was found.
func Resolve(dir string) (*Config, string, error) {
	cfg := Default()

	path := Locate(dir)
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		cfg.merge(loaded)
	}

	cfg.applyEnv()
	return cfg, path, nil
}

// merge overlays the non-empty fields of o.
func (c *Config) merge(o *Config) {
	if o.Region != "" {
		c.Region = o.Region
	}
	if o.Repository != "" {
		c.Repository = o.Repository
	}
	if o.Platform != "" {
		c.Platform = o.Platform
	}
	if o.ServiceARN != "" {
		c.ServiceARN = o.ServiceARN
	}
}

// applyEnv overlays environment variables. The tool-specific LMACFY_REGION
// beats the generic AWS_REGION.
func (c *Config) applyEnv() {
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("LMACFY_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("LMACFY_REPOSITORY"); v != "" {
		c.Repository = v
	}
	if v := os.Getenv("LMACFY_PLATFORM"); v != "" {
		c.Platform = v
	}
	if v := os.Getenv("LMACFY_SERVICE_ARN"); v != "" {
		c.ServiceARN = v
	}
}
