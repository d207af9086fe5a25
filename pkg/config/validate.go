package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// upstream.base_url is required.
	if c.Upstream.BaseURL == "" {
		errs = append(errs, fmt.Errorf("upstream.base_url is required"))
	}

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// auth.type must be a known value.
	switch c.Auth.Type {
	case "none", "apikey", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Type))
	}

	// Key passthrough reuses the bearer token as the upstream credential,
	// which cannot coexist with gateway-level API key auth on the same header.
	if c.Upstream.AllowKeyPassthrough && c.Auth.Type == "apikey" {
		errs = append(errs, fmt.Errorf("upstream.allow_key_passthrough cannot be combined with auth.type \"apikey\""))
	}

	// Without passthrough an upstream credential must exist somewhere.
	if !c.Upstream.AllowKeyPassthrough && c.Upstream.APIKey == "" && c.Upstream.APIKeyFile == "" {
		errs = append(errs, fmt.Errorf("upstream.api_key or upstream.api_key_file is required unless allow_key_passthrough is set"))
	}

	// auth.type=jwt needs a JWKS endpoint.
	if c.Auth.Type == "jwt" && c.Auth.JWT.JWKSURL == "" {
		errs = append(errs, fmt.Errorf("auth.jwt.jwks_url is required when auth.type is \"jwt\""))
	}

	// Model IDs must be unique.
	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if m.ID == "" {
			errs = append(errs, fmt.Errorf("models[%d].id must not be empty", i))
			continue
		}
		if seen[m.ID] {
			errs = append(errs, fmt.Errorf("models[%d].id %q is duplicated", i, m.ID))
		}
		seen[m.ID] = true
	}

	return errors.Join(errs...)
}
