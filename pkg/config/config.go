// Package config provides unified configuration for the umleit gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (UMLEIT_ prefix)
//  4. Backward-compatible env var mapping for legacy variable names
//  5. File reference resolution (_file suffix fields)
//  6. Validation
package config

import "time"

// Config holds all configuration for the umleit gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Models        []ModelConfig       `yaml:"models"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int           `yaml:"port"`                // default: 8080
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"` // default: 10s
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`    // default: 15s
	MaxBodySize       int64         `yaml:"max_body_size"`       // default: 10 MiB
}

// UpstreamConfig holds upstream provider settings.
type UpstreamConfig struct {
	BaseURL             string        `yaml:"base_url"`     // required
	APIKey              string        `yaml:"api_key"`      // optional when passthrough is on
	APIKeyFile          string        `yaml:"api_key_file"` // _file variant for api_key
	DefaultModel        string        `yaml:"default_model"`
	Timeout             time.Duration `yaml:"timeout"` // default: 120s
	AllowKeyPassthrough bool          `yaml:"allow_key_passthrough"`
}

// ModelConfig describes one entry of the static model catalog.
type ModelConfig struct {
	ID      string `yaml:"id"`
	OwnedBy string `yaml:"owned_by"` // default: "poe"
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type       string               `yaml:"type"`     // "none", "apikey", "jwt", default: "none"
	APIKeys    []APIKeyConfig       `yaml:"api_keys"` // API key entries for type=apikey
	JWT        JWTConfig            `yaml:"jwt"`
	RateLimits RateLimitConfig      `yaml:"rate_limits"`
	Tiers      map[string]TierLimit `yaml:"tiers"`
}

// APIKeyConfig describes a single API key entry. The json tags cover the
// UMLEIT_API_KEYS environment variable, which carries a JSON array.
type APIKeyConfig struct {
	Key         string `yaml:"key" json:"key"`
	KeyFile     string `yaml:"key_file" json:"key_file"` // _file variant for key
	Subject     string `yaml:"subject" json:"subject"`
	ServiceTier string `yaml:"service_tier" json:"service_tier"`
}

// JWTConfig holds JWT/OIDC validation settings for type=jwt.
type JWTConfig struct {
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
	JWKSURL  string `yaml:"jwks_url"`
}

// RateLimitConfig enables in-process rate limiting.
type RateLimitConfig struct {
	Enabled    bool `yaml:"enabled"`
	DefaultRPM int  `yaml:"default_rpm"` // default: 60 when enabled
}

// TierLimit holds per-tier rate limit settings.
type TierLimit struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			MaxBodySize:       10 << 20,
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://api.poe.com",
			Timeout: 120 * time.Second,
		},
		Auth: AuthConfig{
			Type: "none",
			RateLimits: RateLimitConfig{
				DefaultRPM: 60,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
