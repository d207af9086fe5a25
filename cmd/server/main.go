// Command server runs the umleit chat-completions gateway.
//
// Configuration is layered: config.yaml (discovered or via UMLEIT_CONFIG),
// then environment overrides. A .env file in the working directory is
// loaded first. The most common settings:
//
//	UMLEIT_UPSTREAM_URL - upstream bot API base URL (default: https://api.poe.com)
//	UMLEIT_UPSTREAM_KEY - upstream API key (POE_API_KEY also accepted)
//	UMLEIT_MODEL        - default model when requests omit one
//	UMLEIT_PORT         - listen port (default: 8080)
//	UMLEIT_AUTH_TYPE    - "none", "apikey", or "jwt" (default: none)
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umleit-dev/umleit/pkg/auth"
	"github.com/umleit-dev/umleit/pkg/auth/apikey"
	"github.com/umleit-dev/umleit/pkg/auth/jwt"
	"github.com/umleit-dev/umleit/pkg/auth/noop"
	"github.com/umleit-dev/umleit/pkg/config"
	"github.com/umleit-dev/umleit/pkg/gateway"
	"github.com/umleit-dev/umleit/pkg/models"
	"github.com/umleit-dev/umleit/pkg/observability"
	"github.com/umleit-dev/umleit/pkg/provider/poe"
	transporthttp "github.com/umleit-dev/umleit/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	// Load .env before the config layer reads the environment.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	prov, err := poe.New(poe.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer prov.Close()

	registry := models.NewRegistry(modelDescriptors(cfg.Models))
	gw := gateway.New(prov, gateway.Config{DefaultModel: cfg.Upstream.DefaultModel})

	chain, err := buildAuthChain(cfg)
	if err != nil {
		return fmt.Errorf("configuring auth: %w", err)
	}

	authOpts := auth.Options{
		BypassEndpoints: auth.DefaultBypassEndpoints,
		KeyPassthrough:  cfg.Upstream.AllowKeyPassthrough,
	}
	if cfg.Auth.RateLimits.Enabled {
		tiers := make(map[string]auth.TierConfig, len(cfg.Auth.Tiers))
		for name, t := range cfg.Auth.Tiers {
			tiers[name] = auth.TierConfig{RequestsPerMinute: t.RequestsPerMinute}
		}
		authOpts.Limiter = auth.NewInProcessLimiter(tiers, cfg.Auth.RateLimits.DefaultRPM)
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithReadHeaderTimeout(cfg.Server.ReadHeaderTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithHandlerWrapper(observability.MetricsMiddleware),
		transporthttp.WithHandlerWrapper(auth.Middleware(chain, authOpts)),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithRoute("GET "+cfg.Observability.Metrics.Path, promhttp.Handler()))
	}

	srv := transporthttp.NewServer(gw, registry, opts...)

	slog.Info("gateway configured",
		"port", cfg.Server.Port,
		"upstream", cfg.Upstream.BaseURL,
		"default_model", cfg.Upstream.DefaultModel,
		"models", len(cfg.Models),
		"auth", cfg.Auth.Type,
		"key_passthrough", cfg.Upstream.AllowKeyPassthrough,
	)

	return srv.ListenAndServe()
}

// buildAuthChain assembles the authenticator chain from configuration.
func buildAuthChain(cfg *config.Config) (*auth.AuthChain, error) {
	switch cfg.Auth.Type {
	case "none":
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{&noop.Authenticator{}},
			DefaultDecision: auth.Yes,
		}, nil

	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			entries = append(entries, apikey.RawKeyEntry{
				Key: k.Key,
				Identity: auth.Identity{
					Subject:     k.Subject,
					ServiceTier: k.ServiceTier,
				},
			})
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("auth.type is \"apikey\" but no api_keys are configured")
		}
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{apikey.New(entries)},
			DefaultDecision: auth.No,
		}, nil

	case "jwt":
		authn := jwt.New(jwt.Config{
			Issuer:   cfg.Auth.JWT.Issuer,
			Audience: cfg.Auth.JWT.Audience,
			JWKSURL:  cfg.Auth.JWT.JWKSURL,
		})
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{authn},
			DefaultDecision: auth.No,
		}, nil
	}

	return nil, fmt.Errorf("unknown auth.type %q", cfg.Auth.Type)
}

func modelDescriptors(entries []config.ModelConfig) []models.Descriptor {
	out := make([]models.Descriptor, 0, len(entries))
	for _, m := range entries {
		out = append(out, models.Descriptor{ID: m.ID, OwnedBy: m.OwnedBy})
	}
	return out
}
