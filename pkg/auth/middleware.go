package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/umleit-dev/umleit/pkg/observability"
)

// Options controls middleware behavior beyond the chain itself.
type Options struct {
	// Limiter, when non-nil, enforces per-subject rate limits after
	// successful authentication.
	Limiter RateLimiter

	// BypassEndpoints lists exact paths that skip authentication.
	BypassEndpoints []string

	// KeyPassthrough lifts the caller's bearer token into the request
	// context as the upstream credential. Only meaningful when the chain
	// does not itself consume the bearer token as a gateway key.
	KeyPassthrough bool
}

// Middleware creates HTTP middleware from an AuthChain.
// It checks the bypass list, runs authentication, optionally enforces
// rate limits, and injects the identity into the request context.
func Middleware(chain *AuthChain, opts Options) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(opts.BypassEndpoints))
	for _, ep := range opts.BypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			result := chain.Authenticate(r.Context(), r)

			if result.Decision == No {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", result.Err,
				)
				writeAuthError(w, http.StatusUnauthorized, "invalid_request_error", "authentication required")
				return
			}

			if result.Decision != Yes || result.Identity == nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid_request_error", "authentication required")
				return
			}

			if result.Identity.Subject == "" {
				slog.Error("authenticator returned identity with empty subject")
				writeAuthError(w, http.StatusInternalServerError, "server_error", "internal authentication error")
				return
			}

			slog.Debug("authentication succeeded",
				"subject", result.Identity.Subject,
				"path", r.URL.Path,
			)

			if opts.Limiter != nil {
				if err := opts.Limiter.Allow(r.Context(), result.Identity); err != nil {
					slog.Warn("rate limit exceeded",
						"subject", result.Identity.Subject,
						"tier", result.Identity.ServiceTier,
					)
					observability.RateLimitRejectedTotal.WithLabelValues(result.Identity.ServiceTier).Inc()
					writeAuthError(w, http.StatusTooManyRequests, "rate_limit_error", "rate limit exceeded")
					return
				}
			}

			ctx := SetIdentity(r.Context(), result.Identity)

			if opts.KeyPassthrough {
				if key := bearerToken(r); key != "" {
					ctx = SetUpstreamKey(ctx, key)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the Bearer credential from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func writeAuthError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":{"type":"` + errType + `","message":"` + message + `"}}`))
}

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{"/healthz", "/metrics", "/"}
