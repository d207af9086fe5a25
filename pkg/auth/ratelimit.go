package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter checks whether a request should be allowed based on
// the identity's service tier.
type RateLimiter interface {
	Allow(ctx context.Context, identity *Identity) error
}

// TierConfig holds rate limit settings for a service tier.
type TierConfig struct {
	RequestsPerMinute int
}

// rateWindow is the span over which RequestsPerMinute is enforced.
const rateWindow = time.Minute

// InProcessLimiter enforces per-tier request rates with a sliding log of
// request times per caller. Unlike a fixed window, a burst straddling a
// window boundary cannot double the effective rate.
type InProcessLimiter struct {
	tiers      map[string]TierConfig
	defaultRPM int

	mu      sync.Mutex
	history map[string][]time.Time

	now func() time.Time
}

// NewInProcessLimiter creates a rate limiter with per-tier configuration.
// Tiers not present in the map fall back to defaultRPM; a resolved rate
// of zero or less means unlimited.
func NewInProcessLimiter(tiers map[string]TierConfig, defaultRPM int) *InProcessLimiter {
	return &InProcessLimiter{
		tiers:      tiers,
		defaultRPM: defaultRPM,
		history:    make(map[string][]time.Time),
		now:        time.Now,
	}
}

// limitFor resolves the request rate for a tier name.
func (l *InProcessLimiter) limitFor(tier string) int {
	if tc, ok := l.tiers[tier]; ok {
		return tc.RequestsPerMinute
	}
	return l.defaultRPM
}

// Allow records one request for the identity and reports whether it is
// within the tier's rate. Callers in different tiers never share a log,
// so tier changes take effect on the next request.
func (l *InProcessLimiter) Allow(_ context.Context, identity *Identity) error {
	tier := identity.ServiceTier
	if tier == "" {
		tier = "default"
	}

	rpm := l.limitFor(tier)
	if rpm <= 0 {
		return nil
	}

	key := identity.Subject + ":" + tier

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-rateWindow)

	// Drop entries that have slid out of the window.
	log := l.history[key]
	kept := log[:0]
	for _, at := range log {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}

	if len(kept) >= rpm {
		l.history[key] = kept
		return ErrTooManyRequests
	}

	l.history[key] = append(kept, now)
	return nil
}
