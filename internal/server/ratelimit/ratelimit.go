// Package ratelimit provides fixed-window rate limiting keyed by client
// identity. Requests are counted in non-overlapping windows; the counter
// resets when a window elapses.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// window tracks request counts for one client within the current window.
type window struct {
	count   int
	resetAt time.Time
}

// Info describes the outcome of a rate limit check.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages fixed-window counters for multiple clients. All policy
// instances (per-route and standalone per-IP) share this one implementation
// so reset and threshold semantics stay identical.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	config  *Config
}

// NewLimiter creates a limiter with the given configuration. A nil config
// uses defaults.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Limiter{
		windows: make(map[string]*window),
		config:  config,
	}
}

// Check applies a fixed-window policy to key: at most maxRequests per
// windowDur. Allowed requests increment the counter; rejected requests do
// not. Stale windows across all keys are swept on every call, bounding
// memory to active clients.
func (l *Limiter) Check(key string, windowDur time.Duration, maxRequests int) (bool, Info) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, w := range l.windows {
		if w.resetAt.Before(now) {
			delete(l.windows, k)
		}
	}

	w, ok := l.windows[key]
	if !ok || w.resetAt.Before(now) {
		w = &window{count: 0, resetAt: now.Add(windowDur)}
		l.windows[key] = w
	}

	if w.count >= maxRequests {
		retryAfter := time.Until(w.resetAt)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, Info{
			Allowed:    false,
			Limit:      maxRequests,
			Remaining:  0,
			ResetTime:  w.resetAt,
			RetryAfter: retryAfter,
		}
	}

	w.count++
	return true, Info{
		Allowed:   true,
		Limit:     maxRequests,
		Remaining: maxRequests - w.count,
		ResetTime: w.resetAt,
	}
}

// Allow checks a request against the policy matching its path and method.
// The counter key combines the client with the policy so different routes
// do not share budgets.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	policy := MatchPolicy(path, method, l.config.Policies)
	if policy == nil {
		policy = &Policy{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
		}
	}

	// Unlimited route (e.g. health check).
	if policy.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + policy.Path + ":" + method
	return l.Check(key, policy.Window, policy.Limit)
}

// Size reports the number of live windows, for tests and diagnostics.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// ClientID derives a client identity from the request: the first
// X-Forwarded-For value, falling back to the connection address, falling
// back to "unknown". Clients behind proxies that strip headers share the
// fallback bucket; that degradation is intentional.
func ClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	if r.RemoteAddr != "" {
		// RemoteAddr is "IP:port"; fall back to the raw value if it
		// does not parse.
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return ip
	}
	return "unknown"
}
