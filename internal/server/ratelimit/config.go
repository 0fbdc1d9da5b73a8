package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Policy is the fixed-window budget for one route.
type Policy struct {
	Path   string        // Endpoint path pattern (supports prefix matching for paths ending in "/")
	Method string        // HTTP method
	Limit  int           // Maximum requests per window; <= 0 means unlimited
	Window time.Duration // Window duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Policies      []Policy
}

// DefaultConfig returns the built-in limits: generation is the expensive
// route and gets the strictest budget, auth gets a brute-force guard, and
// everything else shares a lenient default.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: 15 * time.Minute,
		Policies:      DefaultPolicies(),
	}
}

// DefaultPolicies returns the per-route budgets.
func DefaultPolicies() []Policy {
	return []Policy{
		{Path: "/generate", Method: "POST", Limit: 3, Window: time.Minute},
		{Path: "/auth/", Method: "POST", Limit: 5, Window: 15 * time.Minute},
	}
}

// LoadConfig loads rate limiting configuration from environment variables,
// falling back to defaults.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:       true,
		DefaultLimit:  getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 100),
		DefaultWindow: getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", 15*time.Minute),
		Policies:      DefaultPolicies(),
	}
}

// MatchPolicy matches a request path and method to a policy. Exact matches
// win over prefix matches; the health check is always unlimited. Returns
// nil when no policy applies.
func MatchPolicy(path, method string, policies []Policy) *Policy {
	if path == "/health" && method == "GET" {
		return &Policy{Path: path, Method: method, Limit: 0}
	}

	for i := range policies {
		p := &policies[i]
		if p.Path == path && p.Method == method {
			return p
		}
	}

	for i := range policies {
		p := &policies[i]
		if p.Method == method && len(p.Path) > 0 && p.Path[len(p.Path)-1] == '/' {
			if len(path) >= len(p.Path) && path[:len(p.Path)] == p.Path {
				return p
			}
		}
	}

	return nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
