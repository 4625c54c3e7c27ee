package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.getBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.getInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.getDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.getDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.getString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.getString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(env.getInt("RATE_LIMIT_ASSIST_PER_HOUR", 30)),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// assistPerHour bounds calls that reach the completion service.
func DefaultEndpointConfigs(assistPerHour int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: completion service calls
		{Path: "/assist", Method: http.MethodPost, Limit: assistPerHour, Window: time.Hour, Burst: min(assistPerHour, 5)},

		// Tier 2: credential checks
		{Path: "/auth/login", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: http.MethodPost, Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/auth/password", Method: http.MethodPut, Limit: 5, Window: time.Minute, Burst: 3},

		// Tier 3: writes
		{Path: "/clouds", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/clouds/", Method: http.MethodPut, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/solutions/", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},

		// Reads fall back to the default limit; GET /health is unlimited (see matcher)
	}
}

type envReader func(string) string

func (e envReader) getString(key, defaultValue string) string {
	if value := e(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) getInt(key string, defaultValue int) int {
	if intValue, err := strconv.Atoi(e(key)); err == nil {
		return intValue
	}
	return defaultValue
}

func (e envReader) getBool(key string, defaultValue bool) bool {
	if boolValue, err := strconv.ParseBool(e(key)); err == nil {
		return boolValue
	}
	return defaultValue
}

func (e envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(e(key)); err == nil {
		return duration
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
