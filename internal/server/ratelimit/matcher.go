package ratelimit

import (
	"net/http"
	"strings"
)

var unlimited = EndpointConfig{Path: "/health", Method: http.MethodGet}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Configs whose path ends in "/" match by prefix; among those the longest wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == unlimited.Path && method == unlimited.Method {
		c := unlimited
		return &c
	}

	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if config.Path == path {
			return config
		}
		if strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			if best == nil || len(config.Path) > len(best.Path) {
				best = config
			}
		}
	}
	return best
}
