package config

import (
	"strings"
	"time"
)

// CacheConfig controls the response cache middleware.  Caching is
// disabled when Enabled is false or no Redis client is available.
type CacheConfig struct {
	Enabled      bool            // CACHE_ENABLED
	Methods      map[string]bool // CACHE_METHODS, HTTP methods to cache
	TTL          time.Duration   // CACHE_TTL, entry lifetime
	KeyStrategy  string          // CACHE_KEY_STRATEGY, what feeds the key
	Prefix       string          // CACHE_PREFIX, key namespace
	MaxBodyBytes int             // CACHE_MAX_BODY_BYTES, largest cacheable body
}

// LoadCacheConfig reads cache settings from the environment with
// conservative defaults: GET only, 30 second TTL, 1 MiB body cap.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
