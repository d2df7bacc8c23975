package config

import "time"

// RateLimitConfig controls the Redis token-bucket middleware.
type RateLimitConfig struct {
	Enabled        bool          // RATE_LIMIT_ENABLED
	Capacity       int           // RATE_LIMIT_CAPACITY, bucket size
	RefillTokens   int           // RATE_LIMIT_REFILL_TOKENS, tokens added per interval
	RefillInterval time.Duration // RATE_LIMIT_REFILL_INTERVAL
	TTL            time.Duration // RATE_LIMIT_TTL, bucket key expiry
	KeyStrategy    string        // RATE_LIMIT_KEY_STRATEGY
	Prefix         string        // RATE_LIMIT_PREFIX, key namespace
	Debug          bool          // RATE_LIMIT_DEBUG
}

// LoadRateLimitConfig reads limiter settings from the environment and
// normalizes them so the bucket always refills and keys outlive a few
// refill cycles.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
