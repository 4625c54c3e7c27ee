package config

import (
	"fmt"
	"time"
)

// Issuer is the iss claim of session tokens.
const Issuer = "toc-cloud"

// minSecretLength is the shortest HMAC secret accepted.
const minSecretLength = 16

// JWTConfig holds configuration for session token signing.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_TTL (default 72h) through getenv.
func NewJWTConfig(getenv func(string) string) (*JWTConfig, error) {
	secret := getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	ttl := 72 * time.Hour
	if v := getenv("JWT_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL: %v", err)
		}
		ttl = parsed
	}

	cfg := &JWTConfig{Secret: secret, TTL: ttl, Issuer: Issuer}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.TTL < time.Minute {
		return fmt.Errorf("JWT_TTL must be at least 1m, got: %s", c.TTL)
	}
	if c.Issuer == "" {
		c.Issuer = Issuer
	}
	return nil
}
