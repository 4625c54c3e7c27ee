package config

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Password length limits. bcrypt ignores input past 72 bytes, so longer passwords
// (pepper included) are refused rather than silently truncated.
const (
	MinPasswordRunes = 8
	maxBcryptBytes   = 72
)

// ErrPasswordTooShort and ErrPasswordTooLong are returned by CheckPolicy.
var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordRunes)
	ErrPasswordTooLong  = errors.New("password is too long")
)

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional secret appended before hashing
}

// NewPasswordConfig reads BCRYPT_COST (default 12) and PASSWORD_PEPPER through getenv.
func NewPasswordConfig(getenv func(string) string) (*PasswordConfig, error) {
	cost := 12
	if v := getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cost = parsed
	}

	cfg := &PasswordConfig{BcryptCost: cost, Pepper: getenv("PASSWORD_PEPPER")}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be %d-14)", c.BcryptCost, bcrypt.MinCost)
	}
	if len(c.Pepper) > maxBcryptBytes-MinPasswordRunes {
		return fmt.Errorf("PASSWORD_PEPPER is too long")
	}
	return nil
}

// CheckPolicy reports whether pw can be used as a password.
func (c *PasswordConfig) CheckPolicy(pw string) error {
	if utf8.RuneCountInString(pw) < MinPasswordRunes {
		return ErrPasswordTooShort
	}
	if len(pw)+len(c.Pepper) > maxBcryptBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword checks the policy and hashes pw with bcrypt.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	if err := c.CheckPolicy(pw); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+c.Pepper), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+c.Pepper)) == nil
}
