package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantTTL time.Duration
		wantErr string
	}{
		{
			name:    "defaults",
			env:     map[string]string{"JWT_SECRET": "0123456789abcdef"},
			wantTTL: 72 * time.Hour,
		},
		{
			name:    "custom ttl",
			env:     map[string]string{"JWT_SECRET": "0123456789abcdef", "JWT_TTL": "2h30m"},
			wantTTL: 150 * time.Minute,
		},
		{
			name:    "missing secret",
			env:     map[string]string{},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "short secret",
			env:     map[string]string{"JWT_SECRET": "short"},
			wantErr: "at least 16 bytes",
		},
		{
			name:    "unparseable ttl",
			env:     map[string]string{"JWT_SECRET": "0123456789abcdef", "JWT_TTL": "forever"},
			wantErr: "invalid JWT_TTL",
		},
		{
			name:    "ttl too short",
			env:     map[string]string{"JWT_SECRET": "0123456789abcdef", "JWT_TTL": "10s"},
			wantErr: "at least 1m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(envMap(tt.env))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTTL, cfg.TTL)
			assert.Equal(t, Issuer, cfg.Issuer)
		})
	}
}
