package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddress())
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "/health", cfg.HealthCheckPath)
	assert.Equal(t, "/ready", cfg.ReadyCheckPath)
	assert.Equal(t, 0.5, cfg.AlertThreshold)
	assert.Equal(t, 2*time.Minute, cfg.AlertCooldown)
	require.NotNil(t, cfg.Database)

	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: "invalid port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "invalid port",
		},
		{
			name:    "zero rate limit rps",
			mutate:  func(c *Config) { c.RateLimitRPS = 0 },
			wantErr: "rate limit RPS",
		},
		{
			name:    "max page size below default",
			mutate:  func(c *Config) { c.MaxPageSize = 5 },
			wantErr: "max page size",
		},
		{
			name:    "alert threshold out of range",
			mutate:  func(c *Config) { c.AlertThreshold = 1.5 },
			wantErr: "alert threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidateDisabledRateLimit(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.RateLimitEnabled = false
	cfg.RateLimitRPS = 0

	assert.NoError(t, cfg.Validate())
}
