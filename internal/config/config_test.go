package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	for k, val := range env {
		t.Setenv(k, val)
	}
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t, nil)
	require.NoError(t, err)

	assert.Equal(t, "8111", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash-lite", cfg.GeminiModel)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GroqModel)
	assert.Equal(t, 20, cfg.AIRatePerMinute)
	assert.Equal(t, 1000, cfg.AIRatePerDay)
	assert.Equal(t, 5, cfg.AIBreakerThreshold)
	assert.Equal(t, 5*time.Minute, cfg.AIBreakerTimeout)
	assert.Equal(t, "60-M", cfg.HTTPRateLimit)
	assert.Equal(t, int64(10<<20), cfg.MaxPDFBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestOverrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"PORT":               "9000",
		"USE_MEMORY_STORE":   "true",
		"SKIP_AUTH":          "true",
		"AI_RATE_PER_MINUTE": "5",
		"AI_BREAKER_TIMEOUT": "30s",
		"ALLOWED_ORIGINS":    "https://naijatax.ng, https://app.naijatax.ng ,",
	})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.UseMemoryStore)
	assert.True(t, cfg.SkipAuth)
	assert.Equal(t, 5, cfg.AIRatePerMinute)
	assert.Equal(t, 30*time.Second, cfg.AIBreakerTimeout)
	assert.Equal(t, []string{"https://naijatax.ng", "https://app.naijatax.ng"}, cfg.AllowedOrigins)
}

func TestRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"AI_BREAKER_TIMEOUT": "five minutes"}},
		{"zero rate", map[string]string{"AI_RATE_PER_MINUTE": "0"}},
		{"skip auth in production", map[string]string{"ENV": "production", "SKIP_AUTH": "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.env)
			assert.Error(t, err)
		})
	}
}
