package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"FICHA_ADDR", "ADMIN_API_TOKEN", "DATABASE_URL", "REDIS_URL", "SESSION_IDLE_TTL", "TRUSTED_PROXIES", "ADDRESS_LOOKUP_URL", "RATE_LIMIT_SESSION_OPEN_PER_MINUTE", "RATE_LIMIT_BRANDING_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "demo-hotel", cfg.DefaultTenantID)
	assert.Equal(t, "https://viacep.com.br", cfg.AddressLookupURL)
	assert.Equal(t, DefaultLicenseContactURL, cfg.LicenseContactURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, RateLimitConfig{SessionOpenPerMinute: 20, BrandingPerMinute: 60}, cfg.RateLimit)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FICHA_ADDR", ":9090")
	t.Setenv("SESSION_IDLE_TTL", "5m")
	t.Setenv("REDIS_POOL_SIZE", "42")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, bogus ,192.168.0.0/16")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("RATE_LIMIT_SESSION_OPEN_PER_MINUTE", "5")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 42, cfg.Redis.PoolSize)
	require.Len(t, cfg.TrustedProxies, 2)
	assert.Equal(t, "192.168.0.0/16", cfg.TrustedProxies[1].String())
	assert.Equal(t, 5, cfg.RateLimit.SessionOpenPerMinute)
	assert.True(t, cfg.IsProduction())
}

func TestFromEnvIgnoresInvalidDurations(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "soon")
	t.Setenv("REDIS_POOL_SIZE", "-3")

	cfg := FromEnv()

	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
