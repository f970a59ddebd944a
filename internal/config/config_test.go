package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
    t.Helper()
    t.Setenv("APP_PORT", "10888")
    t.Setenv("DB_USER", "hotel")
    t.Setenv("DB_HOST", "127.0.0.1")
    t.Setenv("DB_PORT", "3306")
    t.Setenv("DB_NAME", "hotels")
    t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
    setRequired(t)

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, "10888", cfg.Port)
    assert.Equal(t, "s3cret", cfg.JWTSecret)
    assert.Equal(t, 60, cfg.TokenTTLMin)
    assert.Equal(t, 10, cfg.BcryptCost)
    assert.Equal(t, "./public/images", cfg.Upload.Dir)
    assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
    assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
    assert.False(t, cfg.BookingConsumerEnabled)
}

func TestLoadMissingSecretFails(t *testing.T) {
    setRequired(t)
    t.Setenv("JWT_SECRET", "")
    t.Setenv("DB_NAME", "")

    _, err := Load()
    require.Error(t, err)
    assert.Contains(t, err.Error(), "JWT_SECRET")
    assert.Contains(t, err.Error(), "DB_NAME")
}

func TestLoadRejectsBadCost(t *testing.T) {
    setRequired(t)
    t.Setenv("BCRYPT_COST", "2")

    _, err := Load()
    assert.Error(t, err)
}

func TestLoadCORSList(t *testing.T) {
    setRequired(t)
    t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestRateLimitClamps(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    rl := LoadRateLimitConfig()
    assert.Equal(t, 1, rl.Capacity)
    assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestCacheConfigMethods(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    cc := LoadCacheConfig()
    assert.True(t, cc.Methods["GET"])
    assert.True(t, cc.Methods["HEAD"])
    assert.False(t, cc.Methods["POST"])
}

func TestCacheConfigStrategyAndTTL(t *testing.T) {
    t.Setenv("CACHE_KEY_STRATEGY", "bogus")
    t.Setenv("CACHE_TTL", "0s")
    cc := LoadCacheConfig()
    assert.Equal(t, CacheKeyRouteQuery, cc.KeyStrategy)
    assert.False(t, cc.Enabled)
}

func TestRedisOptionsHostPort(t *testing.T) {
    t.Setenv("REDIS_ADDR", "ignored:1")
    t.Setenv("REDIS_HOST", "cache")
    t.Setenv("REDIS_PORT", "6380")
    t.Setenv("REDIS_DB", "2")
    t.Setenv("REDIS_TLS", "yes")

    o := RedisOptions()
    assert.Equal(t, "cache:6380", o.Addr)
    assert.Equal(t, 2, o.DB)
    assert.NotNil(t, o.TLSConfig)
}
