package config

import (
    "strings"
    "time"
)

// Cache key strategies understood by middleware.NewRedisCache.
const (
    CacheKeyRoute      = "route"       // route pattern and path params
    CacheKeyRouteQuery = "route_query" // plus the raw query string
)

// CacheConfig drives the Redis response cache in front of the public hotel
// catalogue (list, detail, rooms).  Only anonymous requests are cached.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool // upper-case HTTP methods eligible for caching
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int // responses larger than this are served but not stored
}

// LoadCacheConfig reads the CACHE_* variables.
func LoadCacheConfig() CacheConfig {
    cc := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      map[string]bool{},
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  strings.ToLower(getenv("CACHE_KEY_STRATEGY", CacheKeyRouteQuery)),
        Prefix:       getenv("CACHE_PREFIX", "hotels:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    for _, m := range splitList(getenv("CACHE_METHODS", "GET")) {
        cc.Methods[strings.ToUpper(m)] = true
    }
    if cc.TTL <= 0 {
        cc.Enabled = false
    }
    if cc.KeyStrategy != CacheKeyRoute {
        cc.KeyStrategy = CacheKeyRouteQuery
    }
    return cc
}
