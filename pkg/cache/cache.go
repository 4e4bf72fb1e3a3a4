package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTLs. Both backends treat
// a missing key as a miss, never an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a cache backend.
type Config struct {
	Enabled bool   `yaml:"enabled" env:"CACHE_ENABLED"`
	Backend string `yaml:"backend" env:"CACHE_BACKEND"`

	// Redis connection settings, ignored by the memory backend.
	Addr         string `yaml:"addr" env:"CACHE_REDIS_ADDR"`
	Password     string `yaml:"password" env:"CACHE_REDIS_PASSWORD"`
	DB           int    `yaml:"db" env:"CACHE_REDIS_DB"`
	PoolSize     int    `yaml:"pool_size" env:"CACHE_REDIS_POOL_SIZE"`
	MinIdleConns int    `yaml:"min_idle_conns" env:"CACHE_REDIS_MIN_IDLE_CONNS"`

	KeyPrefix  string        `yaml:"key_prefix" env:"CACHE_KEY_PREFIX"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL"`
}

// GetDefaultConfig returns the default cache configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		Backend:      "memory",
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "exampulse:",
		DefaultTTL:   10 * time.Minute,
	}
}

// New creates the cache backend named by the configuration.
func New(config *Config) (Cache, error) {
	if config == nil {
		config = GetDefaultConfig()
	}

	switch config.Backend {
	case "", "memory":
		return NewMemoryCache(config.DefaultTTL), nil
	case "redis":
		return NewRedisCache(config)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", config.Backend)
	}
}
