package cache

import (
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"scs-go/internal/config"
	"scs-go/internal/scs"
)

// redisKeyPrefix namespaces cache keys on a shared Redis server.
const redisKeyPrefix = "scs:"

// NewCacheFromConfig creates a Cache implementation based on the cache config type.
func NewCacheFromConfig(cfg config.CacheConfig) (scs.Cache, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryCache(), nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite cache")
		}
		c, err := NewSQLiteCache(filepath.Join(cfg.DataDir, "cache.db"))
		if err != nil {
			return nil, err
		}
		return c, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache requires redis_addr to be set")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisCache(client, redisKeyPrefix), nil
	case "filesystem":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for filesystem cache")
		}
		c, err := NewFileSystemCache(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}
