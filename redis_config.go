package salesbase

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisOptions returns redis.Options populated from standard environment variables.
//
// Environment variables read (with defaults):
//   - REDIS_ADDR (default: "localhost:6379")
//   - REDIS_PASSWORD (default: "")
//   - REDIS_DB (default: 0)
//
// This is a convenience function for production deployments following 12-factor
// app principles. It provides sensible defaults for local development while
// allowing production configuration via environment variables.
//
// For more complex setups (Redis Cluster, Sentinel, custom TLS, connection
// pools), construct redis.Options directly.
func RedisOptions() *redis.Options {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("REDIS_PASSWORD")

	db := getEnvAsInt("REDIS_DB", 0)

	return &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
}

// RedisOptionsWithOverrides returns redis.Options with explicit overrides for
// common parameters. Pass empty strings to fall back to environment variables.
func RedisOptionsWithOverrides(addr, password string, poolSize, minIdleConns int) *redis.Options {
	// Start with environment-based config
	opts := RedisOptions()

	// Override with explicit values if provided
	if addr != "" {
		opts.Addr = addr
	}
	if password != "" {
		opts.Password = password
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	if minIdleConns > 0 {
		opts.MinIdleConns = minIdleConns
	}

	return opts
}

// getEnvAsInt reads an integer environment variable with a default fallback.
func getEnvAsInt(key string, defaultVal int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultVal
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultVal
	}

	return value
}
