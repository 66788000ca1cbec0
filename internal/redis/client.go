package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client
type Client struct {
	*redis.Client
	lockTTL time.Duration
}

// Config holds Redis configuration. Fields are read from REDIS_* variables;
// an empty Addr disables Redis.
type Config struct {
	Addr        string        `env:"ADDR"`
	Password    string        `env:"PASSWORD"`
	DB          int           `env:"DB" envDefault:"0"`
	PoolSize    int           `env:"POOL_SIZE" envDefault:"10"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"10s"`
	LockTTL     time.Duration `env:"LOCK_TTL" envDefault:"5s"`
}

// Enabled reports whether a Redis address is configured.
func (c *Config) Enabled() bool {
	return c.Addr != ""
}

// NewClient creates a new Redis client with the provided configuration
func NewClient(config *Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("[Redis] Connected to %s (DB: %d)", config.Addr, config.DB)
	log.Printf("[Redis] Pool config: PoolSize=%d, LockTTL=%s", config.PoolSize, config.LockTTL)

	ttl := config.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Client{Client: rdb, lockTTL: ttl}, nil
}
