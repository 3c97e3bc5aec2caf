// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/tierboard/internal/config"
)

// Redis wraps the go-redis client shared by the session store and the
// rate limiter.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // cleanup on connection failure
		return nil, fmt.Errorf("ping redis: %w: %w", ErrUnavailable, err)
	}

	return &Redis{Client: client}, nil
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w: %w", ErrUnavailable, err)
	}

	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}
