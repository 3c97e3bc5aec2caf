// AngelaMos | 2026
// redis.go

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/tierboard/internal/core"
)

const redisKeyPrefix = "session:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(
	ctx context.Context,
	id, username string,
	ttl time.Duration,
) error {
	if err := s.client.Set(ctx, redisKeyPrefix+id, username, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	username, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get session: %w", core.ErrSessionInvalid)
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return username, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
