// AngelaMos | 2026
// memory.go

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/carterperez-dev/tierboard/internal/core"
)

const defaultSweepInterval = 10 * time.Minute

// MemoryStore keeps sessions in process. It suits tests and single-node
// development; sessions are lost on restart. A janitor goroutine evicts
// expired entries every sweep interval.
type MemoryStore struct {
	entries *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithSweep(defaultSweepInterval)
}

func NewMemoryStoreWithSweep(interval time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: cache.New(cache.NoExpiration, interval),
	}
}

func (s *MemoryStore) Set(
	_ context.Context,
	id, username string,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		return fmt.Errorf("set session: ttl must be positive")
	}
	s.entries.Set(id, username, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (string, error) {
	v, ok := s.entries.Get(id)
	if !ok {
		return "", fmt.Errorf("get session: %w", core.ErrSessionInvalid)
	}

	username, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("get session: %w", core.ErrSessionInvalid)
	}

	return username, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.entries.Delete(id)
	return nil
}

// Len reports the number of stored entries, expired ones not yet swept
// included.
func (s *MemoryStore) Len() int {
	return s.entries.ItemCount()
}

var _ Store = (*MemoryStore)(nil)
