// AngelaMos | 2026
// store.go

package session

import (
	"context"
	"time"
)

// Store maps session ids to usernames with an explicit expiry. Get returns
// core.ErrSessionInvalid for unknown or expired ids.
type Store interface {
	Set(ctx context.Context, id, username string, ttl time.Duration) error
	Get(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}
