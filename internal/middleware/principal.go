// AngelaMos | 2026
// principal.go

package middleware

import (
	"context"
)

const principalHolderKey contextKey = "principal_holder"

// principalHolder lets the outer Logger see the username that the inner
// Authenticator resolved, since context values only flow inward.
type principalHolder struct {
	username string
}

func withPrincipalHolder(ctx context.Context, h *principalHolder) context.Context {
	return context.WithValue(ctx, principalHolderKey, h)
}

func recordPrincipal(ctx context.Context, username string) {
	if h, ok := ctx.Value(principalHolderKey).(*principalHolder); ok {
		h.username = username
	}
}
