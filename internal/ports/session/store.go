package session

import (
	"context"
	"time"
)

// SessionStore remembers session tokens that were explicitly ended before expiry.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Session is a verified session token.
type Session struct {
	ID        string
	ExpiresAt time.Time
}
