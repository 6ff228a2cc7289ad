package ports

import "context"

// TokenStore persists opaque session strings under fixed keys.
// Get returns domain.ErrTokenNotFound when nothing is stored under key.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by dependencies that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
