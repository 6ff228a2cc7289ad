// Package redis stores session tokens in Redis so several gateway replicas
// and CLI hosts can share one login.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

const connectTimeout = 5 * time.Second

type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect opens a client and pings it before handing it out.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// TokenStore keeps tokens under portal:token:<namespace>:<key>.
type TokenStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

var (
	_ ports.TokenStore = (*TokenStore)(nil)
	_ ports.Pinger     = (*TokenStore)(nil)
)

// NewTokenStore wraps client. A zero ttl keeps tokens until they are deleted.
func NewTokenStore(client *redis.Client, namespace string, ttl time.Duration) *TokenStore {
	if namespace == "" {
		namespace = "default"
	}
	return &TokenStore{client: client, namespace: namespace, ttl: ttl}
}

func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return v, nil
}

func (s *TokenStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete token: %w", err)
	}
	return nil
}

func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *TokenStore) key(key string) string {
	return fmt.Sprintf("portal:token:%s:%s", s.namespace, key)
}
