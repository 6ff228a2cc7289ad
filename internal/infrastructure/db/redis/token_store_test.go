package redis

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/homeops/portal/internal/core/domain"
)

func TestTokenStore_KeyFormat(t *testing.T) {
	s := NewTokenStore(nil, "", 0)
	if got := s.key("access_token"); got != "portal:token:default:access_token" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := NewTokenStore(nil, "staging", 0).key("refresh_token"); got != "portal:token:staging:refresh_token" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestTokenStore_InMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, hook := newMemoryClient()
	defer client.Close()
	s := NewTokenStore(client, "cli", 0)

	if _, err := s.Get(ctx, "access_token"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("missing key: expected ErrTokenNotFound, got %v", err)
	}
	if err := s.Set(ctx, "access_token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := hook.data["portal:token:cli:access_token"]; !ok {
		t.Fatalf("token stored under an unexpected key: %v", hook.data)
	}
	if v, err := s.Get(ctx, "access_token"); err != nil || v != "abc" {
		t.Fatalf("Get: %q %v", v, err)
	}
	if err := s.Delete(ctx, "access_token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "access_token"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("deleted key: expected ErrTokenNotFound, got %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestTokenStore_BackendErrorIsNotTokenNotFound(t *testing.T) {
	ctx := context.Background()
	client, hook := newMemoryClient()
	defer client.Close()
	hook.failWith = errors.New("LOADING Redis is loading the dataset in memory")
	s := NewTokenStore(client, "", 0)

	_, err := s.Get(ctx, "access_token")
	if err == nil || errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected a backend error, got %v", err)
	}
	if !strings.Contains(err.Error(), "redis get token") {
		t.Fatalf("error must name the operation: %v", err)
	}
	if err := s.Set(ctx, "access_token", "abc"); err == nil {
		t.Fatalf("expected Set to fail")
	}
}

// TestTokenStore_RoundTrip runs against a live server when REDIS_ADDR is set.
func TestTokenStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	s := NewTokenStore(client, "test-"+t.Name(), 0)
	if err := s.Set(ctx, "access_token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := s.Get(ctx, "access_token"); err != nil || v != "abc" {
		t.Fatalf("Get: %q %v", v, err)
	}
	if err := s.Delete(ctx, "access_token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "access_token"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}
