package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV, default=development"`
	Port      string `env:"PORT, default=8080"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	API    APIConfig
	Tokens TokenStoreConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

// APIConfig describes the remote portal backend.
type APIConfig struct {
	BaseURL string `env:"PORTAL_API_URL, default=http://localhost:8000/api"`
	// AuthScheme is "bearer" or the deprecated "token".
	AuthScheme string        `env:"PORTAL_AUTH_SCHEME, default=bearer"`
	Timeout    time.Duration `env:"PORTAL_API_TIMEOUT, default=30s"`
	// RateLimit caps outbound requests per second; 0 disables the limiter.
	RateLimit float64 `env:"PORTAL_API_RPS, default=0"`
	Burst     int     `env:"PORTAL_API_BURST, default=1"`
	// LegacyAuthFallback retries /login and /signup when /auth/* answers 404.
	LegacyAuthFallback bool `env:"PORTAL_LEGACY_AUTH, default=false"`
}

// TokenStoreConfig selects where the session token is persisted.
type TokenStoreConfig struct {
	Kind      string `env:"TOKEN_STORE, default=file"`
	Path      string `env:"TOKEN_FILE, default=.portal/credentials.yaml"`
	Namespace string `env:"TOKEN_NAMESPACE, default=default"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.API.AuthScheme {
	case "bearer", "token":
	default:
		return fmt.Errorf("PORTAL_AUTH_SCHEME must be bearer or token, got %q", c.API.AuthScheme)
	}
	switch c.Tokens.Kind {
	case "file", "memory", "redis", "mongo":
	default:
		return fmt.Errorf("TOKEN_STORE must be one of file, memory, redis, mongo, got %q", c.Tokens.Kind)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("PORTAL_API_RPS must not be negative")
	}
	return nil
}
