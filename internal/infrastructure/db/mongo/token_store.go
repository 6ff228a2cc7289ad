// Package mongo stores session tokens in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

const (
	connectTimeout  = 10 * time.Second
	tokenCollection = "portal_tokens"
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect opens a client, pings it and returns the configured database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// TokenStore keeps one document per namespace and key.
type TokenStore struct {
	coll      *mongo.Collection
	namespace string
}

var (
	_ ports.TokenStore = (*TokenStore)(nil)
	_ ports.Pinger     = (*TokenStore)(nil)
)

type tokenDoc struct {
	ID        string    `bson:"_id"`
	Namespace string    `bson:"namespace"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewTokenStore(db *mongo.Database, namespace string) *TokenStore {
	if namespace == "" {
		namespace = "default"
	}
	return &TokenStore{coll: db.Collection(tokenCollection), namespace: namespace}
}

func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	var doc tokenDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": docID(s.namespace, key)}).Decode(&doc); err != nil {
		return "", findError(err)
	}
	return doc.Value, nil
}

// findError turns a missing document into domain.ErrTokenNotFound.
func findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrTokenNotFound
	}
	return fmt.Errorf("find token: %w", err)
}

func (s *TokenStore) Set(ctx context.Context, key, value string) error {
	doc := tokenDoc{
		ID:        docID(s.namespace, key),
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": docID(s.namespace, key)}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *TokenStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func docID(namespace, key string) string {
	return namespace + "/" + key
}
