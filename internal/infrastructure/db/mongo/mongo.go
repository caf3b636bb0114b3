// Package mongo stores the persisted session in a MongoDB collection, one
// document per key, scoped by profile.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/storefront/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

var (
	_ ports.Storage = (*Storage)(nil)
	_ ports.Pinger  = (*Storage)(nil)
)

// Config captures the settings required to reach the session collection.
type Config struct {
	URI        string
	Database   string
	Collection string
	Profile    string
	Timeout    time.Duration
}

type sessionDoc struct {
	ID        string `bson:"_id"`
	Profile   string `bson:"profile"`
	Key       string `bson:"key"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

// Storage implements ports.Storage over one collection.
type Storage struct {
	client  *mongo.Client
	coll    *mongo.Collection
	profile string
	now     func() time.Time
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns storage bound to the configured collection. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*Storage, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Storage{
		client:  client,
		coll:    client.Database(cfg.Database).Collection(cfg.Collection),
		profile: cfg.Profile,
		now:     time.Now,
	}, nil
}

func (s *Storage) docID(key string) string {
	return s.profile + ":" + key
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.docID(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ports.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo get %s: %w", key, err)
	}
	return doc.Value, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	doc := sessionDoc{
		ID:        s.docID(key),
		Profile:   s.profile,
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().Unix(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = s.docID(k)
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
