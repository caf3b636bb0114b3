package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/99minutos/storefront/internal/core/ports"
	"github.com/99minutos/storefront/internal/infrastructure/db/mongo"
	"github.com/99minutos/storefront/internal/infrastructure/db/redis"
	"github.com/99minutos/storefront/internal/pkg/config"
)

// Backend is an opened session store. Close releases network clients and is
// a no-op for local backends.
type Backend struct {
	ports.Storage
	Name   string
	closer io.Closer
}

func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// Ping checks reachability when the underlying store supports it.
func (b *Backend) Ping(ctx context.Context) error {
	if p, ok := b.Storage.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Open builds the backend named by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return &Backend{Storage: NewMemory(), Name: config.StorageMemory}, nil
	case config.StorageFile:
		path, err := cfg.SessionPath()
		if err != nil {
			return nil, err
		}
		return &Backend{Storage: NewFile(path), Name: config.StorageFile}, nil
	case config.StorageRedis:
		s, err := redis.Connect(ctx, redis.Config{
			Addr:   cfg.Redis.Addr,
			DB:     cfg.Redis.DB,
			Prefix: cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{Storage: s, Name: config.StorageRedis, closer: s}, nil
	case config.StorageMongo:
		s, err := mongo.Connect(ctx, mongo.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
			Profile:    cfg.Mongo.Profile,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{Storage: s, Name: config.StorageMongo, closer: s}, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Storage.Backend)
	}
}
