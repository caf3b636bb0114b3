package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Storage.Get for absent keys.
var ErrKeyNotFound = errors.New("storage: key not found")

// Storage is durable client-side key/value storage for the credential and
// the serialized identity.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Serializer runs fn with no other job for the same key in flight.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}
