// Package db defines the key-value store used by the embedding cache.
package db

import (
	"context"
	"time"
)

// Store is the database facade the service depends on.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVItem holds a single key+value pair for pipelined SET.
type KVItem struct {
	Key   string
	Value []byte
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns one entry per key; missing keys yield nil.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetMultiWithTTL(ctx context.Context, items []KVItem, ttl time.Duration) error
}
