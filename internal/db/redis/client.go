// Package redis implements db.Store on Valkey or Redis through rueidis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/jobmatch/internal/db"
)

var _ db.Store = (*Store)(nil)

// clientName identifies cache connections in CLIENT LIST.
const clientName = "jobmatch"

// Ping backoff bounds for WaitForReady.
const (
	minReadyBackoff = 50 * time.Millisecond
	maxReadyBackoff = time.Second
)

// Config holds connection parameters for the embedding cache.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// Standalone skips cluster topology discovery.
	Standalone bool
}

// Store is a key-value cache on a rueidis client.
type Store struct {
	client rueidis.Client
}

// NewStore connects to the cache.
func NewStore(cfg Config) (*Store, error) {
	opt, err := clientOption(cfg)
	if err != nil {
		return nil, err
	}
	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return newStore(client), nil
}

func newStore(c rueidis.Client) *Store {
	return &Store{client: c}
}

func clientOption(cfg Config) (rueidis.ClientOption, error) {
	if len(cfg.Addrs) == 0 {
		return rueidis.ClientOption{}, errors.New("cache addrs is required")
	}
	return rueidis.ClientOption{
		InitAddress:       cfg.Addrs,
		Username:          cfg.Username,
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		ClientName:        clientName,
		ForceSingleClient: cfg.Standalone,
		// Cached embeddings are immutable; server-assisted client caching
		// would only duplicate them in process memory.
		DisableCache: true,
	}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with exponential backoff until the store answers or
// timeout expires. The last ping error is returned on timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	backoff := minReadyBackoff
	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &db.Error{Op: db.OpConnect, Err: errors.Join(ctx.Err(), err)}
		case <-timer.C:
		}
		backoff = min(backoff*2, maxReadyBackoff)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
