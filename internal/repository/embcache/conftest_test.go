package embcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/db"
	"github.com/kailas-cloud/jobmatch/internal/domain"
)

type mockEmbedder struct {
	result     domain.EmbeddingResult
	err        error
	batchErr   error
	batchCalls int
	batchSeen  [][]string
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchSeen = append(m.batchSeen, texts)
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	embeddings := make([][]float32, len(texts))
	for i, t := range texts {
		embeddings[i] = []float32{float32(len(t)), 1}
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: len(texts),
		TotalTokens:  len(texts),
	}, nil
}

// memStore is an in-memory KV store for tests.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) SetMultiWithTTL(_ context.Context, items []db.KVItem, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets += len(items)
	if m.setErr != nil {
		return m.setErr
	}
	for _, it := range items {
		m.data[it.Key] = it.Value
	}
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedEmbedder, *memStore) {
	t.Helper()
	ms := newMemStore()
	ce := New(inner, ms, "test-model", nil, zap.NewNop())
	return ce, ms
}
