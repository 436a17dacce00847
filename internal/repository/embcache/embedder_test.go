package embcache

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	result, err := ce.Embed(context.Background(), "test text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, result.Embedding)
	assert.Equal(t, 10, result.TotalTokens)
	assert.Equal(t, 1, ms.sets)
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ms.data[ce.cacheKey("test text")] = vectorToCacheBytes([]float32{0.4, 0.5, 0.6})

	result, err := ce.Embed(context.Background(), "test text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, result.Embedding)
	assert.Zero(t, result.TotalTokens, "hits cost no tokens")
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	ce, ms := newTestCachedEmbedder(t, inner)

	_, err := ce.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Zero(t, ms.sets, "failed embeddings must not be cached")
}

func TestEmbed_StoreErrorsAreNotFatal(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ms.getErr = errors.New("timeout")
	ms.setErr = errors.New("timeout")

	_, err := ce.Embed(context.Background(), "x")
	assert.NoError(t, err, "cache failures fall through to the provider")
}

func TestCacheKey_ScopedByModel(t *testing.T) {
	a := New(nil, nil, "model-a", nil, zap.NewNop())
	b := New(nil, nil, "model-b", nil, zap.NewNop())

	assert.NotEqual(t, a.cacheKey("same text"), b.cacheKey("same text"))
	assert.Equal(t, a.cacheKey("same text"), a.cacheKey("same text"))
}

func TestBatchEmbed_AllMisses(t *testing.T) {
	inner := &mockEmbedder{}
	ce, ms := newTestCachedEmbedder(t, inner)

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 1}, {3, 1}}, res.Embeddings)
	assert.Equal(t, 3, res.TotalTokens)
	assert.Len(t, ms.data, 3)
}

func TestBatchEmbed_AllHits(t *testing.T) {
	inner := &mockEmbedder{}
	ce, ms := newTestCachedEmbedder(t, inner)
	for _, s := range []string{"a", "b"} {
		ms.data[ce.cacheKey(s)] = vectorToCacheBytes([]float32{9})
	}

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Zero(t, inner.batchCalls)
	assert.Equal(t, [][]float32{{9}, {9}}, res.Embeddings)
}

func TestBatchEmbed_MixedHitsMisses(t *testing.T) {
	inner := &mockEmbedder{}
	ce, ms := newTestCachedEmbedder(t, inner)
	ms.data[ce.cacheKey("bb")] = vectorToCacheBytes([]float32{42, 0})

	cacheTotal := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	ce.cacheTotal = cacheTotal

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)

	require.Equal(t, 1, inner.batchCalls)
	assert.Equal(t, []string{"a", "ccc"}, inner.batchSeen[0], "only misses are embedded")
	assert.Equal(t, [][]float32{{1, 1}, {42, 0}, {3, 1}}, res.Embeddings)
	assert.InDelta(t, 1, testutil.ToFloat64(cacheTotal.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(cacheTotal.WithLabelValues("miss")), 0)
}

func TestBatchEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{batchErr: errors.New("rate limited")}
	ce, _ := newTestCachedEmbedder(t, inner)

	_, err := ce.BatchEmbed(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestBatchEmbed_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockEmbedder{}
	ce, ms := newTestCachedEmbedder(t, inner)
	ms.data[ce.cacheKey("a")] = []byte{1, 2, 3}

	res, err := ce.BatchEmbed(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.batchCalls)
	assert.Equal(t, [][]float32{{1, 1}}, res.Embeddings)
}

func TestBatchEmbed_Empty(t *testing.T) {
	inner := &mockEmbedder{}
	ce, _ := newTestCachedEmbedder(t, inner)

	res, err := ce.BatchEmbed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Embeddings)
	assert.Zero(t, inner.batchCalls)
}

func TestBytesToVector_Roundtrip(t *testing.T) {
	in := []float32{0.5, -1.25, 3}
	out, err := bytesToVector(vectorToCacheBytes(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = bytesToVector([]byte{1})
	assert.Error(t, err, "truncated data")
}
