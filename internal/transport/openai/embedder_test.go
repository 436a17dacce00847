package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingItem `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func newTestServer(t *testing.T, tokens int, items ...embeddingItem) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := embeddingResponse{Object: "list", Model: "test-model", Data: items}
		resp.Usage.PromptTokens = tokens
		resp.Usage.TotalTokens = tokens

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestEmbedder(baseURL string) *Embedder {
	return NewEmbedder(&Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})
}

func TestEmbedder_Embed(t *testing.T) {
	expectedVec := []float32{0.1, 0.2, 0.3, 0.4}
	server := newTestServer(t, 10, embeddingItem{Object: "embedding", Embedding: expectedVec})

	result, err := newTestEmbedder(server.URL).Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, expectedVec, result.Embedding)
	assert.Equal(t, 10, result.TotalTokens)
	assert.Equal(t, 10, result.PromptTokens)
}

func TestEmbedder_BatchEmbed_OrdersByIndex(t *testing.T) {
	server := newTestServer(t, 20,
		embeddingItem{Object: "embedding", Embedding: []float32{0.3, 0.4}, Index: 1},
		embeddingItem{Object: "embedding", Embedding: []float32{0.1, 0.2}, Index: 0},
	)

	result, err := newTestEmbedder(server.URL).BatchEmbed(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, result.Embeddings)
	assert.Equal(t, 20, result.TotalTokens)
}

func TestEmbedder_BatchEmbed_Empty(t *testing.T) {
	result, err := newTestEmbedder("http://unused").BatchEmbed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, result.Embeddings)
}

func TestEmbedder_BatchEmbed_CountMismatch(t *testing.T) {
	server := newTestServer(t, 5, embeddingItem{Object: "embedding", Embedding: []float32{0.1}})

	_, err := newTestEmbedder(server.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingProviderError)
}

func TestEmbedder_BatchEmbed_DuplicateIndex(t *testing.T) {
	server := newTestServer(t, 5,
		embeddingItem{Object: "embedding", Embedding: []float32{0.1}, Index: 0},
		embeddingItem{Object: "embedding", Embedding: []float32{0.2}, Index: 0},
	)

	_, err := newTestEmbedder(server.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestEmbedder_EmptyResponse(t *testing.T) {
	server := newTestServer(t, 0)

	_, err := newTestEmbedder(server.URL).Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrEmbeddingProviderError)
}

func TestEmbedder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "input too long",
				"type":    "invalid_request_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestEmbedder(server.URL).Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrEmbeddingProviderError)
}

func TestExtractDetail(t *testing.T) {
	assert.Equal(t, "model not found", extractDetail([]byte(`{"detail":"model not found"}`)))
	assert.Empty(t, extractDetail([]byte(`not json`)))
}
