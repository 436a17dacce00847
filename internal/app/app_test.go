package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/config"
	"github.com/kailas-cloud/jobmatch/internal/usecase/corpus"
	"github.com/kailas-cloud/jobmatch/internal/vectorspace"
)

const postingsCSV = `job_id,title,company_name,skills_desc
1,Python Developer,Acme,backend
2,Nurse,Clinic,hospital care
3,Senior Python Engineer,Initech,backend systems
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "postings.csv")
	require.NoError(t, os.WriteFile(path, []byte(postingsCSV), 0o600))

	cfg := config.Config{
		HTTP:   config.HTTPConfig{Port: 8080},
		Corpus: config.CorpusConfig{Source: "csv", Path: path},
	}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNew_SparseEndToEnd(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, corpus.Uninitialized, a.Corpus.Status().State)
	require.NoError(t, a.LoadCorpus(context.Background()))
	assert.Equal(t, corpus.Ready, a.Corpus.Status().State)

	report, err := a.Matcher.Match(context.Background(), "python backend engineer")
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	p := report.Results[0].Posting()
	assert.Equal(t, "3", p.ID())

	h := a.Health.Check(context.Background())
	assert.True(t, h.Ready)
	assert.NotContains(t, h.Checks, "cache")
	assert.NotContains(t, h.Checks, "embedding")
}

func TestLoadCorpus_MissingFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Corpus.Path = filepath.Join(t.TempDir(), "missing.csv")

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	require.Error(t, a.LoadCorpus(context.Background()))
	assert.Equal(t, corpus.Failed, a.Corpus.Status().State)
	assert.False(t, a.Health.Check(context.Background()).Ready)
}

func TestNewLoader(t *testing.T) {
	for _, src := range []string{"csv", "parquet", "sql"} {
		l, err := NewLoader(config.CorpusConfig{Source: src, Path: "x", SQL: config.SQLConfig{Driver: "sqlite", DSN: "x"}})
		require.NoError(t, err, src)
		assert.NotNil(t, l)
	}
	_, err := NewLoader(config.CorpusConfig{Source: "xlsx"})
	require.Error(t, err)
}

// bagOfLetters embeds text as counts of the letters a..d, so similar words
// produce similar vectors.
func bagOfLetters(s string) []float32 {
	v := make([]float32, 4)
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'd' {
			v[r-'a']++
		}
	}
	v[3] += 0.01
	return v
}

func TestNew_DenseEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		type item struct {
			Object    string    `json:"object"`
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		resp := struct {
			Object string `json:"object"`
			Data   []item `json:"data"`
			Model  string `json:"model"`
		}{Object: "list", Model: "test-model"}
		for i, in := range req.Input {
			resp.Data = append(resp.Data, item{Object: "embedding", Embedding: bagOfLetters(in), Index: i})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Vectorizer.Strategy = vectorspace.StrategyDense
	cfg.Embedding.Provider.BaseURL = server.URL
	cfg.Embedding.BatchSize = 2
	require.NoError(t, cfg.Validate())

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.LoadCorpus(context.Background()))
	st := a.Corpus.Status()
	assert.Equal(t, vectorspace.StrategyDense, st.Strategy)
	assert.Equal(t, 4, st.Dimensions)

	report, err := a.Matcher.Match(context.Background(), "nurse hospital care")
	require.NoError(t, err)
	require.NotEmpty(t, report.Results)
	assert.Equal(t, vectorspace.StrategyDense, report.Strategy)

	ref, err := a.Matcher.MatchReference(context.Background(), "abc", "abc")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ref.Score, 1e-6)
}
