// Package app wires configuration into the matching services. Both the HTTP
// server and the CLI build on it.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/config"
	"github.com/kailas-cloud/jobmatch/internal/db"
	dbRedis "github.com/kailas-cloud/jobmatch/internal/db/redis"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	"github.com/kailas-cloud/jobmatch/internal/repository/embcache"
	"github.com/kailas-cloud/jobmatch/internal/repository/postings"
	openaiEmb "github.com/kailas-cloud/jobmatch/internal/transport/openai"
	"github.com/kailas-cloud/jobmatch/internal/transport/pdf"
	"github.com/kailas-cloud/jobmatch/internal/usecase/corpus"
	embeddinguc "github.com/kailas-cloud/jobmatch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	matchuc "github.com/kailas-cloud/jobmatch/internal/usecase/match"
	"github.com/kailas-cloud/jobmatch/internal/vectorspace"
)

// App holds the wired services.
type App struct {
	Config    config.Config
	Corpus    *corpus.Service
	Matcher   *matchuc.Service
	Health    *healthuc.Service
	Extractor *pdf.Extractor

	store  db.Store
	logger *zap.Logger
}

// New builds the service graph. The corpus is not loaded yet; call LoadCorpus.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, logger: logger}

	loader, err := NewLoader(cfg.Corpus)
	if err != nil {
		return nil, err
	}

	var embedder domain.Embedder
	var strategy vectorspace.Strategy
	switch cfg.Vectorizer.Strategy {
	case vectorspace.StrategySparse:
		strategy = vectorspace.NewSparse(cfg.Vectorizer.MaxFeatures)
	case vectorspace.StrategyDense:
		a.store = a.connectCache(ctx)
		embedder = a.buildEmbedder()
		strategy = vectorspace.NewDense(embedder, logger,
			vectorspace.WithBatchSize(cfg.Embedding.BatchSize),
			vectorspace.WithConcurrency(cfg.Vectorizer.FitConcurrency),
		)
	default:
		return nil, fmt.Errorf("unknown vectorizer strategy %q", cfg.Vectorizer.Strategy)
	}

	a.Corpus = corpus.New(loader, strategy, cfg.Corpus.IDColumn, logger)
	a.Matcher = matchuc.New(a.Corpus, strategy).
		WithTopK(cfg.Matching.TopK).
		WithKeywordSource(matchuc.KeywordSource(cfg.Matching.KeywordSource))
	a.Extractor = pdf.NewExtractor(logger)

	// Pass nil interfaces, not typed nil pointers, for absent dependencies.
	var cache healthuc.CachePinger
	if a.store != nil {
		cache = a.store
	}
	var embCheck healthuc.EmbeddingChecker
	if hc, ok := embedder.(domain.HealthChecker); ok {
		embCheck = hc
	}
	a.Health = healthuc.New(a.Corpus, cache, embCheck)

	return a, nil
}

// LoadCorpus loads and vectorizes the corpus within the configured fit timeout.
func (a *App) LoadCorpus(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.Config.Vectorizer.FitTimeoutSec)*time.Second)
	defer cancel()
	return a.Corpus.Load(ctx)
}

// Close releases external connections.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// NewLoader selects the corpus loader for the configured source.
func NewLoader(cfg config.CorpusConfig) (corpus.Loader, error) {
	switch cfg.Source {
	case "csv":
		return postings.NewCSV(cfg.Path), nil
	case "parquet":
		return postings.NewParquet(cfg.Path), nil
	case "sql":
		return postings.NewSQL(cfg.SQL.Driver, cfg.SQL.DSN, cfg.SQL.Query), nil
	default:
		return nil, fmt.Errorf("unknown corpus source %q", cfg.Source)
	}
}

// connectCache returns nil when the cache is disabled or unreachable; the
// dense strategy then calls the provider directly.
func (a *App) connectCache(ctx context.Context) db.Store {
	cfg := a.Config.Cache
	if !cfg.Enabled {
		return nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Addrs,
		Password:   cfg.Password,
		Standalone: cfg.Standalone,
	})
	if err != nil {
		a.logger.Warn("Embedding cache disabled", zap.Error(err))
		return nil
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		a.logger.Warn("Embedding cache not ready, continuing without it",
			zap.Strings("addrs", cfg.Addrs), zap.Error(err))
		store.Close()
		return nil
	}
	a.logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Addrs))
	return store
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func (a *App) buildEmbedder() domain.Embedder {
	cfg := a.Config.Embedding
	metrics.RegisterEmbeddingMetrics()

	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Logger:     a.logger,
	})

	if a.store != nil {
		embedder = embcache.New(embedder, a.store, cfg.Model, metrics.EmbeddingCacheTotal, a.logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, "openai", cfg.Model, cfg.BatchSize, a.logger)

	a.logger.Info("Embedder created",
		zap.String("model", cfg.Model),
		zap.Int("dimensions", cfg.Dimensions),
		zap.Bool("cache", a.store != nil),
	)
	return embedder
}
