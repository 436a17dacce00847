package jobmatch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	source    string // "csv", "parquet" or "sql"
	path      string
	sqlDriver string
	sqlDSN    string
	sqlQuery  string
	idColumn  string

	maxFeatures int
	embedder    Embedder
	batchSize   int
	concurrency int

	topK          int
	skillKeywords bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func (c *clientConfig) strategyName() string {
	if c.embedder != nil {
		return StrategyDense
	}
	return StrategySparse
}

// WithCSV loads the corpus from a CSV file with a header row.
func WithCSV(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "csv"
		c.path = path
	})
}

// WithParquet loads the corpus from a Parquet file.
func WithParquet(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "parquet"
		c.path = path
	})
}

// WithSQL loads the corpus with a query against a database/sql driver
// ("sqlite" or "pgx"). An empty query selects every row of the postings table.
func WithSQL(driver, dsn, query string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "sql"
		c.sqlDriver = driver
		c.sqlDSN = dsn
		c.sqlQuery = query
	})
}

// WithIDColumn names the column holding posting ids. Defaults to "job_id".
func WithIDColumn(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.idColumn = name
	})
}

// WithMaxFeatures bounds the sparse vocabulary. Default: 5000.
func WithMaxFeatures(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxFeatures = n
	})
}

// WithEmbedder switches matching to the dense strategy backed by e.
// If e also implements BatchEmbedder, the corpus is embedded in batches.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithEmbeddingBatch sets the dense batch size and the number of batches
// embedded in parallel while fitting the corpus.
func WithEmbeddingBatch(size, concurrency int) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchSize = size
		c.concurrency = concurrency
	})
}

// WithTopK sets the number of ranked postings. Default: 5.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithSkillKeywords diffs keywords against posting title and skills only,
// instead of the full posting text.
func WithSkillKeywords() Option {
	return optionFunc(func(c *clientConfig) {
		c.skillKeywords = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
