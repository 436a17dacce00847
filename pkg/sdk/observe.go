package jobmatch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels attached to SDK operation metrics.
const (
	outcomeOK            = "ok"
	outcomeNoText        = "no_text"
	outcomeUnreadable    = "unreadable"
	outcomeMalformed     = "malformed"
	outcomeNotReady      = "not_ready"
	outcomeEmptyCorpus   = "empty_corpus"
	outcomeProviderError = "provider_error"
	outcomeError         = "error"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	topScore   *prometheus.HistogramVec
	corpusRows *prometheus.GaugeVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobmatch",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK operations by operation, strategy and outcome.",
		}, []string{"operation", "strategy", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jobmatch",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "strategy"}),
		topScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jobmatch",
			Subsystem: "sdk",
			Name:      "top_score",
			Help:      "Best cosine score returned by successful match operations.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"operation", "strategy"}),
		corpusRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "jobmatch",
			Subsystem: "sdk",
			Name:      "corpus_rows",
			Help:      "Postings in the loaded corpus.",
		}, []string{"strategy"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.topScore); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.corpusRows); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("jobmatch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("jobmatch: register metric: %w", err)
	}
	return nil
}

// outcomeOf classifies err by the sentinel it wraps.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrNoExtractableText):
		return outcomeNoText
	case errors.Is(err, ErrDocumentUnreadable):
		return outcomeUnreadable
	case errors.Is(err, ErrMalformedInput):
		return outcomeMalformed
	case errors.Is(err, ErrIndexNotReady):
		return outcomeNotReady
	case errors.Is(err, ErrEmptyCorpus):
		return outcomeEmptyCorpus
	case errors.Is(err, ErrEmbeddingProviderError):
		return outcomeProviderError
	default:
		return outcomeError
	}
}

// observer provides logging and metrics for SDK operations of one strategy.
type observer struct {
	logger   *slog.Logger
	metrics  *sdkMetrics
	strategy string
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer, strategy string) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m, strategy: strategy}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	outcome := outcomeOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, o.strategy, outcome).Inc()
		o.metrics.duration.WithLabelValues(op, o.strategy).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch outcome {
	case outcomeOK:
		o.logger.Debug("operation completed", "op", op, "strategy", o.strategy, "duration", dur)
	case outcomeError, outcomeProviderError:
		o.logger.Error("operation failed", "op", op, "strategy", o.strategy, "outcome", outcome, "duration", dur, "error", err)
	default:
		// Caller-side problems: bad input or a corpus that is not serving yet.
		o.logger.Warn("operation rejected", "op", op, "strategy", o.strategy, "outcome", outcome, "error", err)
	}
}

// observeScore records the best score of a successful match.
func (o *observer) observeScore(op string, score float64) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.topScore.WithLabelValues(op, o.strategy).Observe(score)
}

// observeCorpus records the size of a freshly loaded corpus.
func (o *observer) observeCorpus(rows int) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.corpusRows.WithLabelValues(o.strategy).Set(float64(rows))
	}
	if o.logger != nil {
		o.logger.Info("corpus loaded", "strategy", o.strategy, "rows", rows)
	}
}
