package metrics

import "github.com/prometheus/client_golang/prometheus"

// Corpus and matching metrics.
var (
	CorpusReady = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "corpus_ready",
		Help:      "1 when the corpus index is serving, 0 otherwise",
	})

	CorpusDocuments = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "corpus_documents",
		Help:      "Number of postings in the corpus index",
	})

	MatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Matching pipeline duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(CorpusReady, CorpusDocuments, MatchDuration)
}
