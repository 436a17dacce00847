package health

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/usecase/corpus"
)

// CorpusReporter exposes corpus readiness.
type CorpusReporter interface {
	Status() corpus.Status
}

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
