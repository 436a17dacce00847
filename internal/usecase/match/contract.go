package match

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/usecase/corpus"
	"github.com/kailas-cloud/jobmatch/internal/vectorspace"
)

// CorpusProvider hands out the shared read-only corpus.
type CorpusProvider interface {
	Snapshot() (*corpus.Snapshot, error)
}

// Strategy fits a vector space; used for single-reference requests.
type Strategy interface {
	Name() string
	Fit(ctx context.Context, corpus []string) (vectorspace.Projector, [][]float32, error)
}
