package corpus

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/repository/postings"
	"github.com/kailas-cloud/jobmatch/internal/vectorspace"
)

// Loader reads the raw corpus table.
type Loader interface {
	Load(ctx context.Context) (postings.Table, error)
}

// Strategy fits the vector space over canonical texts.
type Strategy interface {
	Name() string
	Fit(ctx context.Context, corpus []string) (vectorspace.Projector, [][]float32, error)
}
