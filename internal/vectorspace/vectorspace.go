// Package vectorspace fits a fixed vector representation over the corpus and
// projects new text into it. Sparse (TF-IDF) and dense (embedding model)
// strategies share one contract and are selected by configuration.
package vectorspace

import "context"

// Strategy names accepted by configuration.
const (
	StrategySparse = "sparse"
	StrategyDense  = "dense"
)

// Strategy fits a vector space over the full corpus in one pass.
type Strategy interface {
	Name() string
	// Fit returns the fitted projector and one vector per corpus text, in order.
	// On error nothing is returned; there is no partially fitted state.
	Fit(ctx context.Context, corpus []string) (Projector, [][]float32, error)
}

// Projector maps new text into an already fitted space. Implementations are
// immutable after Fit and safe for concurrent use.
type Projector interface {
	Project(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
