package vectorspace

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Dense defaults.
const (
	DefaultBatchSize   = 64
	DefaultConcurrency = 4
)

// Dense embeds text with a pretrained model behind domain.Embedder.
// Dimensionality is the model's embedding size.
type Dense struct {
	embedder    domain.Embedder
	batchSize   int
	concurrency int
	logger      *zap.Logger
}

var _ Strategy = (*Dense)(nil)

// DenseOption configures Dense.
type DenseOption func(*Dense)

// WithBatchSize sets the number of texts per embedding call during Fit.
func WithBatchSize(n int) DenseOption {
	return func(d *Dense) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

// WithConcurrency bounds the number of in-flight embedding calls during Fit.
func WithConcurrency(n int) DenseOption {
	return func(d *Dense) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// NewDense creates an embedding strategy.
func NewDense(embedder domain.Embedder, logger *zap.Logger, opts ...DenseOption) *Dense {
	d := &Dense{
		embedder:    embedder,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
		logger:      logger,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Name implements Strategy.
func (d *Dense) Name() string { return StrategyDense }

// Fit embeds the corpus in batches, several batches in flight at once.
func (d *Dense) Fit(ctx context.Context, corpus []string) (Projector, [][]float32, error) {
	if len(corpus) == 0 {
		return nil, nil, domain.ErrEmptyCorpus
	}

	vectors := make([][]float32, len(corpus))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for start := 0; start < len(corpus); start += d.batchSize {
		end := min(start+d.batchSize, len(corpus))
		g.Go(func() error {
			res, err := domain.BatchEmbed(gctx, d.embedder, corpus[start:end])
			if err != nil {
				return fmt.Errorf("embed corpus [%d:%d]: %w", start, end, err)
			}
			if len(res.Embeddings) != end-start {
				return fmt.Errorf("embed corpus [%d:%d]: got %d embeddings: %w",
					start, end, len(res.Embeddings), domain.ErrEmbeddingProviderError)
			}
			copy(vectors[start:end], res.Embeddings)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("fit dense: %w", err)
	}

	dims := len(vectors[0])
	if dims == 0 {
		return nil, nil, fmt.Errorf("fit dense: empty embedding: %w", domain.ErrVectorDimMismatch)
	}
	for i, v := range vectors {
		if len(v) != dims {
			return nil, nil, fmt.Errorf("fit dense: vector %d has %d dims, want %d: %w",
				i, len(v), dims, domain.ErrVectorDimMismatch)
		}
	}

	d.logger.Debug("Dense corpus embedded",
		zap.Int("documents", len(corpus)),
		zap.Int("dimensions", dims),
	)
	return &denseProjector{embedder: d.embedder, dims: dims}, vectors, nil
}

type denseProjector struct {
	embedder domain.Embedder
	dims     int
}

// Project implements Projector.
func (p *denseProjector) Project(ctx context.Context, s string) ([]float32, error) {
	res, err := p.embedder.Embed(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	if len(res.Embedding) != p.dims {
		return nil, fmt.Errorf("project: got %d dims, want %d: %w",
			len(res.Embedding), p.dims, domain.ErrVectorDimMismatch)
	}
	return res.Embedding, nil
}

// Dimensions implements Projector.
func (p *denseProjector) Dimensions() int { return p.dims }
