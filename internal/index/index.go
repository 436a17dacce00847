// Package index holds the read-only corpus index and the searchers ranking it.
package index

import (
	"fmt"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/posting"
)

// Index is the vectorized corpus. It is built once and never mutated.
type Index struct {
	postings []posting.Posting
	vectors  [][]float32
	dims     int
}

// New builds an index from postings and their vectors, in corpus order.
// Every vector must have the same non-zero length.
func New(postings []posting.Posting, vectors [][]float32) (*Index, error) {
	if len(postings) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if len(postings) != len(vectors) {
		return nil, fmt.Errorf("postings/vectors count mismatch: %d != %d", len(postings), len(vectors))
	}
	dims := len(vectors[0])
	if dims == 0 {
		return nil, fmt.Errorf("zero-length vector at 0: %w", domain.ErrVectorDimMismatch)
	}
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("vector %d has %d dims, want %d: %w", i, len(v), dims, domain.ErrVectorDimMismatch)
		}
	}
	return &Index{postings: postings, vectors: vectors, dims: dims}, nil
}

// Len returns the number of indexed postings.
func (ix *Index) Len() int { return len(ix.postings) }

// Dimensions returns the shared vector length.
func (ix *Index) Dimensions() int { return ix.dims }

// Posting returns the posting at corpus position i.
func (ix *Index) Posting(i int) posting.Posting { return ix.postings[i] }

// Vector returns the vector at corpus position i. Callers must not modify it.
func (ix *Index) Vector(i int) []float32 { return ix.vectors[i] }
