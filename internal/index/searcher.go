package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Hit is one scored corpus position.
type Hit struct {
	Position int
	ID       string
	Score    float64
}

// Searcher returns the k nearest postings for a query vector, best first.
// Exact is the brute force implementation; an approximate structure can be
// dropped in behind the same interface.
type Searcher interface {
	Search(query []float32, k int) ([]Hit, error)
}

// Exact scores every vector with cosine similarity. O(n*d) per query.
type Exact struct {
	ix *Index
}

var _ Searcher = (*Exact)(nil)

// NewExact creates a brute force searcher over ix.
func NewExact(ix *Index) *Exact {
	return &Exact{ix: ix}
}

// Search returns min(k, n) hits sorted by descending score; ties keep corpus order.
func (e *Exact) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != e.ix.dims {
		return nil, fmt.Errorf("query has %d dims, index has %d: %w", len(query), e.ix.dims, domain.ErrVectorDimMismatch)
	}
	if k <= 0 {
		return []Hit{}, nil
	}

	hits := make([]Hit, e.ix.Len())
	for i := range hits {
		hits[i] = Hit{
			Position: i,
			ID:       e.ix.postings[i].ID(),
			Score:    Cosine(query, e.ix.vectors[i]),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either has zero
// magnitude. Vectors of different lengths are compared over the shorter prefix.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	for i := n; i < len(a); i++ {
		na += float64(a[i]) * float64(a[i])
	}
	for i := n; i < len(b); i++ {
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// clamp float error
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
