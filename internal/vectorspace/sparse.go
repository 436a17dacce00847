package vectorspace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/text"
)

// DefaultMaxFeatures caps the sparse vocabulary.
const DefaultMaxFeatures = 5000

// ErrNoTerms is returned by Fit when no document has a vocabulary term.
var ErrNoTerms = errors.New("no terms after stop word removal")

// minTermLen drops single-character tokens from the vocabulary.
const minTermLen = 2

// Sparse is a TF-IDF strategy over a bounded vocabulary with English stop words removed.
type Sparse struct {
	maxFeatures int
	stopWords   map[string]struct{}
}

var _ Strategy = (*Sparse)(nil)

// NewSparse creates a TF-IDF strategy. maxFeatures <= 0 selects DefaultMaxFeatures.
func NewSparse(maxFeatures int) *Sparse {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Sparse{maxFeatures: maxFeatures, stopWords: englishStopWords}
}

// Name implements Strategy.
func (s *Sparse) Name() string { return StrategySparse }

// Fit builds the vocabulary and idf weights, then vectorizes every corpus text.
// The vocabulary keeps the maxFeatures most frequent terms (ties broken
// lexicographically) and is laid out in lexicographic order.
func (s *Sparse) Fit(ctx context.Context, corpus []string) (Projector, [][]float32, error) {
	if len(corpus) == 0 {
		return nil, nil, domain.ErrEmptyCorpus
	}

	counts := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range corpus {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("fit tfidf: %w", err)
		}
		seen := make(map[string]struct{})
		for _, tok := range s.terms(doc) {
			counts[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}
	if len(counts) == 0 {
		return nil, nil, fmt.Errorf("fit tfidf: %w", ErrNoTerms)
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > s.maxFeatures {
		terms = terms[:s.maxFeatures]
	}
	sort.Strings(terms)

	m := &tfidf{
		vocab:     make(map[string]int, len(terms)),
		idf:       make([]float64, len(terms)),
		stopWords: s.stopWords,
	}
	n := float64(len(corpus))
	for i, t := range terms {
		m.vocab[t] = i
		m.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	vectors := make([][]float32, len(corpus))
	for i, doc := range corpus {
		vectors[i] = m.vectorize(doc)
	}
	return m, vectors, nil
}

func (s *Sparse) terms(doc string) []string {
	return filterTerms(text.Tokenize(text.Normalize(doc)), s.stopWords)
}

func filterTerms(tokens []string, stop map[string]struct{}) []string {
	out := tokens[:0]
	for _, t := range tokens {
		if utf8.RuneCountInString(t) < minTermLen {
			continue
		}
		if _, ok := stop[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// tfidf is the fitted sparse model.
type tfidf struct {
	vocab     map[string]int
	idf       []float64
	stopWords map[string]struct{}
}

// Project implements Projector. Terms outside the vocabulary are ignored, so a
// text sharing no vocabulary yields the zero vector.
func (m *tfidf) Project(_ context.Context, s string) ([]float32, error) {
	return m.vectorize(s), nil
}

// Dimensions implements Projector.
func (m *tfidf) Dimensions() int { return len(m.idf) }

func (m *tfidf) vectorize(doc string) []float32 {
	tf := make(map[int]int)
	for _, tok := range filterTerms(text.Tokenize(text.Normalize(doc)), m.stopWords) {
		if idx, ok := m.vocab[tok]; ok {
			tf[idx]++
		}
	}

	weights := make([]float64, len(m.idf))
	var norm float64
	for idx, c := range tf {
		w := float64(c) * m.idf[idx]
		weights[idx] = w
		norm += w * w
	}

	vec := make([]float32, len(weights))
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i, w := range weights {
		vec[i] = float32(w / norm)
	}
	return vec
}
