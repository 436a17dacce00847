// Package match holds request-scoped matching output.
package match

import "github.com/kailas-cloud/jobmatch/internal/domain/posting"

// Result is a single ranked posting. Results are created per request and never
// shared with the corpus index.
type Result struct {
	posting posting.Posting
	score   float64
	rank    int
}

// NewResult creates a ranked result. rank is 1-based.
func NewResult(p posting.Posting, score float64, rank int) Result {
	return Result{posting: p, score: score, rank: rank}
}

// Posting returns the matched corpus entry.
func (r *Result) Posting() posting.Posting { return r.posting }

// Score returns the cosine similarity; higher is more similar.
func (r *Result) Score() float64 { return r.score }

// Rank returns the 1-based rank position.
func (r *Result) Rank() int { return r.rank }

// Report is the outcome of a corpus-mode match.
type Report struct {
	Results   []Result
	Matched   []string
	Suggested []string
	Strategy  string
}

// ReferenceReport is the outcome of a single-reference match.
type ReferenceReport struct {
	Reference string
	Score     float64
	Matched   []string
	Suggested []string
	Strategy  string
}
