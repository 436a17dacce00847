// Package match composes normalization, projection, ranking and keyword
// extraction into the two matching modes.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/domain/posting"
	"github.com/kailas-cloud/jobmatch/internal/domain/text"
	"github.com/kailas-cloud/jobmatch/internal/index"
	"github.com/kailas-cloud/jobmatch/internal/keywords"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	"github.com/kailas-cloud/jobmatch/internal/vectorspace"
)

// DefaultTopK is the number of postings returned in corpus mode.
const DefaultTopK = 5

// KeywordSource selects which posting text feeds the keyword diff.
type KeywordSource string

const (
	// KeywordsCanonical diffs against the full canonical text.
	KeywordsCanonical KeywordSource = "canonical"
	// KeywordsSkills diffs against title and skill fields only.
	KeywordsSkills KeywordSource = "skills"
)

// Service runs matching requests against the shared corpus. It keeps no
// per-request state; every intermediate value is local to the call.
type Service struct {
	corpus   CorpusProvider
	strategy Strategy
	topK     int
	source   KeywordSource
}

// New creates a match service. strategy vectorizes single-reference requests
// and should be the same strategy the corpus was fitted with.
func New(corpus CorpusProvider, strategy Strategy) *Service {
	return &Service{corpus: corpus, strategy: strategy, topK: DefaultTopK, source: KeywordsCanonical}
}

// WithTopK overrides the number of ranked postings.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// WithKeywordSource selects the posting text used for keywords.
func (s *Service) WithKeywordSource(src KeywordSource) *Service {
	if src == KeywordsCanonical || src == KeywordsSkills {
		s.source = src
	}
	return s
}

// Match ranks the corpus against raw query text and diffs keywords against the
// top-ranked postings only.
func (s *Service) Match(ctx context.Context, raw string) (report dommatch.Report, err error) {
	start := time.Now()
	defer func() { observe("corpus", start, err) }()

	query := text.Normalize(raw)
	if query == "" {
		return dommatch.Report{}, domain.ErrNoExtractableText
	}

	snap, err := s.corpus.Snapshot()
	if err != nil {
		return dommatch.Report{}, err
	}

	vec, err := snap.Projector.Project(ctx, query)
	if err != nil {
		return dommatch.Report{}, fmt.Errorf("project query: %w", err)
	}

	hits, err := snap.Searcher.Search(vec, s.topK)
	if err != nil {
		return dommatch.Report{}, fmt.Errorf("rank: %w", err)
	}

	results := make([]dommatch.Result, len(hits))
	refs := make([]string, len(hits))
	for i, h := range hits {
		p := snap.Index.Posting(h.Position)
		results[i] = dommatch.NewResult(p, h.Score, i+1)
		refs[i] = s.keywordText(&p)
	}

	kw := keywords.Diff(query, refs)
	return dommatch.Report{
		Results:   results,
		Matched:   kw.MatchedSorted(),
		Suggested: kw.SuggestedSorted(),
		Strategy:  snap.Strategy,
	}, nil
}

// MatchReference scores raw query text against a single caller-supplied reference.
func (s *Service) MatchReference(ctx context.Context, raw, reference string) (report dommatch.ReferenceReport, err error) {
	start := time.Now()
	defer func() { observe("reference", start, err) }()

	ref := text.Normalize(reference)
	if ref == "" {
		return dommatch.ReferenceReport{}, fmt.Errorf("reference text is empty: %w", domain.ErrMalformedInput)
	}
	query := text.Normalize(raw)
	if query == "" {
		return dommatch.ReferenceReport{}, domain.ErrNoExtractableText
	}

	// Served only while the engine is ready, like corpus mode.
	if _, err = s.corpus.Snapshot(); err != nil {
		return dommatch.ReferenceReport{}, err
	}

	// The reference is a corpus of one: fit on it, then project the query.
	proj, vectors, err := s.strategy.Fit(ctx, []string{ref})
	if errors.Is(err, vectorspace.ErrNoTerms) {
		return dommatch.ReferenceReport{}, fmt.Errorf("reference has no usable terms: %w", domain.ErrMalformedInput)
	}
	if err != nil {
		return dommatch.ReferenceReport{}, fmt.Errorf("vectorize reference: %w", err)
	}
	qv, err := proj.Project(ctx, query)
	if err != nil {
		return dommatch.ReferenceReport{}, fmt.Errorf("project query: %w", err)
	}

	kw := keywords.Diff(query, []string{ref})
	return dommatch.ReferenceReport{
		Reference: ref,
		Score:     index.Cosine(qv, vectors[0]),
		Matched:   kw.MatchedSorted(),
		Suggested: kw.SuggestedSorted(),
		Strategy:  s.strategy.Name(),
	}, nil
}

func (s *Service) keywordText(p *posting.Posting) string {
	if s.source == KeywordsSkills {
		return p.SkillsText()
	}
	return p.CanonicalText()
}

func observe(mode string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.MatchDuration.WithLabelValues(mode, outcome).Observe(time.Since(start).Seconds())
}
