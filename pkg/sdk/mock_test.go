package jobmatch

import (
	"context"

	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/usecase/corpus"
)

// --- corpusUseCase mock ---

type mockCorpusUC struct {
	loadFn  func(ctx context.Context) error
	status  corpus.Status
	columns []string
}

func (m *mockCorpusUC) Load(ctx context.Context) error { return m.loadFn(ctx) }

func (m *mockCorpusUC) Status() corpus.Status { return m.status }

func (m *mockCorpusUC) Columns() []string { return m.columns }

// --- matchUseCase mock ---

type mockMatchUC struct {
	matchFn     func(ctx context.Context, raw string) (dommatch.Report, error)
	referenceFn func(ctx context.Context, raw, reference string) (dommatch.ReferenceReport, error)
}

func (m *mockMatchUC) Match(ctx context.Context, raw string) (dommatch.Report, error) {
	return m.matchFn(ctx, raw)
}

func (m *mockMatchUC) MatchReference(
	ctx context.Context, raw, reference string,
) (dommatch.ReferenceReport, error) {
	return m.referenceFn(ctx, raw, reference)
}

// --- textExtractor mock ---

type mockExtractor struct {
	extractFn func(ctx context.Context, data []byte) (string, error)
}

func (m *mockExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	return m.extractFn(ctx, data)
}

// --- helpers ---

func testClient(corpusSvc corpusUseCase, matchSvc matchUseCase, ext textExtractor) *Client {
	return &Client{
		corpus:    corpusSvc,
		matcher:   matchSvc,
		extractor: ext,
	}
}
