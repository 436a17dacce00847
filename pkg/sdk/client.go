package jobmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/app"
	"github.com/kailas-cloud/jobmatch/internal/config"
	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/repository/postings"
	"github.com/kailas-cloud/jobmatch/internal/transport/pdf"
	"github.com/kailas-cloud/jobmatch/internal/usecase/corpus"
	matchuc "github.com/kailas-cloud/jobmatch/internal/usecase/match"
	"github.com/kailas-cloud/jobmatch/internal/vectorspace"
)

// Internal interfaces for substitution in tests.
type corpusUseCase interface {
	Load(ctx context.Context) error
	Status() corpus.Status
	Columns() []string
}

type matchUseCase interface {
	Match(ctx context.Context, raw string) (dommatch.Report, error)
	MatchReference(ctx context.Context, raw, reference string) (dommatch.ReferenceReport, error)
}

type textExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Client is the jobmatch SDK entry point. It is safe for concurrent use.
type Client struct {
	corpus    corpusUseCase
	matcher   matchUseCase
	extractor textExtractor
	obs       *observer
}

// New creates a Client and loads the corpus. The context bounds loading and,
// for the dense strategy, embedding of the whole corpus.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{idColumn: postings.ColID}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.source == "" {
		return nil, errors.New("jobmatch: corpus source required (use WithCSV, WithParquet or WithSQL)")
	}

	loader, err := app.NewLoader(config.CorpusConfig{
		Source: cfg.source,
		Path:   cfg.path,
		SQL: config.SQLConfig{
			Driver: cfg.sqlDriver,
			DSN:    cfg.sqlDSN,
			Query:  cfg.sqlQuery,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("jobmatch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg, cfg.strategyName())
	if err != nil {
		return nil, err
	}

	c := wireClient(loader, cfg, obs)
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func wireClient(loader corpus.Loader, cfg *clientConfig, obs *observer) *Client {
	logger := zap.NewNop()

	var strategy vectorspace.Strategy
	if cfg.embedder != nil {
		strategy = vectorspace.NewDense(adaptEmbedder(cfg.embedder), logger,
			vectorspace.WithBatchSize(cfg.batchSize),
			vectorspace.WithConcurrency(cfg.concurrency),
		)
	} else {
		strategy = vectorspace.NewSparse(cfg.maxFeatures)
	}

	corpusSvc := corpus.New(loader, strategy, cfg.idColumn, logger)
	matchSvc := matchuc.New(corpusSvc, strategy).WithTopK(cfg.topK)
	if cfg.skillKeywords {
		matchSvc = matchSvc.WithKeywordSource(matchuc.KeywordsSkills)
	}

	return &Client{
		corpus:    corpusSvc,
		matcher:   matchSvc,
		extractor: pdf.NewExtractor(logger),
		obs:       obs,
	}
}

func (c *Client) load(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("load", start, err) }()

	if err = c.corpus.Load(ctx); err != nil {
		return fmt.Errorf("jobmatch: load corpus: %w", err)
	}
	c.obs.observeCorpus(c.corpus.Status().Rows)
	return nil
}

// Match ranks the corpus against resume text.
func (c *Client) Match(ctx context.Context, text string) (report Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe("match", start, err) }()

	r, err := c.matcher.Match(ctx, text)
	if err != nil {
		return Report{}, fmt.Errorf("match: %w", err)
	}
	c.observeTop("match", &r)
	return toReport(&r), nil
}

// MatchPDF extracts the text of an in-memory PDF resume and ranks the corpus against it.
func (c *Client) MatchPDF(ctx context.Context, data []byte) (report Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe("match_pdf", start, err) }()

	text, err := c.extractor.Extract(ctx, data)
	if err != nil {
		return Report{}, fmt.Errorf("extract resume: %w", err)
	}
	r, err := c.matcher.Match(ctx, text)
	if err != nil {
		return Report{}, fmt.Errorf("match: %w", err)
	}
	c.observeTop("match_pdf", &r)
	return toReport(&r), nil
}

// MatchReference scores resume text against one job description.
func (c *Client) MatchReference(ctx context.Context, text, jobDescription string) (report ReferenceReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("match_reference", start, err) }()

	r, err := c.matcher.MatchReference(ctx, text, jobDescription)
	if err != nil {
		return ReferenceReport{}, fmt.Errorf("match reference: %w", err)
	}
	c.obs.observeScore("match_reference", r.Score)
	return ReferenceReport{
		Reference: r.Reference,
		Score:     r.Score,
		Matched:   r.Matched,
		Suggested: r.Suggested,
		Strategy:  r.Strategy,
	}, nil
}

// Status reports the corpus state.
func (c *Client) Status() CorpusStatus {
	st := c.corpus.Status()
	return CorpusStatus{
		State:      string(st.State),
		Rows:       st.Rows,
		Columns:    c.corpus.Columns(),
		Strategy:   st.Strategy,
		Dimensions: st.Dimensions,
		Error:      st.Error,
	}
}

func (c *Client) observeTop(op string, r *dommatch.Report) {
	if len(r.Results) > 0 {
		c.obs.observeScore(op, r.Results[0].Score())
	}
}

func toReport(r *dommatch.Report) Report {
	matches := make([]Match, len(r.Results))
	for i := range r.Results {
		res := &r.Results[i]
		p := res.Posting()
		matches[i] = Match{
			ID:       p.ID(),
			Title:    p.Title(),
			Company:  p.Company(),
			Location: p.Location(),
			URL:      p.URL(),
			Score:    res.Score(),
			Rank:     res.Rank(),
		}
	}
	return Report{
		Matches:   matches,
		Matched:   r.Matched,
		Suggested: r.Suggested,
		Strategy:  r.Strategy,
	}
}
