// Package corpus owns the lifecycle of the shared corpus index:
// Uninitialized -> Loading -> Ready | Failed.
package corpus

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/index"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	"github.com/kailas-cloud/jobmatch/internal/repository/postings"
	"github.com/kailas-cloud/jobmatch/internal/vectorspace"
)

// State is the corpus lifecycle stage.
type State string

const (
	// Uninitialized means Load has not been called.
	Uninitialized State = "uninitialized"
	// Loading means Load is in progress.
	Loading State = "loading"
	// Ready means the index is built and serving.
	Ready State = "ready"
	// Failed means loading or vectorization failed; a restart is required.
	Failed State = "failed"
)

// Snapshot is the immutable, fully built corpus shared by all requests.
type Snapshot struct {
	Index     *index.Index
	Searcher  index.Searcher
	Projector vectorspace.Projector
	Strategy  string
}

// Status is the readiness view of the corpus.
type Status struct {
	State      State
	Loaded     bool
	Rows       int
	Columns    int
	Vectorized bool
	Strategy   string
	Dimensions int
	Error      string
}

type state struct {
	status   Status
	columns  []string
	snapshot *Snapshot
}

// Service loads the corpus once and hands out read-only snapshots.
type Service struct {
	loader   Loader
	strategy Strategy
	idColumn string
	logger   *zap.Logger
	current  atomic.Pointer[state]
}

// New creates an uninitialized corpus service.
func New(loader Loader, strategy Strategy, idColumn string, logger *zap.Logger) *Service {
	s := &Service{loader: loader, strategy: strategy, idColumn: idColumn, logger: logger}
	s.current.Store(&state{status: Status{State: Uninitialized, Strategy: strategy.Name()}})
	return s
}

// Load reads the corpus, fits the vector space and publishes the index.
// Any failure leaves the service in Failed; a partial index is never published.
func (s *Service) Load(ctx context.Context) error {
	start := time.Now()
	s.current.Store(&state{status: Status{State: Loading, Strategy: s.strategy.Name()}})

	st, err := s.build(ctx)
	if err != nil {
		st.status.State = Failed
		st.status.Error = err.Error()
		st.snapshot = nil
		s.current.Store(st)
		metrics.CorpusReady.Set(0)
		s.logger.Error("Corpus failed to load",
			zap.String("strategy", s.strategy.Name()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}

	s.current.Store(st)
	metrics.CorpusReady.Set(1)
	metrics.CorpusDocuments.Set(float64(st.status.Rows))
	s.logger.Info("Corpus loaded",
		zap.String("strategy", st.status.Strategy),
		zap.Int("rows", st.status.Rows),
		zap.Int("columns", st.status.Columns),
		zap.Int("dimensions", st.status.Dimensions),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Service) build(ctx context.Context) (*state, error) {
	st := &state{status: Status{Strategy: s.strategy.Name()}}

	tbl, err := s.loader.Load(ctx)
	if err != nil {
		return st, fmt.Errorf("load corpus: %w", err)
	}
	st.columns = tbl.Columns
	st.status.Loaded = true
	st.status.Rows = len(tbl.Rows)
	st.status.Columns = len(tbl.Columns)

	items, err := postings.ToPostings(tbl, s.idColumn, s.logger)
	if err != nil {
		return st, fmt.Errorf("map corpus: %w", err)
	}
	if len(items) == 0 {
		return st, domain.ErrEmptyCorpus
	}

	texts := make([]string, len(items))
	for i := range items {
		texts[i] = items[i].CanonicalText()
	}

	proj, vectors, err := s.strategy.Fit(ctx, texts)
	if err != nil {
		return st, fmt.Errorf("vectorize corpus: %w", err)
	}

	ix, err := index.New(items, vectors)
	if err != nil {
		return st, fmt.Errorf("build index: %w", err)
	}
	if ix.Dimensions() != proj.Dimensions() {
		return st, fmt.Errorf("index has %d dims, projector %d: %w",
			ix.Dimensions(), proj.Dimensions(), domain.ErrVectorDimMismatch)
	}

	st.status.State = Ready
	st.status.Vectorized = true
	st.status.Dimensions = ix.Dimensions()
	st.snapshot = &Snapshot{
		Index:     ix,
		Searcher:  index.NewExact(ix),
		Projector: proj,
		Strategy:  s.strategy.Name(),
	}
	return st, nil
}

// Snapshot returns the ready corpus or ErrIndexNotReady.
func (s *Service) Snapshot() (*Snapshot, error) {
	st := s.current.Load()
	if st.status.State != Ready || st.snapshot == nil {
		return nil, fmt.Errorf("corpus %s: %w", st.status.State, domain.ErrIndexNotReady)
	}
	return st.snapshot, nil
}

// Status returns the current readiness.
func (s *Service) Status() Status {
	return s.current.Load().status
}

// Columns returns the loaded corpus column names, or nil when nothing was loaded.
func (s *Service) Columns() []string {
	cols := s.current.Load().columns
	if cols == nil {
		return nil
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}
