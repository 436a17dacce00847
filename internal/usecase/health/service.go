// Package health aggregates corpus readiness and dependency checks.
package health

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/usecase/corpus"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the corpus serves but an optional dependency fails.
	Degraded Status = "degraded"
	// Unhealthy indicates the corpus cannot serve requests.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Ready  bool
	Corpus corpus.Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	corpus    CorpusReporter
	cache     CachePinger
	embedding EmbeddingChecker
}

// New creates a Service. cache and embedding can be nil.
func New(c CorpusReporter, cache CachePinger, embedding EmbeddingChecker) *Service {
	return &Service{corpus: c, cache: cache, embedding: embedding}
}

// Check runs health checks against all components. Readiness depends on the
// corpus alone; optional dependencies only degrade the status.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	cs := s.corpus.Status()
	ready := cs.State == corpus.Ready
	if ready {
		checks["corpus"] = CheckOK
	} else {
		checks["corpus"] = CheckError
	}

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}
	if s.embedding != nil {
		checks["embedding"] = result(s.embedding.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if !ready {
		status = Unhealthy
	}

	return Report{Status: status, Ready: ready, Corpus: cs, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
