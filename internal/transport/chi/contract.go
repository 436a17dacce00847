package chi

import (
	"context"

	dommatch "github.com/kailas-cloud/jobmatch/internal/domain/match"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
)

// Matcher runs the two matching modes.
type Matcher interface {
	Match(ctx context.Context, raw string) (dommatch.Report, error)
	MatchReference(ctx context.Context, raw, reference string) (dommatch.ReferenceReport, error)
}

// SchemaProvider exposes the loaded corpus columns.
type SchemaProvider interface {
	Columns() []string
}

// HealthChecker reports service readiness.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}
