package jobmatch

import "github.com/kailas-cloud/jobmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNoExtractableText      = domain.ErrNoExtractableText
	ErrDocumentUnreadable     = domain.ErrDocumentUnreadable
	ErrMalformedInput         = domain.ErrMalformedInput
	ErrIndexNotReady          = domain.ErrIndexNotReady
	ErrEmptyCorpus            = domain.ErrEmptyCorpus
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
