package domain

import "errors"

var (
	// ErrNoExtractableText signals a query document that normalizes to nothing.
	ErrNoExtractableText = errors.New("no extractable text")
	// ErrDocumentUnreadable signals a payload that could not be parsed as a document.
	ErrDocumentUnreadable = errors.New("document unreadable")
	// ErrMalformedInput signals a missing or empty companion input.
	ErrMalformedInput = errors.New("malformed input")
	// ErrPayloadTooLarge signals an upload over the configured limit.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrIndexNotReady signals that the corpus index is not available for matching.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrEmptyCorpus signals a corpus without any items.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
