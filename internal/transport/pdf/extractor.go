// Package pdf extracts plain text from in-memory PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Extractor reads PDF uploads without touching the filesystem.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a PDF text extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the text of every page joined by single spaces. A document
// that cannot be parsed yields domain.ErrDocumentUnreadable; a readable
// document without text yields an empty string.
func (e *Extractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty document: %w", domain.ErrDocumentUnreadable)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("PDF parser panicked", zap.Any("panic", r))
			text, err = "", fmt.Errorf("parse pdf: %v: %w", r, domain.ErrDocumentUnreadable)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w: %w", domain.ErrDocumentUnreadable, err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("extract pdf: %w", err)
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w: %w", i, domain.ErrDocumentUnreadable, err)
		}
		if s := strings.TrimSpace(content); s != "" {
			pages = append(pages, s)
		}
	}

	e.logger.Debug("PDF extracted", zap.Int("pages", r.NumPage()), zap.Int("bytes", len(data)))
	return strings.Join(pages, " "), nil
}
