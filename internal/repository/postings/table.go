// Package postings loads the reference corpus from tabular sources.
package postings

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/posting"
)

// Source column names.
const (
	ColID          = "job_id"
	ColTitle       = "title"
	ColCompany     = "company_name"
	ColLocation    = "location"
	ColURL         = "job_posting_url"
	ColDescription = "description"
	ColSkillsDesc  = "skills_desc"
	ColSkillName   = "skill_name"
	ColIndustry    = "industry_name"
)

// textColumns feed the canonical text; only title is mandatory.
var textColumns = []string{ColTitle, ColDescription, ColSkillsDesc, ColSkillName, ColIndustry}

// Table is a loaded corpus in source column order. Missing and null cells are "".
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Loader reads the corpus table from a source.
type Loader interface {
	Load(ctx context.Context) (Table, error)
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ToPostings converts table rows into postings in row order. idColumn names the
// identifier column; when absent, ids are derived from the row content.
func ToPostings(t Table, idColumn string, logger *zap.Logger) ([]posting.Posting, error) {
	if !t.HasColumn(ColTitle) {
		return nil, fmt.Errorf("corpus has no %q column (columns: %s): %w",
			ColTitle, strings.Join(t.Columns, ", "), domain.ErrMalformedInput)
	}
	for _, c := range textColumns {
		if !t.HasColumn(c) {
			logger.Warn("Corpus column missing, treated as empty", zap.String("column", c))
		}
	}
	if idColumn == "" {
		idColumn = ColID
	}

	out := make([]posting.Posting, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = posting.New(posting.Fields{
			ID:           strings.TrimSpace(row[idColumn]),
			Title:        row[ColTitle],
			Company:      row[ColCompany],
			Location:     row[ColLocation],
			URL:          row[ColURL],
			Description:  row[ColDescription],
			SkillsDesc:   row[ColSkillsDesc],
			SkillName:    row[ColSkillName],
			IndustryName: row[ColIndustry],
		}, i)
	}
	return out, nil
}

// cell converts a driver or file value into text. nil and NaN-like markers become "".
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return cleanNA(x)
	case []byte:
		return cleanNA(string(x))
	default:
		return cleanNA(fmt.Sprint(x))
	}
}

func cleanNA(s string) string {
	switch strings.TrimSpace(s) {
	case "NaN", "nan", "NULL", "<NA>":
		return ""
	}
	return s
}
