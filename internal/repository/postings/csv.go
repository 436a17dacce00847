package postings

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSV reads a header-first CSV file.
type CSV struct {
	path string
}

var _ Loader = (*CSV)(nil)

// NewCSV creates a CSV loader.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Load implements Loader.
func (l *CSV) Load(ctx context.Context) (Table, error) {
	f, err := os.Open(filepath.Clean(l.path))
	if err != nil {
		return Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := readCSV(ctx, f)
	if err != nil {
		return Table{}, fmt.Errorf("read csv %s: %w", l.path, err)
	}
	return t, nil
}

func readCSV(ctx context.Context, r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, errors.New("missing header")
		}
		return Table{}, fmt.Errorf("header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	t := Table{Columns: header}
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Table{}, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("line %d: %w", line, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = cleanNA(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
