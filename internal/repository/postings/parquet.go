package postings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// Parquet reads a flat parquet file. Repeated leaf values are joined with spaces.
type Parquet struct {
	path string
}

var _ Loader = (*Parquet)(nil)

// NewParquet creates a parquet loader.
func NewParquet(path string) *Parquet {
	return &Parquet{path: path}
}

// Load implements Loader.
func (l *Parquet) Load(ctx context.Context) (Table, error) {
	f, err := os.Open(filepath.Clean(l.path))
	if err != nil {
		return Table{}, fmt.Errorf("open parquet: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return Table{}, fmt.Errorf("stat parquet: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return Table{}, fmt.Errorf("open parquet %s: %w", l.path, err)
	}

	// leaf column index -> top-level field name
	var leaves []string
	var columns []string
	seen := make(map[string]struct{})
	for _, path := range pf.Schema().Columns() {
		name := ""
		if len(path) > 0 {
			name = path[0]
		}
		leaves = append(leaves, name)
		if _, ok := seen[name]; !ok && name != "" {
			seen[name] = struct{}{}
			columns = append(columns, name)
		}
	}

	t := Table{Columns: columns}
	buf := make([]parquet.Row, 512)
	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}
		if err := readRowGroup(rg, leaves, buf, &t); err != nil {
			return Table{}, fmt.Errorf("read parquet %s: %w", l.path, err)
		}
	}
	return t, nil
}

func readRowGroup(rg parquet.RowGroup, leaves []string, buf []parquet.Row, t *Table) error {
	rows := parquet.NewRowGroupReader(rg)
	for {
		n, err := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			t.Rows = append(t.Rows, rowToMap(buf[i], leaves))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read rows: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

func rowToMap(row parquet.Row, leaves []string) map[string]string {
	out := make(map[string]string, len(leaves))
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(leaves) || v.IsNull() {
			continue
		}
		name := leaves[col]
		s := cleanNA(v.String())
		if prev, ok := out[name]; ok && prev != "" {
			s = prev + " " + s
		}
		out[name] = s
	}
	return out
}
