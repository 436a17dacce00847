package postings

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQL drivers accepted by configuration.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DefaultQuery selects the whole postings table.
const DefaultQuery = "SELECT * FROM postings"

// SQL reads the corpus with a single query against SQLite or PostgreSQL.
type SQL struct {
	driver string
	dsn    string
	query  string
}

var _ Loader = (*SQL)(nil)

// NewSQL creates a SQL loader. An empty query selects DefaultQuery.
func NewSQL(driver, dsn, query string) *SQL {
	if query == "" {
		query = DefaultQuery
	}
	return &SQL{driver: driver, dsn: dsn, query: query}
}

// Load implements Loader. Rows keep query order; add ORDER BY for a stable corpus.
func (l *SQL) Load(ctx context.Context) (Table, error) {
	db, err := sqlx.ConnectContext(ctx, l.driver, l.dsn)
	if err != nil {
		return Table{}, fmt.Errorf("connect %s: %w", l.driver, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryxContext(ctx, l.query)
	if err != nil {
		return Table{}, fmt.Errorf("query corpus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return Table{}, fmt.Errorf("columns: %w", err)
	}

	t := Table{Columns: cols}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return Table{}, fmt.Errorf("scan row %d: %w", len(t.Rows), err)
		}
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			row[c] = cell(vals[i])
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("iterate rows: %w", err)
	}
	return t, nil
}
