// Package postgres stores reconciled records in a PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/lib/pq"

	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
)

var _ store.Sink = (*Sink)(nil)

// Sink writes records into one PostgreSQL table.
type Sink struct {
	db    *sql.DB
	table string
	owned bool
}

// Option configures a Sink.
type Option func(*Sink)

// WithTable sets the table name. It defaults to "swdata".
func WithTable(table string) Option {
	return func(s *Sink) {
		if table != "" {
			s.table = table
		}
	}
}

// New wraps an open database. Close does not close db.
func New(db *sql.DB, opts ...Option) (*Sink, error) {
	s := &Sink{db: db, table: constants.DefaultTable}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := store.ValidateTable(s.table); err != nil {
		return nil, err
	}
	return s, nil
}

// Open connects to the database at dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Sink, error) {
	if dsn == "" {
		return nil, errors.NewConfigError("postgres", "database_url is required", errors.ErrInvalidInput)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.WrapResource("open", "database", "postgres", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("connect", "database", "postgres", err)
	}

	s, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// Name implements store.Sink.
func (s *Sink) Name() string {
	return "postgres"
}

// Clear empties the table, creating it first when absent.
func (s *Sink) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.createTable(store.KeyColumns)); err != nil {
		return errors.WrapResource("create", "table", s.table, err)
	}
	if _, err := s.db.ExecContext(ctx, "TRUNCATE TABLE "+s.table); err != nil {
		return errors.WrapResource("truncate", "table", s.table, err)
	}
	return nil
}

// Insert upserts records with a single statement.
func (s *Sink) Insert(ctx context.Context, records []identity.Record, uniqueKey []string) error {
	if err := store.ValidateKey(uniqueKey); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	// One statement cannot update the same row twice.
	records = store.Collapse(records, uniqueKey)

	columns := make([][]sql.NullString, len(store.Columns))
	for i := range columns {
		columns[i] = make([]sql.NullString, len(records))
	}
	for r, rec := range records {
		for c, col := range store.Columns {
			columns[c][r] = store.Value(rec, col)
		}
	}

	args := make([]any, len(columns))
	for i, col := range columns {
		args[i] = pq.Array(col)
	}

	if _, err := s.db.ExecContext(ctx, s.upsert(uniqueKey), args...); err != nil {
		return errors.WrapResource("insert", "records", s.table, err)
	}
	return nil
}

// Records returns every stored record ordered by person id and numeric id.
func (s *Sink) Records(ctx context.Context) ([]identity.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s, %s NULLS FIRST",
		strings.Join(store.Columns, ", "), s.table, store.ColumnPersonID, store.ColumnNumericID)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.WrapResource("query", "table", s.table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []identity.Record
	for rows.Next() {
		rec, err := store.ScanRecord(rows)
		if err != nil {
			return nil, errors.WrapResource("scan", "record", s.table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("query", "table", s.table, err)
	}
	return out, nil
}

// Close closes the database if the sink opened it.
func (s *Sink) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func (s *Sink) createTable(uniqueKey []string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s TEXT NOT NULL,
	%s TEXT,
	%s TEXT,
	%s TEXT,
	%s TEXT NOT NULL,
	UNIQUE (%s)
)`, s.table,
		store.ColumnPersonID, store.ColumnNumericID, store.ColumnHandle,
		store.ColumnPreviousHandle, store.ColumnStatus,
		strings.Join(uniqueKey, ", "))
}

func (s *Sink) upsert(uniqueKey []string) string {
	params := make([]string, len(store.Columns))
	for i := range store.Columns {
		params[i] = fmt.Sprintf("$%d::text[]", i+1)
	}

	var updates []string
	for _, col := range store.Columns {
		if !slices.Contains(uniqueKey, col) {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	cols := strings.Join(store.Columns, ", ")
	q := fmt.Sprintf(`INSERT INTO %s (%s)
SELECT %s FROM unnest(%s) AS r(%s)
ON CONFLICT (%s) DO `, s.table, cols, cols, strings.Join(params, ", "), cols, strings.Join(uniqueKey, ", "))
	if len(updates) == 0 {
		return q + "NOTHING"
	}
	return q + "UPDATE SET " + strings.Join(updates, ", ")
}
