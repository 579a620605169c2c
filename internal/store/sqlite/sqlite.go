// Package sqlite stores reconciled records in a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
)

var _ store.Sink = (*Sink)(nil)

// Sink writes records into one table of a SQLite file.
type Sink struct {
	db    *sql.DB
	path  string
	table string
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

// Open opens (creating if needed) the database at path.
func Open(path string, opts ...Option) (*Sink, error) {
	s := &Sink{path: path, table: constants.DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	if err := store.ValidateTable(s.table); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// A single connection keeps DDL and the insert transaction on one handle.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("open", path, err)
	}

	s.db = db
	return s, nil
}

// Name implements store.Sink.
func (s *Sink) Name() string {
	return "sqlite"
}

// Path returns the database file path.
func (s *Sink) Path() string {
	return s.path
}

// Clear drops the table.
func (s *Sink) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+s.table); err != nil {
		return errors.WrapResource("drop", "table", s.table, err)
	}
	return nil
}

// Insert creates the table if needed and upserts records in one transaction.
func (s *Sink) Insert(ctx context.Context, records []identity.Record, uniqueKey []string) error {
	if err := store.ValidateKey(uniqueKey); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", s.table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.createTable(uniqueKey)); err != nil {
		return errors.WrapResource("create", "table", s.table, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.upsert(uniqueKey))
	if err != nil {
		return errors.WrapResource("prepare", "insert", s.table, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		args := make([]any, len(store.Columns))
		for i, col := range store.Columns {
			args[i] = store.Value(rec, col)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.WrapResource("insert", "record", rec.PersonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapResource("commit", "transaction", s.table, err)
	}
	return nil
}

// Records returns every stored record in insertion order.
func (s *Sink) Records(ctx context.Context) ([]identity.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(store.Columns, ", "), s.table)
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

// Close implements store.Sink.
func (s *Sink) Close() error {
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
	var updates []string
	for _, col := range store.Columns {
		if !slices.Contains(uniqueKey, col) {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(store.Columns)), ", ")

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO ",
		s.table, strings.Join(store.Columns, ", "), placeholders, strings.Join(uniqueKey, ", "))
	if len(updates) == 0 {
		return q + "NOTHING"
	}
	return q + "UPDATE SET " + strings.Join(updates, ", ")
}
