// Package store persists reconciled records.
//
// Every sink is written with replace-all semantics: ReplaceAll clears whatever
// a previous run stored and then inserts the full record set. There is no
// incremental mode.
package store

import (
	"context"
	"database/sql"
	"regexp"
	"slices"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// Column names, matching the historical output table.
const (
	ColumnPersonID       = "id"
	ColumnNumericID      = "twitter_id"
	ColumnHandle         = "twitter_handle"
	ColumnPreviousHandle = "old_twitter_handle"
	ColumnStatus         = "status"
)

// Columns lists every stored column in table order.
var Columns = []string{ColumnPersonID, ColumnNumericID, ColumnHandle, ColumnPreviousHandle, ColumnStatus}

// KeyColumns is the unique key records are stored under: person id and numeric id.
var KeyColumns = []string{ColumnPersonID, ColumnNumericID}

// Sink is a destination for reconciled records.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Clear discards every stored record.
	Clear(ctx context.Context) error
	// Insert stores records, upserting on uniqueKey.
	Insert(ctx context.Context, records []identity.Record, uniqueKey []string) error
	// Close releases the sink's resources.
	Close() error
}

// ReplaceAll clears sink and writes records keyed by KeyColumns.
// Either failure is returned wrapped; nothing is retried.
func ReplaceAll(ctx context.Context, sink Sink, records []identity.Record) error {
	logger := logging.FromContext(ctx).With().Str("sink", sink.Name()).Logger()

	if err := sink.Clear(ctx); err != nil {
		return errors.WrapResource("clear", "records", sink.Name(), err)
	}
	if err := sink.Insert(ctx, records, KeyColumns); err != nil {
		return errors.WrapResource("insert", "records", sink.Name(), err)
	}

	logger.Info().Int("records", len(records)).Msg("Records saved")
	return nil
}

// Value returns the stored value of column for rec. Unknown columns and nil
// fields are invalid.
func Value(rec identity.Record, column string) sql.NullString {
	var p *string
	switch column {
	case ColumnPersonID:
		return sql.NullString{String: rec.PersonID, Valid: true}
	case ColumnStatus:
		return sql.NullString{String: string(rec.Status), Valid: true}
	case ColumnNumericID:
		p = rec.NumericID
	case ColumnHandle:
		p = rec.CurrentHandle
	case ColumnPreviousHandle:
		p = rec.PreviousHandle
	}
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// ValidateKey checks that every column of key is a stored column.
func ValidateKey(key []string) error {
	if len(key) == 0 {
		return errors.NewValidationError("unique_key", key, "at least one column is required")
	}
	for _, col := range key {
		if !slices.Contains(Columns, col) {
			return errors.NewValidationError("unique_key", col, "unknown column")
		}
	}
	return nil
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTable rejects table names that cannot be used unquoted in SQL.
func ValidateTable(name string) error {
	if !tableName.MatchString(name) {
		return errors.NewValidationError("table", name, "must be a plain SQL identifier")
	}
	return nil
}

// Collapse keeps one record per unique key, the way an upsert would: the
// position of the first occurrence with the values of the last. Records with
// a NULL in any key column never collide.
func Collapse(records []identity.Record, key []string) []identity.Record {
	out := make([]identity.Record, 0, len(records))
	pos := make(map[string]int, len(records))

	for _, rec := range records {
		k, ok := compositeKey(rec, key)
		if !ok {
			out = append(out, rec)
			continue
		}
		if i, seen := pos[k]; seen {
			out[i] = rec
			continue
		}
		pos[k] = len(out)
		out = append(out, rec)
	}
	return out
}

func compositeKey(rec identity.Record, key []string) (string, bool) {
	var b []byte
	for _, col := range key {
		v := Value(rec, col)
		if !v.Valid {
			return "", false
		}
		b = append(b, v.String...)
		b = append(b, 0)
	}
	return string(b), true
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanRecord reads one row selected in Columns order.
// A row whose status is not a known Status is rejected.
func ScanRecord(sc Scanner) (identity.Record, error) {
	var rec identity.Record
	var numericID, handle, previous sql.NullString
	var status string
	if err := sc.Scan(&rec.PersonID, &numericID, &handle, &previous, &status); err != nil {
		return identity.Record{}, err
	}
	st, err := identity.ParseStatus(status)
	if err != nil {
		return identity.Record{}, errors.WrapValidation(ColumnStatus, err)
	}
	rec.NumericID = nullable(numericID)
	rec.CurrentHandle = nullable(handle)
	rec.PreviousHandle = nullable(previous)
	rec.Status = st
	return rec, nil
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
