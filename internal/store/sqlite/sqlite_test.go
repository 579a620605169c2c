package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store/sqlite"
	"github.com/jkobl1/berlin-is-twitter-data/internal/utils/ptr"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
)

func rec(person, id, handle, old string, status identity.Status) identity.Record {
	return identity.Record{
		PersonID:       person,
		NumericID:      ptr.String(id),
		CurrentHandle:  ptr.String(handle),
		PreviousHandle: ptr.String(old),
		Status:         status,
	}
}

func openSink(t *testing.T, opts ...sqlite.Option) *sqlite.Sink {
	t.Helper()
	sink, err := sqlite.Open(filepath.Join(t.TempDir(), "nested", "data.sqlite"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })
	return sink
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()
	sink := openSink(t)

	first := []identity.Record{
		rec("P1", "111", "alice", "", identity.StatusUnchanged),
		rec("P9", "999", "stale", "", identity.StatusUnchanged),
	}
	require.NoError(t, store.ReplaceAll(ctx, sink, first))

	second := []identity.Record{
		rec("P1", "111", "alice_new", "alice", identity.StatusHandleUpdated),
		rec("P2", "", "", "bob", identity.StatusHandleNotFound),
		rec("P3", "333", "carol", "", identity.StatusIDAdded),
	}
	require.NoError(t, store.ReplaceAll(ctx, sink, second))

	got, err := sink.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got, "previous run's rows are gone")
}

func TestInsertUpsertsOnKey(t *testing.T) {
	ctx := context.Background()
	sink := openSink(t)

	records := []identity.Record{
		rec("P1", "111", "alice", "", identity.StatusUnchanged),
		rec("P2", "", "", "gone", identity.StatusHandleNotFound),
		rec("P2", "", "", "gone_too", identity.StatusHandleNotFound),
		rec("P1", "111", "Alice", "alice", identity.StatusIDAddedHandleUpdated),
	}
	require.NoError(t, store.ReplaceAll(ctx, sink, records))

	got, err := sink.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Collapse(records, store.KeyColumns), got)
}

func TestTableName(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.sqlite")

	sink, err := sqlite.Open(path, sqlite.WithTable("handles"))
	require.NoError(t, err)
	require.NoError(t, store.ReplaceAll(ctx, sink, []identity.Record{rec("P1", "1", "a", "", identity.StatusUnchanged)}))
	require.NoError(t, sink.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM handles WHERE twitter_handle = 'a' AND old_twitter_handle IS NULL").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestInvalidTable(t *testing.T) {
	_, err := sqlite.Open(filepath.Join(t.TempDir(), "x.sqlite"), sqlite.WithTable("bad name"))
	assert.True(t, errors.IsValidationError(err))
}

func TestInsertRejectsUnknownKey(t *testing.T) {
	sink := openSink(t)
	err := sink.Insert(context.Background(), nil, []string{"handle"})
	assert.True(t, errors.IsValidationError(err))
}

func TestClearWithoutTable(t *testing.T) {
	sink := openSink(t)
	require.NoError(t, sink.Clear(context.Background()))
}
