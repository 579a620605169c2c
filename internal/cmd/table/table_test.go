package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/utils/ptr"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

func TestRecordsToTableData(t *testing.T) {
	records := []identity.Record{
		{PersonID: "P1", NumericID: ptr.String("111"), CurrentHandle: ptr.String("alice_new"), PreviousHandle: ptr.String("alice"), Status: identity.StatusHandleUpdated},
		{PersonID: "P2", PreviousHandle: ptr.String("bob"), Status: identity.StatusHandleNotFound},
	}

	narrow := RecordsToTableData(records, false)
	assert.Len(t, narrow.Headers, 5)
	assert.Equal(t, []string{"~", "P1", "111", "alice_new", "handle-updated"}, narrow.Rows[0])
	assert.Equal(t, []string{"✗", "P2", "-", "-", "handle-not-found"}, narrow.Rows[1])

	wide := RecordsToTableData(records, true)
	assert.Equal(t, "Previous Handle", wide.Headers[5])
	assert.Equal(t, "alice", wide.Rows[0][5])
	assert.Equal(t, "bob", wide.Rows[1][5])
}

func TestClaimsToTableData(t *testing.T) {
	data := ClaimsToTableData([]identity.Claim{identity.NewClaim("P1", "@alice", "")})
	assert.Equal(t, [][]string{{"P1", "-", "alice"}}, data.Rows)
}

func TestSummaryToTableData(t *testing.T) {
	res := &reconcile.Result{
		Records: make([]identity.Record, 3),
		Metadata: reconcile.ResultMetadata{Stats: reconcile.ResultStatistics{
			ByStatus: map[identity.Status]int{identity.StatusUnchanged: 2, identity.StatusLookupFailed: 1},
		}},
	}

	data := SummaryToTableData(res)
	require.Len(t, data.Rows, len(identity.Statuses)+1)
	assert.Equal(t, []string{"✓", "unchanged", "2"}, data.Rows[0])
	assert.Equal(t, []string{"!", "lookup-failed", "1"}, data.Rows[len(identity.Statuses)-1])
	assert.Equal(t, []string{"", "total", "3"}, data.Rows[len(identity.Statuses)])
}

func TestStatsToTableData(t *testing.T) {
	data := StatsToTableData(roster.Stats{Persons: 1234, Claims: 1300, InvalidHandles: 2})
	assert.Contains(t, data.Rows, []string{"Persons", "1,234"})
	assert.Contains(t, data.Rows, []string{"Claims", "1,300"})
	assert.Contains(t, data.Rows, []string{"Invalid handles", "2"})
}

func TestOrDash(t *testing.T) {
	empty, handle := "", "alice"
	assert.Equal(t, "-", orDash(nil))
	assert.Equal(t, "-", orDash(&empty))
	assert.Equal(t, "alice", orDash(&handle))
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatNumber(in))
	}
}
