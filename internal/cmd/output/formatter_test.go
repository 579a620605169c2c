package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/utils/ptr"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

func records() []identity.Record {
	return []identity.Record{
		{PersonID: "P1", NumericID: ptr.String("111"), CurrentHandle: ptr.String("alice_new"), PreviousHandle: ptr.String("alice"), Status: identity.StatusHandleUpdated},
		{PersonID: "P2", PreviousHandle: ptr.String("bob"), Status: identity.StatusHandleNotFound},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestFormatRecordsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatRecords(&buf, records(), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "alice_new")
	assert.Contains(t, out, "handle-not-found")
	assert.NotContains(t, out, "PREVIOUS HANDLE")
}

func TestFormatRecordsWide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatRecords(&buf, records(), FormatWide))
	assert.Contains(t, strings.ToUpper(buf.String()), "PREVIOUS HANDLE")
	assert.Contains(t, buf.String(), "bob")
}

func TestFormatRecordsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatRecords(&buf, records(), FormatJSON))

	var got []identity.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, records(), got)
	assert.Contains(t, buf.String(), `"current_handle": null`)
}

func TestFormatRecordsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatRecords(&buf, records(), FormatYAML))
	assert.Contains(t, buf.String(), "status: handle-updated")
}

func TestFormatClaims(t *testing.T) {
	ex := &roster.Extraction{
		Source: "file",
		Claims: []identity.Claim{identity.NewClaim("P1", "alice", "111")},
		Stats:  roster.Stats{Persons: 1, Claims: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatClaims(&buf, ex, FormatTable))
	assert.Contains(t, buf.String(), "alice")
	assert.Contains(t, buf.String(), "Positional pairings")

	buf.Reset()
	require.NoError(t, FormatClaims(&buf, ex, FormatJSON))
	assert.Contains(t, buf.String(), `"person_id": "P1"`)
	assert.Contains(t, buf.String(), `"skipped_claims": 0`)
}

func TestNewSummary(t *testing.T) {
	res := &reconcile.Result{
		Records: records(),
		Errors:  []error{errors.NewBatchError("ids", 0, 100, errors.New("boom"))},
		Metadata: reconcile.ResultMetadata{
			Duration: 1500 * time.Millisecond,
			Stats: reconcile.ResultStatistics{
				ClaimsProcessed: 3,
				FailedBatches:   map[string]int{"ids": 1},
				ByStatus: map[identity.Status]int{
					identity.StatusHandleUpdated:  1,
					identity.StatusHandleNotFound: 1,
				},
			},
		},
	}

	s := NewSummary(res)
	assert.Equal(t, 3, s.Claims)
	assert.Equal(t, 2, s.Records)
	assert.Equal(t, 0, s.ByStatus[identity.StatusUnchanged])
	assert.Len(t, s.ByStatus, len(identity.Statuses))
	assert.Equal(t, "1.5s", s.Duration)
	assert.Equal(t, []string{"lookup by ids failed for keys 1 to 100: boom"}, s.Errors)

	var buf bytes.Buffer
	require.NoError(t, FormatSummary(&buf, res, s, FormatJSON))
	assert.Contains(t, buf.String(), `"handle-updated": 1`)

	buf.Reset()
	require.NoError(t, FormatSummary(&buf, res, s, FormatTable))
	assert.Contains(t, buf.String(), "total")
}

func TestTableFormatterReflection(t *testing.T) {
	type row struct {
		PersonID string  `json:"person_id"`
		Handle   *string `json:"handle,omitempty"`
		internal string
	}

	var buf bytes.Buffer
	f := &TableFormatter{}
	require.NoError(t, f.Format(&buf, []row{{PersonID: "P1", internal: "x"}, {PersonID: "P2", Handle: ptr.String("bob")}}))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "PERSON ID")
	assert.Contains(t, out, "bob")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}
