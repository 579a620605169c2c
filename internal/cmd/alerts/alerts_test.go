package alerts

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/output"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

func TestForRun(t *testing.T) {
	res := &reconcile.Result{
		Records: []identity.Record{{PersonID: "p-1", Status: identity.StatusLookupFailed}},
		Errors: []error{
			errors.NewBatchError(reconcile.PassIDs, 0, 1, errors.NewAPIError("twitter", 503, "over capacity")),
		},
		Metadata: reconcile.ResultMetadata{Policy: reconcile.PolicyMark},
	}

	got := ForRun(res, "sqlite")
	require.Len(t, got, 2)
	assert.Equal(t, LevelWarning, got[0].Level)
	assert.Equal(t, "1 lookup batch failed", got[0].Message)
	assert.Contains(t, got[0].Details[0], "lookup by ids failed for keys 1 to 1")
	assert.Equal(t, "their claims are recorded as lookup-failed", got[0].Details[1])
	assert.Equal(t, "the directory was unavailable, retry later", got[0].Details[2])
	assert.Equal(t, LevelSuccess, got[1].Level)
	assert.Equal(t, "Stored 1 record in sqlite", got[1].Message)
}

func TestForRunHints(t *testing.T) {
	batch := func(offset, status int) error {
		return errors.NewBatchError(reconcile.PassHandles, offset, 100, errors.NewAPIError("twitter", status, "lookup failed"))
	}
	res := &reconcile.Result{
		Errors:   []error{batch(0, 429), batch(100, 429), batch(200, 401), batch(300, 404)},
		Metadata: reconcile.ResultMetadata{Policy: reconcile.PolicyDrop},
	}

	got := ForRun(res, "sqlite")
	require.Len(t, got, 2)
	details := got[0].Details
	require.Len(t, details, 7)
	assert.Equal(t, []string{
		"their claims were left out of the records",
		"the directory rate limit was reached, retry later",
		"the directory rejected the consumer key and secret",
	}, details[4:])
}

func TestForRunDryRun(t *testing.T) {
	got := ForRun(&reconcile.Result{}, "")
	require.Len(t, got, 1)
	assert.Equal(t, LevelInfo, got[0].Level)
}

func TestForExtraction(t *testing.T) {
	assert.Empty(t, ForExtraction(roster.Stats{Persons: 3}))

	got := ForExtraction(roster.Stats{SkippedPersons: 2, PositionalPairings: 1, InvalidHandles: 1})
	require.Len(t, got, 3)
	assert.Equal(t, "2 persons without an id skipped", got[0].Message)
	assert.Equal(t, LevelWarning, got[1].Level)
	assert.Equal(t, "1 handle with a comma or whitespace dropped", got[1].Message)
	assert.Equal(t, "1 person paired handles and ids by position", got[2].Message)
}

func TestFormatWriterText(t *testing.T) {
	var buf bytes.Buffer
	w := NewFormatWriter(&buf, output.FormatTable)

	require.NoError(t, w.WriteAlert(NewWarning("2 lookup batches failed").WithDetails("first", "second")))
	assert.Equal(t, "! 2 lookup batches failed\n   first\n   second\n", buf.String())
}

func TestFormatWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewFormatWriter(&buf, output.FormatJSON)

	require.NoError(t, w.WriteAlert(NewSuccess("done").WithError(errors.New("partial"))))

	var got alertData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, alertData{Level: "success", Message: "done", Error: "partial"}, got)
}

func TestFormatWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewFormatWriter(&buf, output.FormatYAML)

	require.NoError(t, w.WriteAlert(NewInfo("dry run")))
	assert.Contains(t, buf.String(), "level: info")
	assert.Contains(t, buf.String(), "message: dry run")
}

func TestWriteAll(t *testing.T) {
	var got []string
	w := WriterFunc(func(a *Alert) error {
		got = append(got, a.Message)
		return nil
	})
	require.NoError(t, WriteAll(w, []*Alert{NewInfo("a"), NewInfo("b")}))
	assert.Equal(t, []string{"a", "b"}, got)
	require.NoError(t, WriteAll(DiscardWriter, []*Alert{NewInfo("c")}))
}
