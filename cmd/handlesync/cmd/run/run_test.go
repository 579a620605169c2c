package run_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkobl1/berlin-is-twitter-data/cmd/handlesync/cmd/run"
	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/application"
	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/output"
	"github.com/jkobl1/berlin-is-twitter-data/internal/metrics"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster/file"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/internal/store/yamlfile"
	"github.com/jkobl1/berlin-is-twitter-data/internal/utils/ptr"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

const rosterYAML = `countries:
  - name: Germany
    code: DE
    legislatures:
      - name: Bundestag
        persons:
          - id: p-1
            claims:
              - handle: alice
                id: "111"
              - handle: alice_mdb
          - id: p-2
            handles: ["@Bob"]
            ids: ["222"]
  - name: Estonia
    code: EE
    legislatures:
      - name: Riigikogu
        persons:
          - id: p-3
            ids: ["333"]
`

type fakeDirectory struct {
	byID     map[string]string
	byHandle map[string]string
	err      error
	calls    int
}

func (f *fakeDirectory) LookupByIDs(_ context.Context, ids []string) ([]identity.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []identity.Profile
	for _, id := range ids {
		if h, ok := f.byID[id]; ok {
			out = append(out, identity.Profile{NumericID: id, Handle: h})
		}
	}
	return out, nil
}

func (f *fakeDirectory) LookupByHandles(_ context.Context, handles []string) ([]identity.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []identity.Profile
	for _, h := range handles {
		if id, ok := f.byHandle[h]; ok {
			out = append(out, identity.Profile{NumericID: id, Handle: h})
		}
	}
	return out, nil
}

type fixture struct {
	mock    *application.Mock
	dir     *fakeDirectory
	metrics *metrics.Metrics
	path    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	src, err := file.Parse("roster.yaml", []byte(rosterYAML))
	require.NoError(t, err)

	f := &fixture{
		dir: &fakeDirectory{
			byID: map[string]string{"111": "alice_new", "222": "Bob"},
		},
		metrics: metrics.New(),
		path:    filepath.Join(t.TempDir(), "records.yaml"),
	}
	f.mock = &application.Mock{
		RosterFunc: func() (roster.Source, error) { return src, nil },
		DirectoryFunc: func(context.Context) (reconcile.Directory, error) {
			return f.dir, nil
		},
		SinkFunc: func(context.Context) (store.Sink, error) {
			return yamlfile.New(f.path)
		},
		MetricsFunc: func() (*metrics.Metrics, string) { return f.metrics, "" },
	}
	return f
}

func TestExecuteLogsOperation(t *testing.T) {
	f := newFixture(t)
	logger := logging.NewTestLogger(t)
	f.mock.LoggerFunc = func() *zerolog.Logger { return logger.Logger }

	require.NoError(t, run.Execute(context.Background(), f.mock, &bytes.Buffer{}, io.Discard, run.Flags{DryRun: true}))

	logger.AssertContains(t, `"operation":"run"`)
	logger.AssertContains(t, `"message":"Roster extracted"`)
}

func TestExecute(t *testing.T) {
	f := newFixture(t)
	f.mock.OutputFormatFunc = func() string { return "json" }

	var buf bytes.Buffer
	require.NoError(t, run.Execute(context.Background(), f.mock, &buf, io.Discard, run.Flags{}))

	got, err := yamlfile.Read(f.path)
	require.NoError(t, err)

	want := []identity.Record{
		{PersonID: "p-1", NumericID: ptr.String("111"), CurrentHandle: ptr.String("alice_new"), PreviousHandle: ptr.String("alice"), Status: identity.StatusHandleUpdated},
		{PersonID: "p-2", NumericID: ptr.String("222"), CurrentHandle: ptr.String("Bob"), Status: identity.StatusUnchanged},
		{PersonID: "p-3", NumericID: ptr.String("333"), Status: identity.StatusIDNotFound},
		{PersonID: "p-1", PreviousHandle: ptr.String("alice_mdb"), Status: identity.StatusHandleNotFound},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stored records mismatch (-want +got):\n%s", diff)
	}

	var summary output.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, 4, summary.Claims)
	assert.Equal(t, 4, summary.Records)
	assert.Equal(t, "yaml", summary.Sink)
	assert.Equal(t, 1, summary.ByStatus[identity.StatusHandleUpdated])
	assert.Equal(t, 1, summary.ByStatus[identity.StatusHandleNotFound])
	assert.False(t, summary.DryRun)

	assert.Equal(t, float64(4), testutil.ToFloat64(f.metrics.Claims))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Records.WithLabelValues(string(identity.StatusUnchanged))))
}

func TestExecuteDryRun(t *testing.T) {
	f := newFixture(t)
	f.mock.SinkFunc = func(context.Context) (store.Sink, error) {
		t.Fatal("dry run must not open the sink")
		return nil, nil
	}

	var buf bytes.Buffer
	require.NoError(t, run.Execute(context.Background(), f.mock, &buf, io.Discard, run.Flags{DryRun: true, Records: true}))

	_, err := os.Stat(f.path)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, buf.String(), "alice_new")
	assert.Contains(t, buf.String(), string(identity.StatusIDNotFound))
}

func TestExecuteFailedBatchesAreStored(t *testing.T) {
	f := newFixture(t)
	f.dir.err = errors.NewAPIError("twitter", 503, "over capacity")

	var notices bytes.Buffer
	require.NoError(t, run.Execute(context.Background(), f.mock, &bytes.Buffer{}, &notices, run.Flags{}))
	assert.Contains(t, notices.String(), "2 lookup batches failed")
	assert.Contains(t, notices.String(), "Stored 4 records in yaml")

	got, err := yamlfile.Read(f.path)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, rec := range got {
		assert.Equal(t, identity.StatusLookupFailed, rec.Status, rec.PersonID)
	}
}

func TestExecuteDropPolicy(t *testing.T) {
	f := newFixture(t)
	f.dir.err = errors.NewAPIError("twitter", 503, "over capacity")
	f.mock.ReconcileOptionsFunc = func() ([]reconcile.Option, error) {
		return []reconcile.Option{reconcile.WithFailedBatchPolicy(reconcile.PolicyDrop)}, nil
	}

	require.NoError(t, run.Execute(context.Background(), f.mock, &bytes.Buffer{}, io.Discard, run.Flags{}))

	got, err := yamlfile.Read(f.path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExecuteCredentialsCheckedFirst(t *testing.T) {
	f := newFixture(t)
	f.mock.DirectoryFunc = func(context.Context) (reconcile.Directory, error) {
		return nil, errors.NewConfigError("credentials", "consumer key and secret are required", errors.ErrAPIKeyRequired)
	}

	err := run.Execute(context.Background(), f.mock, &bytes.Buffer{}, io.Discard, run.Flags{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAPIKeyRequired))

	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))

	_, statErr := os.Stat(f.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecuteCanceledBeforePersistence(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.path, []byte("[]\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run.Execute(ctx, f.mock, &bytes.Buffer{}, io.Discard, run.Flags{})
	require.Error(t, err)

	data, readErr := os.ReadFile(f.path)
	require.NoError(t, readErr)
	assert.Equal(t, "[]\n", string(data), "stored records untouched")
}

func TestExecuteInvalidFormat(t *testing.T) {
	f := newFixture(t)
	f.mock.OutputFormatFunc = func() string { return "xml" }

	err := run.Execute(context.Background(), f.mock, &bytes.Buffer{}, io.Discard, run.Flags{})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Zero(t, f.dir.calls)
}

func TestExecuteWritesMetricsFile(t *testing.T) {
	f := newFixture(t)
	metricsPath := filepath.Join(t.TempDir(), "handlesync.prom")
	f.mock.MetricsFunc = func() (*metrics.Metrics, string) { return f.metrics, metricsPath }

	require.NoError(t, run.Execute(context.Background(), f.mock, &bytes.Buffer{}, io.Discard, run.Flags{}))

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "handlesync_claims_total 4")
}

func TestNewCommand(t *testing.T) {
	f := newFixture(t)
	f.mock.OutputFormatFunc = func() string { return "yaml" }

	cmd := run.NewCommand(f.mock)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--dry-run"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, buf.String(), "dry_run: true")
	_, err := os.Stat(f.path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewCommandDocumentsDropPolicy(t *testing.T) {
	cmd := run.NewCommand(newFixture(t).mock)

	assert.Contains(t, cmd.Long, "--failed-batch-policy=drop to reproduce the\nlegacy behaviour")
	assert.Contains(t, cmd.Long, "records are left out")
	assert.Contains(t, cmd.Example, "--failed-batch-policy=drop")
}
