package output

import (
	"io"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/table"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

// isTable reports whether format renders as a table.
func isTable(format Format) bool {
	return format == FormatTable || format == FormatWide || format == ""
}

// FormatRecords writes reconciled records in the given format.
func FormatRecords(w io.Writer, records []identity.Record, format Format) error {
	var data any = records
	if isTable(format) {
		data = table.RecordsToTableData(records, format == FormatWide)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatClaims writes extracted claims in the given format.
func FormatClaims(w io.Writer, ex *roster.Extraction, format Format) error {
	if !isTable(format) {
		return NewFormatter(format).Format(w, ex)
	}
	f := NewFormatter(format)
	if err := f.Format(w, table.ClaimsToTableData(ex.Claims)); err != nil {
		return err
	}
	return f.Format(w, table.StatsToTableData(ex.Stats))
}

// Summary is the machine-readable run report.
type Summary struct {
	Claims        int                     `json:"claims" yaml:"claims"`
	Records       int                     `json:"records" yaml:"records"`
	ByStatus      map[identity.Status]int `json:"by_status" yaml:"by_status"`
	FailedBatches map[string]int          `json:"failed_batches,omitempty" yaml:"failed_batches,omitempty"`
	Errors        []string                `json:"errors,omitempty" yaml:"errors,omitempty"`
	Duration      string                  `json:"duration" yaml:"duration"`
	Sink          string                  `json:"sink,omitempty" yaml:"sink,omitempty"`
	DryRun        bool                    `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// NewSummary builds the run report for res.
func NewSummary(res *reconcile.Result) Summary {
	s := Summary{
		Claims:        res.Metadata.Stats.ClaimsProcessed,
		Records:       len(res.Records),
		ByStatus:      make(map[identity.Status]int, len(identity.Statuses)),
		FailedBatches: res.Metadata.Stats.FailedBatches,
		Duration:      res.Metadata.Duration.String(),
	}
	for _, st := range identity.Statuses {
		s.ByStatus[st] = res.Count(st)
	}
	for _, err := range res.Errors {
		s.Errors = append(s.Errors, err.Error())
	}
	if len(s.FailedBatches) == 0 {
		s.FailedBatches = nil
	}
	return s
}

// FormatSummary writes the per-status counts of a run.
func FormatSummary(w io.Writer, res *reconcile.Result, summary Summary, format Format) error {
	if isTable(format) {
		return NewFormatter(format).Format(w, table.SummaryToTableData(res))
	}
	return NewFormatter(format).Format(w, summary)
}

// FormatAny writes any value in the given format.
func FormatAny(w io.Writer, data any, format Format) error {
	return NewFormatter(format).Format(w, data)
}
