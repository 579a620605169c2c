// Package table converts domain values into rows for tabular CLI output.
package table

import (
	"sort"
	"strconv"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/emoji"
	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/utils/ptr"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RecordsToTableData converts reconciled records to table format.
// Wide adds the previous handle column.
func RecordsToTableData(records []identity.Record, wide bool) Data {
	headers := []string{"", "Person", "Twitter ID", "Handle", "Status"}
	if wide {
		headers = append(headers, "Previous Handle")
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			emoji.ForStatus(r.Status),
			r.PersonID,
			orDash(r.NumericID),
			orDash(r.CurrentHandle),
			string(r.Status),
		}
		if wide {
			row = append(row, orDash(r.PreviousHandle))
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter},
	}
}

// ClaimsToTableData converts extracted claims to table format.
func ClaimsToTableData(claims []identity.Claim) Data {
	rows := make([][]string, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, []string{c.PersonID, orDash(c.NumericID), orDash(c.Handle)})
	}
	return Data{
		Headers: []string{"Person", "Twitter ID", "Handle"},
		Rows:    rows,
	}
}

// SummaryToTableData converts a reconciliation result to a per-status count table.
func SummaryToTableData(res *reconcile.Result) Data {
	rows := make([][]string, 0, len(identity.Statuses)+1)
	for _, s := range identity.Statuses {
		rows = append(rows, []string{emoji.ForStatus(s), string(s), strconv.Itoa(res.Count(s))})
	}
	rows = append(rows, []string{"", "total", strconv.Itoa(len(res.Records))})

	return Data{
		Headers:         []string{"", "Status", "Records"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignRight},
	}
}

// StatsToTableData converts extraction statistics to a key-value table.
func StatsToTableData(stats roster.Stats) Data {
	values := map[string]int{
		"Countries":           stats.Countries,
		"Legislatures":        stats.Legislatures,
		"Persons":             stats.Persons,
		"Claims":              stats.Claims,
		"Skipped claims":      stats.SkippedClaims,
		"Invalid handles":     stats.InvalidHandles,
		"Skipped persons":     stats.SkippedPersons,
		"Positional pairings": stats.PositionalPairings,
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, FormatNumber(int64(values[k]))})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// FormatNumber formats large numbers with comma separators.
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}
	head := len(str) % 3
	if head == 0 {
		head = 3
	}
	out := str[:head]
	for i := head; i < len(str); i += 3 {
		out += "," + str[i:i+3]
	}
	return out
}

func orDash(s *string) string {
	if v := ptr.Deref(s); v != "" {
		return v
	}
	return "-"
}
