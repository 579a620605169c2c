// Package alerts provides the notices printed after a command finishes,
// such as failed lookup batches or persons skipped during extraction.
package alerts

import (
	"fmt"
	"slices"

	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

// Alert represents one notice.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a one-line representation of the alert.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// ForRun returns the notices for a finished reconciliation. sink is empty
// when nothing was stored.
func ForRun(res *reconcile.Result, sink string) []*Alert {
	var out []*Alert

	if n := len(res.Errors); n > 0 {
		a := NewWarning(fmt.Sprintf("%d lookup %s failed", n, plural(n, "batch", "batches")))
		var hints []string
		for _, err := range res.Errors {
			a.WithDetails(err.Error())
			if h := batchHint(err); h != "" && !slices.Contains(hints, h) {
				hints = append(hints, h)
			}
		}
		switch res.Metadata.Policy {
		case reconcile.PolicyDrop:
			a.WithDetails("their claims were left out of the records")
		default:
			a.WithDetails("their claims are recorded as lookup-failed")
		}
		a.WithDetails(hints...)
		out = append(out, a)
	}

	if sink == "" {
		out = append(out, NewInfo("Dry run, stored records left unchanged"))
	} else {
		out = append(out, NewSuccess(fmt.Sprintf("Stored %d %s in %s",
			len(res.Records), plural(len(res.Records), "record", "records"), sink)))
	}
	return out
}

// batchHint names the likely cause of a failed lookup, or returns "".
func batchHint(err error) string {
	switch {
	case errors.IsAPIKeyError(err):
		return "the directory rejected the consumer key and secret"
	case errors.IsRateLimited(err):
		return "the directory rate limit was reached, retry later"
	case errors.IsProviderUnavailable(err):
		return "the directory was unavailable, retry later"
	}
	return ""
}

// ForExtraction returns the notices for an extraction.
func ForExtraction(stats roster.Stats) []*Alert {
	var out []*Alert
	if stats.SkippedPersons > 0 {
		out = append(out, NewWarning(fmt.Sprintf("%d %s without an id skipped",
			stats.SkippedPersons, plural(stats.SkippedPersons, "person", "persons"))))
	}
	if stats.InvalidHandles > 0 {
		out = append(out, NewWarning(fmt.Sprintf("%d %s with a comma or whitespace dropped",
			stats.InvalidHandles, plural(stats.InvalidHandles, "handle", "handles"))))
	}
	if stats.PositionalPairings > 0 {
		out = append(out, NewInfo(fmt.Sprintf("%d %s paired handles and ids by position",
			stats.PositionalPairings, plural(stats.PositionalPairings, "person", "persons"))))
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Writer handles alert output to different formats and destinations.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// WriteAll writes every alert to w, stopping at the first error.
func WriteAll(w Writer, alerts []*Alert) error {
	for _, a := range alerts {
		if err := w.WriteAlert(a); err != nil {
			return err
		}
	}
	return nil
}
