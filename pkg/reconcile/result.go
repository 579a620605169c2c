package reconcile

import (
	"fmt"
	"time"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
)

// Result represents the outcome of a reconciliation run.
type Result struct {
	// Records holds the id pass output followed by the handle pass output.
	Records []identity.Record

	// Errors holds one *errors.BatchError per failed lookup batch.
	Errors []error

	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the reconciliation run.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	BatchSize int
	Policy    FailedBatchPolicy

	Stats ResultStatistics
}

// ResultStatistics counts what happened during the run.
type ResultStatistics struct {
	// ClaimsProcessed is the number of claims handed to Run.
	ClaimsProcessed int
	// ClaimsSkipped counts claims with neither a numeric id nor a handle.
	ClaimsSkipped int
	// ClaimsCollapsed counts claims merged into another with the same natural key.
	ClaimsCollapsed int

	IDKeys     int
	HandleKeys int

	Batches       map[string]int
	FailedBatches map[string]int

	ByStatus map[identity.Status]int
}

func newStatistics() ResultStatistics {
	return ResultStatistics{
		Batches:       make(map[string]int),
		FailedBatches: make(map[string]int),
		ByStatus:      make(map[identity.Status]int),
	}
}

// IsSuccess returns true if every lookup batch succeeded.
func (r *Result) IsSuccess() bool {
	return len(r.Errors) == 0
}

// Count returns how many records carry the given status.
func (r *Result) Count(status identity.Status) int {
	return r.Metadata.Stats.ByStatus[status]
}

// Changes returns the records that differ from the roster.
func (r *Result) Changes() []identity.Record {
	var changes []identity.Record
	for _, rec := range r.Records {
		if rec.Status.IsChange() {
			changes = append(changes, rec)
		}
	}
	return changes
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	stats := r.Metadata.Stats
	failed := 0
	for _, n := range stats.FailedBatches {
		failed += n
	}
	summary := fmt.Sprintf("Reconciled %d records from %d claims: %d unchanged, %d changed",
		len(r.Records), stats.ClaimsProcessed, r.Count(identity.StatusUnchanged), len(r.Changes()))
	if failed > 0 {
		summary += fmt.Sprintf(", %d lookup batches failed", failed)
	}
	return summary
}

func (r *Result) add(rec identity.Record) {
	r.Records = append(r.Records, rec)
	r.Metadata.Stats.ByStatus[rec.Status]++
}
