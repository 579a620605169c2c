// Package reconcile checks roster identity claims against the directory service.
//
// Claims that carry a numeric id are looked up by id to detect renamed and
// vanished accounts. Claims that only carry a handle are looked up by handle
// to learn their numeric id. Both passes deduplicate claims by natural key,
// query the directory in batches, and classify every claim with an
// identity.Status. Execution is sequential: one batch at a time.
package reconcile

import (
	"context"
	"time"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// Pass names, used in logs, errors and statistics.
const (
	PassIDs     = "ids"
	PassHandles = "handles"
)

// Directory is the lookup service claims are reconciled against.
// Both lookups accept at most constants.MaxLookupBatchSize keys and return
// the profiles that matched; unmatched keys are simply absent.
type Directory interface {
	LookupByIDs(ctx context.Context, ids []string) ([]identity.Profile, error)
	LookupByHandles(ctx context.Context, handles []string) ([]identity.Profile, error)
}

// Reconciler runs the two reconciliation passes.
type Reconciler struct {
	dir       Directory
	batchSize int
	policy    FailedBatchPolicy
	now       func() time.Time
}

// New creates a Reconciler querying dir.
func New(dir Directory, opts ...Option) (*Reconciler, error) {
	if dir == nil {
		return nil, errors.NewValidationError("directory", nil, "cannot be nil")
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{
		dir:       dir,
		batchSize: o.batchSize,
		policy:    o.policy,
		now:       o.now,
	}, nil
}

// Run reconciles claims and returns the full record set.
// Failed lookup batches are reported in Result.Errors and do not fail the run;
// an error is returned only when ctx is canceled.
func (r *Reconciler) Run(ctx context.Context, claims []identity.Claim) (*Result, error) {
	res := &Result{
		Metadata: ResultMetadata{
			StartTime: r.now(),
			BatchSize: r.batchSize,
			Policy:    r.policy,
			Stats:     newStatistics(),
		},
	}
	res.Metadata.Stats.ClaimsProcessed = len(claims)

	var withID, handleOnly []identity.Claim
	for _, c := range claims {
		switch {
		case c.HasID():
			withID = append(withID, c)
		case c.HasHandle():
			handleOnly = append(handleOnly, c)
		default:
			res.Metadata.Stats.ClaimsSkipped++
		}
	}

	if err := r.reconcileIDs(ctx, withID, res); err != nil {
		return nil, err
	}
	if err := r.reconcileHandles(ctx, handleOnly, res); err != nil {
		return nil, err
	}

	res.Metadata.EndTime = r.now()
	res.Metadata.Duration = res.Metadata.EndTime.Sub(res.Metadata.StartTime)

	logging.FromContext(ctx).Info().
		Int("claims", res.Metadata.Stats.ClaimsProcessed).
		Int("records", len(res.Records)).
		Int("failed_batches", len(res.Errors)).
		Dur("duration", res.Metadata.Duration).
		Msg("Reconciliation complete")

	return res, nil
}

// failedRecord is emitted for claims the directory could not be asked about.
func failedRecord(c identity.Claim) identity.Record {
	return identity.Record{
		PersonID:      c.PersonID,
		NumericID:     clone(c.NumericID),
		CurrentHandle: clone(c.Handle),
		Status:        identity.StatusLookupFailed,
	}
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
