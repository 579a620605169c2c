package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
)

// FailedBatchPolicy decides what a failed lookup batch contributes to the result.
type FailedBatchPolicy string

const (
	// PolicyMark emits a lookup-failed record for every claim of a failed batch.
	PolicyMark FailedBatchPolicy = "mark"
	// PolicyDrop leaves the claims of a failed batch out of the result.
	PolicyDrop FailedBatchPolicy = "drop"
)

// ParseFailedBatchPolicy converts a configuration string to a policy.
// The empty string selects PolicyMark.
func ParseFailedBatchPolicy(s string) (FailedBatchPolicy, error) {
	switch FailedBatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyMark:
		return PolicyMark, nil
	case PolicyDrop:
		return PolicyDrop, nil
	default:
		return "", errors.NewValidationError("failed_batch_policy", s, fmt.Sprintf("must be %q or %q", PolicyMark, PolicyDrop))
	}
}

// options configures a Reconciler.
type options struct {
	batchSize int
	policy    FailedBatchPolicy
	now       func() time.Time
}

func defaultOptions() *options {
	return &options{
		batchSize: constants.DefaultLookupBatchSize,
		policy:    PolicyMark,
		now:       time.Now,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithBatchSize sets how many keys go into one lookup request.
// The directory accepts at most constants.MaxLookupBatchSize.
func WithBatchSize(n int) Option {
	return func(o *options) error {
		if n < 1 || n > constants.MaxLookupBatchSize {
			return errors.NewValidationError("batch_size", n,
				fmt.Sprintf("must be between 1 and %d", constants.MaxLookupBatchSize))
		}
		o.batchSize = n
		return nil
	}
}

// WithFailedBatchPolicy sets how failed lookup batches are reported.
func WithFailedBatchPolicy(policy FailedBatchPolicy) Option {
	return func(o *options) error {
		if policy != PolicyMark && policy != PolicyDrop {
			return errors.NewValidationError("failed_batch_policy", string(policy), "unknown policy")
		}
		o.policy = policy
		return nil
	}
}

// WithClock sets the time source used for result metadata.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "cannot be nil")
		}
		o.now = now
		return nil
	}
}
