package reconcile

import (
	"context"
	"errors"
	"slices"

	pkgerrors "github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// keyedClaims maps natural keys to claims, remembering first-seen key order.
// A later claim with the same key replaces the earlier one.
type keyedClaims struct {
	keys   []string
	claims map[string]identity.Claim
}

func index(claims []identity.Claim, key func(identity.Claim) string) keyedClaims {
	k := keyedClaims{claims: make(map[string]identity.Claim, len(claims))}
	for _, c := range claims {
		nk := key(c)
		if _, seen := k.claims[nk]; !seen {
			k.keys = append(k.keys, nk)
		}
		k.claims[nk] = c
	}
	return k
}

type lookupFunc func(ctx context.Context, keys []string) ([]identity.Profile, error)

// lookupOutcome is what one pass learned from the directory.
type lookupOutcome struct {
	profiles []identity.Profile
	// failed holds the keys of batches whose lookup failed.
	failed map[string]struct{}
}

// lookup queries the directory for keys, one batch at a time.
// A failed batch is logged and recorded in res; the remaining batches still run.
func (r *Reconciler) lookup(ctx context.Context, pass string, keys []string, fn lookupFunc, res *Result) (lookupOutcome, error) {
	out := lookupOutcome{failed: make(map[string]struct{})}

	offset := 0
	for batch := range slices.Chunk(keys, r.batchSize) {
		if err := ctx.Err(); err != nil {
			return out, pkgerrors.WrapResource("lookup", pass, "", errors.Join(pkgerrors.ErrCanceled, err))
		}

		bctx := logging.WithBatch(ctx, offset+1, offset+len(batch))
		logging.FromContext(bctx).Info().
			Int("total", len(keys)).
			Msg("Fetching directory data")

		res.Metadata.Stats.Batches[pass]++
		profiles, err := fn(bctx, batch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, pkgerrors.WrapResource("lookup", pass, "", errors.Join(pkgerrors.ErrCanceled, ctxErr))
			}
			batchErr := pkgerrors.NewBatchError(pass, offset, len(batch), err)
			logBatchError(bctx, batchErr)
			res.Errors = append(res.Errors, batchErr)
			res.Metadata.Stats.FailedBatches[pass]++
			for _, k := range batch {
				out.failed[k] = struct{}{}
			}
		} else {
			out.profiles = append(out.profiles, profiles...)
		}
		offset += len(batch)
	}
	return out, nil
}

// logBatchError logs a failed batch with whatever error codes the service returned.
func logBatchError(ctx context.Context, err *pkgerrors.BatchError) {
	event := logging.FromContext(ctx).Error().
		Err(err.Err).
		Bool("retryable", pkgerrors.IsRateLimited(err) || pkgerrors.IsProviderUnavailable(err))

	var apiErr *pkgerrors.APIError
	if errors.As(err, &apiErr) {
		event = event.Int("status_code", apiErr.StatusCode)
		if len(apiErr.Errors) > 0 {
			event = event.Ints("codes", apiErr.Codes())
		}
	}
	event.Msg("Directory lookup failed")
}
