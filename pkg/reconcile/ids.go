package reconcile

import (
	"context"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// reconcileIDs checks claims that carry a numeric id.
func (r *Reconciler) reconcileIDs(ctx context.Context, claims []identity.Claim, res *Result) error {
	ctx = logging.WithPass(ctx, PassIDs)
	logger := logging.FromContext(ctx)

	keyed := index(claims, func(c identity.Claim) string { return *c.NumericID })
	res.Metadata.Stats.IDKeys = len(keyed.keys)
	res.Metadata.Stats.ClaimsCollapsed += len(claims) - len(keyed.keys)

	out, err := r.lookup(ctx, PassIDs, keyed.keys, r.dir.LookupByIDs, res)
	if err != nil {
		return err
	}

	byID := make(map[string]identity.Profile, len(out.profiles))
	for _, p := range out.profiles {
		byID[p.NumericID] = p
	}

	for _, id := range keyed.keys {
		c := keyed.claims[id]
		if _, failed := out.failed[id]; failed {
			if r.policy == PolicyMark {
				res.add(failedRecord(c))
			}
			continue
		}

		p, found := byID[id]
		rec := classifyByID(c, p, found)
		res.add(rec)

		switch rec.Status {
		case identity.StatusIDNotFound:
			logger.Info().
				Str("person_id", c.PersonID).
				Str("numeric_id", id).
				Str("handle", c.HandleValue()).
				Msg("Numeric ID not found")
		case identity.StatusHandleUpdated:
			logger.Info().
				Str("person_id", c.PersonID).
				Str("old", c.HandleValue()).
				Str("new", p.Handle).
				Msg("Handle changed")
		}
	}
	return nil
}

// classifyByID builds the record for a claim looked up by numeric id.
// found reports whether the directory returned p for the claim's id.
// Handle comparison is exact: a change of case counts as a change.
func classifyByID(c identity.Claim, p identity.Profile, found bool) identity.Record {
	rec := identity.Record{
		PersonID:  c.PersonID,
		NumericID: clone(c.NumericID),
	}
	switch {
	case !found:
		rec.PreviousHandle = clone(c.Handle)
		rec.Status = identity.StatusIDNotFound
	case c.Handle == nil || *c.Handle != p.Handle:
		rec.CurrentHandle = clone(&p.Handle)
		rec.PreviousHandle = clone(c.Handle)
		rec.Status = identity.StatusHandleUpdated
	default:
		rec.CurrentHandle = clone(&p.Handle)
		rec.Status = identity.StatusUnchanged
	}
	return rec
}
