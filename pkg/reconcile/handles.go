package reconcile

import (
	"context"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// reconcileHandles looks up claims that only carry a handle, to learn their numeric id.
func (r *Reconciler) reconcileHandles(ctx context.Context, claims []identity.Claim, res *Result) error {
	ctx = logging.WithPass(ctx, PassHandles)
	logger := logging.FromContext(ctx)

	keyed := index(claims, func(c identity.Claim) string { return identity.HandleKey(*c.Handle) })
	res.Metadata.Stats.HandleKeys = len(keyed.keys)
	res.Metadata.Stats.ClaimsCollapsed += len(claims) - len(keyed.keys)

	// Query with the stored spelling of each handle; the directory matches
	// case-insensitively.
	handles := make([]string, len(keyed.keys))
	for i, k := range keyed.keys {
		handles[i] = *keyed.claims[k].Handle
	}

	out, err := r.lookup(ctx, PassHandles, handles, r.dir.LookupByHandles, res)
	if err != nil {
		return err
	}

	byHandle := make(map[string]identity.Profile, len(out.profiles))
	for _, p := range out.profiles {
		byHandle[identity.HandleKey(p.Handle)] = p
	}

	for _, key := range keyed.keys {
		c := keyed.claims[key]
		if _, failed := out.failed[*c.Handle]; failed {
			if r.policy == PolicyMark {
				res.add(failedRecord(c))
			}
			continue
		}

		p, found := byHandle[key]
		rec := classifyByHandle(c, p, found)
		res.add(rec)

		switch rec.Status {
		case identity.StatusHandleNotFound:
			logger.Info().
				Str("person_id", c.PersonID).
				Str("handle", *c.Handle).
				Msg("Handle not found")
		case identity.StatusIDAddedHandleUpdated:
			logger.Info().
				Str("person_id", c.PersonID).
				Str("old", *c.Handle).
				Str("new", p.Handle).
				Msg("Handle changed")
			fallthrough
		case identity.StatusIDAdded:
			logger.Info().
				Str("person_id", c.PersonID).
				Str("numeric_id", p.NumericID).
				Str("handle", p.Handle).
				Msg("Numeric ID added")
		}
	}
	return nil
}

// classifyByHandle builds the record for a claim looked up by handle.
// The claim must carry a handle. found reports whether the directory
// returned p for the handle, matched case-insensitively; whether the
// handle changed is decided case-sensitively.
func classifyByHandle(c identity.Claim, p identity.Profile, found bool) identity.Record {
	rec := identity.Record{PersonID: c.PersonID}
	switch {
	case !found:
		rec.PreviousHandle = clone(c.Handle)
		rec.Status = identity.StatusHandleNotFound
	case *c.Handle != p.Handle:
		rec.NumericID = clone(&p.NumericID)
		rec.CurrentHandle = clone(&p.Handle)
		rec.PreviousHandle = clone(c.Handle)
		rec.Status = identity.StatusIDAddedHandleUpdated
	default:
		rec.NumericID = clone(&p.NumericID)
		rec.CurrentHandle = clone(&p.Handle)
		rec.Status = identity.StatusIDAdded
	}
	return rec
}
