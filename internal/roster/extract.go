package roster

import (
	"context"
	"strings"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// Stats counts what extraction saw.
type Stats struct {
	Countries    int `json:"countries" yaml:"countries"`
	Legislatures int `json:"legislatures" yaml:"legislatures"`
	Persons      int `json:"persons" yaml:"persons"`
	Claims       int `json:"claims" yaml:"claims"`
	// SkippedClaims counts claims with neither a handle nor an id.
	SkippedClaims int `json:"skipped_claims" yaml:"skipped_claims"`
	// InvalidHandles counts handles dropped because they contain a comma or
	// whitespace. The claim is kept when it still carries an id.
	InvalidHandles int `json:"invalid_handles" yaml:"invalid_handles"`
	// SkippedPersons counts persons without an id.
	SkippedPersons int `json:"skipped_persons" yaml:"skipped_persons"`
	// PositionalPairings counts persons whose handles and ids were paired by
	// position although they had more than one of either.
	PositionalPairings int `json:"positional_pairings" yaml:"positional_pairings"`
}

// Extraction is the flattened roster.
type Extraction struct {
	Source string           `json:"source" yaml:"source"`
	Claims []identity.Claim `json:"claims" yaml:"claims"`
	Stats  Stats            `json:"stats" yaml:"stats"`
}

type extractOptions struct {
	countries []string
}

// Option configures Extract.
type Option func(*extractOptions)

// WithCountries restricts extraction to the countries matching any of filters
// (code, slug or name, case-insensitive). Empty filters are ignored.
func WithCountries(filters ...string) Option {
	return func(o *extractOptions) {
		for _, f := range filters {
			if f = strings.TrimSpace(f); f != "" {
				o.countries = append(o.countries, f)
			}
		}
	}
}

// Extract walks src and returns one claim per (person, identity claim).
// Duplicates are kept. Any failure to read the roster is returned as is:
// a partial roster must not reach a replace-all sink.
func Extract(ctx context.Context, src Source, opts ...Option) (*Extraction, error) {
	o := &extractOptions{}
	for _, opt := range opts {
		opt(o)
	}

	ctx = logging.WithSource(ctx, src.Name())
	logger := logging.FromContext(ctx)

	countries, err := src.Countries(ctx)
	if err != nil {
		return nil, errors.WrapResource("fetch", "roster", src.Name(), err)
	}

	countries, err = filterCountries(countries, o.countries)
	if err != nil {
		return nil, err
	}

	ex := &Extraction{Source: src.Name(), Claims: []identity.Claim{}}
	for _, country := range countries {
		ex.Stats.Countries++
		logger.Info().Str("country", country.Name).Msg("Fetching roster data")

		for _, leg := range country.Legislatures {
			if err := ctx.Err(); err != nil {
				return nil, errors.WrapResource("fetch", "legislature", leg.Slug, errors.Join(errors.ErrCanceled, err))
			}

			persons, err := src.Persons(ctx, leg)
			if err != nil {
				return nil, errors.WrapResource("fetch", "legislature", country.Slug+"/"+leg.Slug, err)
			}
			ex.Stats.Legislatures++

			for _, p := range persons {
				ex.addPerson(ctx, p)
			}
		}
	}

	logger.Info().
		Int("persons", ex.Stats.Persons).
		Int("claims", ex.Stats.Claims).
		Int("skipped", ex.Stats.SkippedClaims).
		Int("invalid_handles", ex.Stats.InvalidHandles).
		Msg("Roster extracted")
	return ex, nil
}

func (ex *Extraction) addPerson(ctx context.Context, p Person) {
	if p.ID == "" {
		ex.Stats.SkippedPersons++
		logging.FromContext(ctx).Warn().Str("name", p.Name).Msg("Skipping person without an id")
		return
	}
	ex.Stats.Persons++

	pairs := p.Claims
	if len(pairs) == 0 {
		if len(p.Handles) > 1 || len(p.IDs) > 1 {
			ex.Stats.PositionalPairings++
			logging.FromContext(logging.WithPerson(ctx, p.ID)).Warn().
				Strs("handles", p.Handles).
				Strs("ids", p.IDs).
				Msg("Pairing handles and ids by position")
		}
		pairs = zipLongest(p.Handles, p.IDs)
	}

	for _, pair := range pairs {
		if h := identity.NormalizeHandle(pair.Handle); h != "" && !identity.ValidHandle(h) {
			ex.Stats.InvalidHandles++
			logging.FromContext(logging.WithPerson(ctx, p.ID)).Warn().
				Str("handle", pair.Handle).
				Msg("Dropping handle with a comma or whitespace")
		}
		c := identity.NewClaim(p.ID, pair.Handle, pair.ID)
		if c.IsEmpty() {
			ex.Stats.SkippedClaims++
			continue
		}
		ex.Claims = append(ex.Claims, c)
		ex.Stats.Claims++
	}
}

// zipLongest pairs handles and ids by index, padding the shorter with "".
func zipLongest(handles, ids []string) []PairedClaim {
	n := max(len(handles), len(ids))
	pairs := make([]PairedClaim, n)
	for i := range n {
		if i < len(handles) {
			pairs[i].Handle = handles[i]
		}
		if i < len(ids) {
			pairs[i].ID = ids[i]
		}
	}
	return pairs
}

func filterCountries(countries []Country, filters []string) ([]Country, error) {
	if len(filters) == 0 {
		return countries, nil
	}

	var out []Country
	for _, c := range countries {
		for _, f := range filters {
			if c.Matches(f) {
				out = append(out, c)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.NewValidationError("countries", filters, "no country in the roster matches the filter")
	}
	return out, nil
}

func equalFold(a, b string) bool {
	return b != "" && strings.EqualFold(a, b)
}
