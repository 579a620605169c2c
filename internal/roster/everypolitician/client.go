// Package everypolitician reads a roster from an EveryPolitician style index:
// a countries.json listing legislatures, each pointing at a Popolo JSON file.
package everypolitician

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/internal/transport"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// SourceName identifies this source in logs and results.
const SourceName = "everypolitician"

var _ roster.Source = (*Client)(nil)

// Client fetches the index and Popolo files over HTTP.
type Client struct {
	transport *transport.Client
	indexURL  string
	scheme    string
	opts      []transport.Option
}

// Option configures a Client.
type Option func(*Client)

// WithIndexURL sets the countries.json location.
func WithIndexURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.indexURL = u
		}
	}
}

// WithHTTPClient replaces the HTTP client used for every fetch.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.opts = append(c.opts, transport.WithHTTPClient(hc))
	}
}

// WithUserAgent sets the User-Agent sent with every fetch.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.opts = append(c.opts, transport.WithUserAgent(ua))
	}
}

// WithScheme sets the identifier scheme and contact type read from Popolo
// persons. It defaults to "twitter".
func WithScheme(scheme string) Option {
	return func(c *Client) {
		if scheme != "" {
			c.scheme = scheme
		}
	}
}

// New creates a client.
func New(opts ...Option) *Client {
	c := &Client{
		indexURL: constants.DefaultRosterURL,
		scheme:   constants.IdentifierScheme,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transport = transport.New(nil, "", c.opts...)
	return c
}

// Name implements roster.Source.
func (c *Client) Name() string {
	return SourceName
}

// Countries implements roster.Source.
func (c *Client) Countries(ctx context.Context) ([]roster.Country, error) {
	var index []country
	if err := c.get(ctx, c.indexURL, &index); err != nil {
		return nil, err
	}

	countries := make([]roster.Country, 0, len(index))
	for _, ic := range index {
		rc := roster.Country{Name: ic.Name, Code: ic.Code, Slug: ic.Slug}
		for _, il := range ic.Legislatures {
			popolo, err := c.resolve(il.PopoloURL)
			if err != nil {
				return nil, errors.WrapParse("url", il.PopoloURL, err)
			}
			rc.Legislatures = append(rc.Legislatures, roster.Legislature{
				Name:      il.Name,
				Slug:      il.Slug,
				Country:   ic.Slug,
				PopoloURL: popolo,
			})
		}
		countries = append(countries, rc)
	}

	logging.FromContext(ctx).Debug().Int("countries", len(countries)).Msg("Loaded roster index")
	return countries, nil
}

// Persons implements roster.Source.
func (c *Client) Persons(ctx context.Context, leg roster.Legislature) ([]roster.Person, error) {
	if leg.PopoloURL == "" {
		return nil, errors.NewValidationError("popolo_url", leg.Slug, "legislature has no Popolo URL")
	}

	var doc popolo
	if err := c.get(ctx, leg.PopoloURL, &doc); err != nil {
		return nil, err
	}

	persons := make([]roster.Person, 0, len(doc.Persons))
	for _, p := range doc.Persons {
		persons = append(persons, roster.Person{
			ID:      p.ID,
			Name:    p.Name,
			Handles: p.handles(c.scheme),
			IDs:     p.identifierValues(c.scheme),
		})
	}
	return persons, nil
}

func (c *Client) get(ctx context.Context, u string, target any) error {
	resp, err := c.transport.Get(ctx, u)
	if err != nil {
		return &errors.APIError{
			Provider: SourceName,
			Endpoint: u,
			Message:  "request failed",
			Err:      err,
		}
	}
	return transport.DecodeResponse(resp, SourceName, target)
}

// resolve makes a Popolo URL absolute against the index URL.
func (c *Client) resolve(ref string) (string, error) {
	base, err := url.Parse(c.indexURL)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(r).String(), nil
}
