// Package directory is a client for the account directory that identity claims
// are reconciled against: a Twitter API v1.1 compatible users/lookup endpoint
// authenticated with an application-only bearer token.
package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jkobl1/berlin-is-twitter-data/internal/transport"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/reconcile"
)

const (
	providerName = "twitter"
	lookupPath   = "/1.1/users/lookup.json"

	// codeNoUserMatches is returned with a 404 when none of the requested users exist.
	codeNoUserMatches = 17
)

var _ reconcile.Directory = (*Client)(nil)

// user is the subset of the user object the lookup needs.
type user struct {
	ID         int64  `json:"id"`
	IDStr      string `json:"id_str"`
	ScreenName string `json:"screen_name"`
}

// Config holds what is needed to connect to the directory.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	UserAgent      string
	HTTPClient     *http.Client
}

// Client looks up accounts by numeric id or by handle.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// New creates a client that sends token as its bearer credential.
func New(baseURL, token string, opts ...transport.Option) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultAPIURL
	}
	return &Client{
		transport: transport.New(&transport.BearerAuth{}, token, opts...),
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Connect exchanges the consumer credentials for a bearer token and returns a
// ready client.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultAPIURL
	}
	token, err := ExchangeToken(ctx, baseURL, cfg.ConsumerKey, cfg.ConsumerSecret, cfg.HTTPClient)
	if err != nil {
		return nil, err
	}

	var opts []transport.Option
	if cfg.HTTPClient != nil {
		opts = append(opts, transport.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, transport.WithUserAgent(cfg.UserAgent))
	}
	return New(baseURL, token, opts...), nil
}

// LookupByIDs returns the accounts whose numeric ids are in ids.
func (c *Client) LookupByIDs(ctx context.Context, ids []string) ([]identity.Profile, error) {
	return c.lookup(ctx, "user_id", ids)
}

// LookupByHandles returns the accounts whose handles are in handles.
// The directory matches handles case-insensitively.
func (c *Client) LookupByHandles(ctx context.Context, handles []string) ([]identity.Profile, error) {
	return c.lookup(ctx, "screen_name", handles)
}

func (c *Client) lookup(ctx context.Context, field string, keys []string) ([]identity.Profile, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if len(keys) > constants.MaxLookupBatchSize {
		return nil, errors.NewValidationError(field, len(keys),
			fmt.Sprintf("at most %d keys per lookup", constants.MaxLookupBatchSize))
	}

	form := url.Values{}
	form.Set(field, strings.Join(keys, ","))
	form.Set("include_entities", "false")

	resp, err := c.transport.PostForm(ctx, c.baseURL+lookupPath, form)
	if err != nil {
		return nil, errors.WrapAPI(providerName, 0, err)
	}

	var users []user
	if err := transport.DecodeResponse(resp, providerName, &users); err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound && apiErr.HasCode(codeNoUserMatches) {
			return nil, nil
		}
		return nil, err
	}

	profiles := make([]identity.Profile, 0, len(users))
	for _, u := range users {
		id := u.IDStr
		if id == "" {
			id = strconv.FormatInt(u.ID, 10)
		}
		profiles = append(profiles, identity.Profile{NumericID: id, Handle: u.ScreenName})
	}
	return profiles, nil
}
