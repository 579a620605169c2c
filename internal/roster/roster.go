// Package roster flattens a roster of known people into identity claims.
//
// A roster is hierarchical: countries contain legislatures, legislatures
// contain persons. Each person carries the handles and numeric ids recorded
// for them on the directory platform, and optionally an explicit list of
// (handle, id) pairs. Sources live in sub-packages; Extract walks any of them.
package roster

import "context"

// Country is one top-level roster entry.
type Country struct {
	Name         string        `json:"name" yaml:"name"`
	Code         string        `json:"code" yaml:"code"`
	Slug         string        `json:"slug" yaml:"slug"`
	Legislatures []Legislature `json:"legislatures" yaml:"legislatures"`
}

// Matches reports whether filter names this country by code, slug or name.
func (c Country) Matches(filter string) bool {
	return equalFold(filter, c.Code) || equalFold(filter, c.Slug) || equalFold(filter, c.Name)
}

// Legislature is one body within a country. PopoloURL is only set by sources
// that fetch persons over HTTP.
type Legislature struct {
	Name      string `json:"name" yaml:"name"`
	Slug      string `json:"slug" yaml:"slug"`
	Country   string `json:"country,omitempty" yaml:"country,omitempty"`
	PopoloURL string `json:"popolo_url,omitempty" yaml:"popolo_url,omitempty"`
}

// Person is one roster member and the identity data recorded for them.
type Person struct {
	ID      string        `json:"id" yaml:"id"`
	Name    string        `json:"name,omitempty" yaml:"name,omitempty"`
	Handles []string      `json:"handles,omitempty" yaml:"handles,omitempty"`
	IDs     []string      `json:"ids,omitempty" yaml:"ids,omitempty"`
	Claims  []PairedClaim `json:"claims,omitempty" yaml:"claims,omitempty"`
}

// PairedClaim is an explicit (handle, id) pair. When a person has any, the
// Handles and IDs sequences are ignored.
type PairedClaim struct {
	Handle string `json:"handle,omitempty" yaml:"handle,omitempty"`
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Source provides read-only access to a roster.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Countries returns every country with its legislatures, in provider order.
	Countries(ctx context.Context) ([]Country, error)
	// Persons returns the members of one legislature, in provider order.
	Persons(ctx context.Context, legislature Legislature) ([]Person, error)
}
