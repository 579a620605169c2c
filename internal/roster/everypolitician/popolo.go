package everypolitician

import (
	"strings"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
)

// country is one entry of countries.json.
type country struct {
	Name         string        `json:"name"`
	Code         string        `json:"code"`
	Slug         string        `json:"slug"`
	Legislatures []legislature `json:"legislatures"`
}

type legislature struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PopoloURL string `json:"popolo_url"`
}

// popolo is the subset of a Popolo document the roster needs.
type popolo struct {
	Persons []person `json:"persons"`
}

type person struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Identifiers    []identifier    `json:"identifiers"`
	ContactDetails []contactDetail `json:"contact_details"`
	Links          []link          `json:"links"`
}

type identifier struct {
	Scheme     string `json:"scheme"`
	Identifier string `json:"identifier"`
}

type contactDetail struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type link struct {
	Note string `json:"note"`
	URL  string `json:"url"`
}

// identifierValues returns the person's identifiers for scheme, in document order.
func (p person) identifierValues(scheme string) []string {
	var out []string
	for _, id := range p.Identifiers {
		if id.Scheme == scheme && id.Identifier != "" {
			out = append(out, id.Identifier)
		}
	}
	return out
}

// handles returns every handle recorded for the person: contact details of the
// scheme's type first, then links noted with it. Values are normalized and
// de-duplicated keeping the first occurrence.
func (p person) handles(scheme string) []string {
	var raw []string
	for _, cd := range p.ContactDetails {
		if strings.EqualFold(cd.Type, scheme) {
			raw = append(raw, cd.Value)
		}
	}
	for _, l := range p.Links {
		if strings.EqualFold(l.Note, scheme) {
			raw = append(raw, l.URL)
		}
	}

	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, r := range raw {
		h := identity.NormalizeHandle(r)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
