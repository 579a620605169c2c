// Package file reads a roster from a local YAML document.
//
// The document mirrors the EveryPolitician hierarchy, with persons inlined
// under their legislature:
//
//	countries:
//	  - name: Germany
//	    code: DE
//	    slug: Germany
//	    legislatures:
//	      - name: Bundestag
//	        slug: Bundestag
//	        persons:
//	          - id: p-1
//	            claims:
//	              - handle: someone
//	                id: "12345"
package file

import (
	"context"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/jkobl1/berlin-is-twitter-data/internal/roster"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
)

// SourceName identifies this source in logs and results.
const SourceName = "file"

var _ roster.Source = (*Source)(nil)

type document struct {
	Countries []fileCountry `yaml:"countries"`
}

type fileCountry struct {
	Name         string            `yaml:"name"`
	Code         string            `yaml:"code"`
	Slug         string            `yaml:"slug"`
	Legislatures []fileLegislature `yaml:"legislatures"`
}

type fileLegislature struct {
	Name    string          `yaml:"name"`
	Slug    string          `yaml:"slug"`
	Persons []roster.Person `yaml:"persons"`
}

// Source serves a roster loaded from disk.
type Source struct {
	path      string
	countries []roster.Country
	persons   map[string][]roster.Person
}

// Open reads and parses the roster at path.
func Open(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(path, data)
}

// Parse builds a source from YAML data; name is used in errors only.
func Parse(name string, data []byte) (*Source, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}

	s := &Source{path: name, persons: make(map[string][]roster.Person)}
	for _, fc := range doc.Countries {
		slug := fc.Slug
		if slug == "" {
			slug = fc.Name
		}
		c := roster.Country{Name: fc.Name, Code: fc.Code, Slug: slug}
		for _, fl := range fc.Legislatures {
			legSlug := fl.Slug
			if legSlug == "" {
				legSlug = fl.Name
			}
			leg := roster.Legislature{Name: fl.Name, Slug: legSlug, Country: slug}
			c.Legislatures = append(c.Legislatures, leg)
			s.persons[key(leg)] = fl.Persons
		}
		s.countries = append(s.countries, c)
	}
	return s, nil
}

// Name implements roster.Source.
func (s *Source) Name() string {
	return SourceName
}

// Path returns where the roster was read from.
func (s *Source) Path() string {
	return s.path
}

// Countries implements roster.Source.
func (s *Source) Countries(_ context.Context) ([]roster.Country, error) {
	return s.countries, nil
}

// Persons implements roster.Source.
func (s *Source) Persons(_ context.Context, leg roster.Legislature) ([]roster.Person, error) {
	persons, ok := s.persons[key(leg)]
	if !ok {
		return nil, errors.NewNotFoundError("legislature", key(leg))
	}
	return persons, nil
}

func key(leg roster.Legislature) string {
	return leg.Country + "/" + leg.Slug
}
