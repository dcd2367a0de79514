package location

import (
	"strings"
)

// Provider is one source of locations
type Provider interface {
	// Name identifies the provider in logs and in Location.Source
	Name() string

	// Resolve looks name up case-insensitively. A provider whose backing data is
	// absent reports not found rather than an error.
	Resolve(name string) (Location, bool, error)

	// Names lists every name the provider can resolve, in lookup order
	Names() ([]string, error)
}

type staticEntry struct {
	loc     Location
	aliases []string
}

// StaticProvider serves a fixed, in-memory list of locations
type StaticProvider struct {
	name    string
	entries []staticEntry
}

// NewStaticProvider creates an empty in-memory provider
func NewStaticProvider(name string) *StaticProvider {
	return &StaticProvider{name: name}
}

// Add appends a location, resolvable by its own name and by any of the aliases
func (p *StaticProvider) Add(loc Location, aliases ...string) *StaticProvider {
	loc.Source = p.name
	p.entries = append(p.entries, staticEntry{loc: loc, aliases: aliases})
	return p
}

// Name implements Provider
func (p *StaticProvider) Name() string {
	return p.name
}

// Resolve implements Provider
func (p *StaticProvider) Resolve(name string) (Location, bool, error) {
	for _, e := range p.entries {
		if strings.EqualFold(e.loc.Name, name) {
			return e.loc, true, nil
		}
		for _, a := range e.aliases {
			if strings.EqualFold(a, name) {
				return e.loc, true, nil
			}
		}
	}
	return Location{}, false, nil
}

// Names implements Provider
func (p *StaticProvider) Names() ([]string, error) {
	var names []string
	for _, e := range p.entries {
		names = append(names, e.loc.Name)
		names = append(names, e.aliases...)
	}
	return names, nil
}

// Len returns the number of locations held, not counting aliases
func (p *StaticProvider) Len() int {
	return len(p.entries)
}
