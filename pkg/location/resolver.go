package location

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound is wrapped by ConfigurationError when no provider knows a name
var ErrNotFound = errors.New("location not found")

// ConfigurationError reports a location name that no provider could resolve
type ConfigurationError struct {
	Name      string
	Providers []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %q (searched %s)", ErrNotFound, e.Name, strings.Join(e.Providers, ", "))
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNotFound
}

// Resolver tries its providers in order until one resolves a name
type Resolver struct {
	providers []Provider
	logger    *zap.SugaredLogger
}

// NewResolver creates a resolver over the given providers, highest priority first
func NewResolver(logger *zap.SugaredLogger, providers ...Provider) *Resolver {
	return &Resolver{providers: providers, logger: logger}
}

// Resolve returns the first provider's match for name. Provider failures are
// logged and the next provider is tried.
func (r *Resolver) Resolve(name string) (Location, error) {
	var searched []string
	for _, p := range r.providers {
		searched = append(searched, p.Name())
		if strings.TrimSpace(name) == "" {
			continue
		}

		loc, ok, err := p.Resolve(name)
		if err != nil {
			r.logger.Warnf("location provider %s failed: %v", p.Name(), err)
			continue
		}
		if ok {
			r.logger.Debugf("resolved %q via %s: %v", name, p.Name(), loc)
			return loc, nil
		}
	}
	return Location{}, &ConfigurationError{Name: name, Providers: searched}
}

// KnownNames lists the names every provider can resolve, in priority order and
// without duplicates (compared case-insensitively).
func (r *Resolver) KnownNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range r.providers {
		pn, err := p.Names()
		if err != nil {
			r.logger.Warnf("location provider %s failed to list names: %v", p.Name(), err)
			continue
		}
		for _, n := range pn {
			key := strings.ToLower(n)
			if seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, n)
		}
	}
	return names
}

// Providers returns the provider chain in priority order
func (r *Resolver) Providers() []Provider {
	return r.providers
}
