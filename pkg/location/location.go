// Package location resolves location names to coordinates, UTC offsets and
// daylight-saving rules through an ordered chain of providers.
package location

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/noaaclock/pkg/dst"
	"github.com/chrissnell/noaaclock/pkg/solar"
)

// ErrInvalidLocation is returned for coordinates or offsets out of range
var ErrInvalidLocation = errors.New("invalid location")

// Location is a named place. Longitude is positive east and TZ is the base
// (standard time) UTC offset in hours.
type Location struct {
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	TZ        float64  `json:"timezone"`
	DST       dst.Rule `json:"dst"`
	Source    string   `json:"source,omitempty"`
}

// New returns a validated Location
func New(name string, lat, lon, tz float64, rule dst.Rule) (Location, error) {
	l := Location{Name: name, Latitude: lat, Longitude: lon, TZ: tz, DST: rule}
	if err := l.Validate(); err != nil {
		return Location{}, err
	}
	return l, nil
}

// Validate checks the coordinate and offset ranges
func (l Location) Validate() error {
	for _, v := range []float64{l.Latitude, l.Longitude, l.TZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %q has non-finite values", ErrInvalidLocation, l.Name)
		}
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: %q latitude %v outside [-90, 90]", ErrInvalidLocation, l.Name, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: %q longitude %v outside [-180, 180]", ErrInvalidLocation, l.Name, l.Longitude)
	}
	if l.TZ < -14 || l.TZ > 14 {
		return fmt.Errorf("%w: %q timezone %v outside [-14, 14]", ErrInvalidLocation, l.Name, l.TZ)
	}
	return nil
}

// Observer returns the location's coordinates for the solar calculator
func (l Location) Observer() solar.Observer {
	return solar.Observer{Latitude: l.Latitude, Longitude: l.Longitude}
}

func (l Location) String() string {
	return fmt.Sprintf("%s (%.3f, %.3f, UTC%+g, DST %v)", l.Name, l.Latitude, l.Longitude, l.TZ, l.DST)
}
