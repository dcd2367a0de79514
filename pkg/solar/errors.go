package solar

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateGeometry is returned when a sample cannot be computed because a
	// trigonometric term is undefined, e.g. the azimuth at the poles.
	ErrDegenerateGeometry = errors.New("degenerate solar geometry")

	// ErrInvalidObserver is returned for non-finite or out-of-range coordinates.
	ErrInvalidObserver = errors.New("invalid observer")
)

// DegenerateError describes which quantity of the NOAA pipeline became undefined.
type DegenerateError struct {
	Quantity  string
	Value     float64
	JulianDay float64
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("%v: %s undefined (value %g) at JD %.5f", ErrDegenerateGeometry, e.Quantity, e.Value, e.JulianDay)
}

func (e *DegenerateError) Unwrap() error {
	return ErrDegenerateGeometry
}
