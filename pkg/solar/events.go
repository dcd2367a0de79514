package solar

import (
	"fmt"
	"math"
)

// Condition tells whether the Sun rises and sets on a given day
type Condition int

const (
	Normal Condition = iota
	PolarDay
	PolarNight
)

func (c Condition) String() string {
	switch c {
	case Normal:
		return "normal"
	case PolarDay:
		return "polar-day"
	case PolarNight:
		return "polar-night"
	}
	return fmt.Sprintf("condition(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler
func (c Condition) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// sunriseZenith is the zenith distance of the Sun's upper limb at apparent
// sunrise: 90° plus 50' for refraction and semi-diameter.
const sunriseZenith = 90.833

// DayEvents holds sunrise, solar noon and sunset as fractions of the local civil
// day. Sunrise and Sunset are only meaningful when Condition is Normal.
type DayEvents struct {
	Condition           Condition `json:"condition"`
	SunriseHourAngleDeg float64   `json:"sunrise_hour_angle_deg"`
	SolarNoon           float64   `json:"solar_noon"`
	Sunrise             float64   `json:"sunrise"`
	Sunset              float64   `json:"sunset"`
	DaylightMinutes     float64   `json:"daylight_minutes"`
}

// HasRiseSet reports whether the Sun crosses the horizon on this day
func (e DayEvents) HasRiseSet() bool {
	return e.Condition == Normal
}

// Events derives the day's sunrise, solar noon and sunset from a sample computed
// for the same observer and moment.
func Events(obs Observer, m Moment, s Sample) DayEvents {
	ev := DayEvents{
		SolarNoon: (720 - 4*obs.Longitude - s.EquationOfTimeMinutes + m.TZ*60) / MinutesPerDay,
	}

	denom := cosDeg(obs.Latitude) * cosDeg(s.DeclinationDeg)
	if math.Abs(denom) < divisorEpsilon {
		// At the poles the Sun is up all day when it is on the observer's side
		// of the equator.
		if obs.Latitude*s.DeclinationDeg > 0 {
			return polar(ev, PolarDay)
		}
		return polar(ev, PolarNight)
	}

	cosH := cosDeg(sunriseZenith)/denom - tanDeg(obs.Latitude)*tanDeg(s.DeclinationDeg)
	switch {
	case cosH < -1:
		return polar(ev, PolarDay)
	case cosH > 1:
		return polar(ev, PolarNight)
	}

	ha := ToDegrees(math.Acos(cosH))
	ev.Condition = Normal
	ev.SunriseHourAngleDeg = ha
	ev.Sunrise = ev.SolarNoon - ha*4/MinutesPerDay
	ev.Sunset = ev.SolarNoon + ha*4/MinutesPerDay
	ev.DaylightMinutes = 8 * ha
	return ev
}

func polar(ev DayEvents, c Condition) DayEvents {
	ev.Condition = c
	if c == PolarDay {
		ev.SunriseHourAngleDeg = 180
		ev.DaylightMinutes = MinutesPerDay
	}
	return ev
}

// FormatMinutes renders a minute-of-day value as HH:MM, wrapping into one day
func FormatMinutes(minutes float64) string {
	m := int(NormalizeMinutes(math.Round(minutes)))
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatFraction renders a day fraction as HH:MM
func FormatFraction(f float64) string {
	return FormatMinutes(f * MinutesPerDay)
}
