// Package dst evaluates the daylight-saving offset that applies to a location's
// base UTC offset.
package dst

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Rule selects how daylight-saving time is applied
type Rule int

const (
	// None is a fixed offset with no daylight-saving time
	None Rule = iota
	// EU is the European Union rule: summer time from the last Sunday of March
	// to the last Sunday of October.
	EU
)

// ParseRule maps a dataset tag to a Rule. Only "EU" (any case) selects the EU
// rule; every other tag, including an empty one, means no daylight saving.
func ParseRule(tag string) Rule {
	if strings.EqualFold(strings.TrimSpace(tag), "EU") {
		return EU
	}
	return None
}

func (r Rule) String() string {
	switch r {
	case None:
		return "none"
	case EU:
		return "EU"
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// Tag returns the dataset token for the rule ("" for None)
func (r Rule) Tag() string {
	if r == EU {
		return "EU"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler
func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Rule) UnmarshalText(text []byte) error {
	*r = ParseRule(string(text))
	return nil
}

// LastSunday returns midnight (UTC) of the last Sunday of the given month,
// searching backwards from the month's last day.
func LastSunday(year int, month time.Month) time.Time {
	d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// EUTransitions returns the dates summer time starts and ends in the given year
func EUTransitions(year int) (march, october time.Time) {
	return LastSunday(year, time.March), LastSunday(year, time.October)
}

// Adjustment returns the daylight-saving offset in whole hours for the location
// wall clock reading wall, expressed in the location's standard (base) offset.
//
// The EU rule is resolved at hour granularity: on a transition date the new
// offset applies once the standard-time hour is past 3.
func Adjustment(rule Rule, wall time.Time) int {
	if rule != EU {
		return 0
	}

	march, october := EUTransitions(wall.Year())
	day := wall.YearDay()
	hour := wall.Hour()

	n := 0
	if day == march.YearDay() && hour > 3 {
		n = 1
	}
	if day > march.YearDay() {
		n = 1
	}
	if day == october.YearDay() && hour > 3 {
		n = 0
	}
	if day > october.YearDay() {
		n = 0
	}
	return n
}

// Effective returns the UTC offset in hours in force at the instant now for a
// location with the given base offset and rule, together with the adjustment.
func Effective(rule Rule, baseTZ float64, now time.Time) (tz float64, adj int) {
	if rule == None {
		return baseTZ, 0
	}
	adj = Adjustment(rule, now.In(FixedZone(baseTZ)))
	return baseTZ + float64(adj), adj
}

// FixedZone returns a location with a constant UTC offset given in (possibly
// fractional) hours.
func FixedZone(hours float64) *time.Location {
	secs := int(math.Round(hours * 3600))
	sign := '+'
	abs := secs
	if secs < 0 {
		sign = '-'
		abs = -secs
	}
	return time.FixedZone(fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, abs%3600/60), secs)
}
