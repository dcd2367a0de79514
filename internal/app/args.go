package app

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/noaaclock/internal/config"
)

var timeNow = time.Now

// ErrUsage is returned for positional arguments that match neither invocation form
var ErrUsage = errors.New("invalid arguments")

// Selection is what the user asked to show: a named location or explicit
// coordinates, and optionally the UTC offset the machine clock runs in.
type Selection struct {
	Name        string
	Coordinates *config.Coordinates
	HomeTZ      *float64
}

// Empty reports whether neither a name nor coordinates were given
func (s Selection) Empty() bool {
	return s.Name == "" && s.Coordinates == nil
}

// ParseArgs parses the positional arguments
//
//	<location> [homeTimezone]
//	<latitude> <longitude> <timezone> [homeTimezone]
func ParseArgs(args []string) (Selection, error) {
	var sel Selection
	switch len(args) {
	case 0:
		return sel, nil
	case 1, 2:
		sel.Name = args[0]
		if len(args) == 2 {
			tz, err := parseHours(args[1])
			if err != nil {
				return Selection{}, fmt.Errorf("%w: home timezone: %v", ErrUsage, err)
			}
			sel.HomeTZ = &tz
		}
		return sel, nil
	case 3, 4:
		var vals [3]float64
		for i, a := range args[:3] {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return Selection{}, fmt.Errorf("%w: %q is not a number", ErrUsage, a)
			}
			vals[i] = v
		}
		sel.Coordinates = &config.Coordinates{Latitude: vals[0], Longitude: vals[1], Timezone: vals[2]}
		if _, err := sel.Coordinates.Location(); err != nil {
			return Selection{}, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		if len(args) == 4 {
			tz, err := parseHours(args[3])
			if err != nil {
				return Selection{}, fmt.Errorf("%w: home timezone: %v", ErrUsage, err)
			}
			sel.HomeTZ = &tz
		}
		return sel, nil
	}
	return Selection{}, fmt.Errorf("%w: expected 1 to 4 arguments, got %d", ErrUsage, len(args))
}

func parseHours(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < -14 || v > 14 {
		return 0, fmt.Errorf("%v outside [-14, 14]", v)
	}
	return v, nil
}

// Merge fills what the command line left unset from the configuration
func (s Selection) Merge(cfg *config.Config) Selection {
	if s.Empty() {
		if cfg.Coordinates != nil {
			c := *cfg.Coordinates
			s.Coordinates = &c
		} else {
			s.Name = cfg.Location
		}
	}
	if s.HomeTZ == nil && cfg.HomeTimezone != nil {
		tz := *cfg.HomeTimezone
		s.HomeTZ = &tz
	}
	return s
}

// PrintKnownLocations writes the names the resolver knows, wrapped to width columns
func PrintKnownLocations(w io.Writer, names []string, width int) {
	fmt.Fprintln(w, "Currently known locations are:")
	line := ""
	for _, n := range names {
		if line != "" && len(line)+len(n)+2 > width {
			fmt.Fprintln(w, "  "+line)
			line = ""
		}
		if line != "" {
			line += ", "
		}
		line += n
	}
	if line != "" {
		fmt.Fprintln(w, "  "+strings.TrimSpace(line))
	}
}
