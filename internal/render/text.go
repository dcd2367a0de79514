// Package render contains the terminal renderer of the solar clock.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/chrissnell/noaaclock/internal/engine"
	"github.com/chrissnell/noaaclock/pkg/solar"
)

// dialWidth is the number of cells in the text dial
const dialWidth = 48

// Text writes a readout line for every snapshot and a day header whenever the
// civil date or the effective offset changes.
type Text struct {
	w io.Writer

	mu     sync.Mutex
	header string
}

// NewText creates a text renderer writing to w
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Render implements engine.Renderer
func (t *Text) Render(s *engine.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := fmt.Sprintf("%s|%s|%g", s.Location.Name, s.LocalTime.Format("2006-01-02"), s.EffectiveTZ)
	if key != t.header {
		t.header = key
		fmt.Fprint(t.w, Header(s))
	}
	fmt.Fprintln(t.w, Line(s))
}

// Header describes the day: location, offset, sunrise, noon, sunset and the
// elevation extremes of the table.
func Header(s *engine.Snapshot) string {
	var b strings.Builder
	loc := s.Location

	fmt.Fprintf(&b, "%s  lat %.3f  lon %.3f  %s", loc.Name, loc.Latitude, loc.Longitude, s.LocalTime.Format("2006-01-02 MST"))
	if s.DSTAdjustment != 0 {
		fmt.Fprintf(&b, " (summer time)")
	}
	b.WriteString("\n")

	switch s.Events.Condition {
	case solar.PolarDay:
		fmt.Fprintf(&b, "  polar day, solar noon %s\n", solar.FormatFraction(s.Events.SolarNoon))
	case solar.PolarNight:
		fmt.Fprintf(&b, "  polar night, solar noon %s\n", solar.FormatFraction(s.Events.SolarNoon))
	default:
		fmt.Fprintf(&b, "  sunrise %s  noon %s  sunset %s  daylight %s\n",
			solar.FormatFraction(s.Events.Sunrise),
			solar.FormatFraction(s.Events.SolarNoon),
			solar.FormatFraction(s.Events.Sunset),
			solar.FormatMinutes(s.Events.DaylightMinutes))
	}

	fmt.Fprintf(&b, "  highest %.2f° at %s  lowest %.2f° at %s\n",
		s.Summary.MaxElevationDeg, solar.FormatMinutes(float64(s.Summary.MaxElevationMinute)),
		s.Summary.MinElevationDeg, solar.FormatMinutes(float64(s.Summary.MinElevationMinute)))
	return b.String()
}

// Line is the one-line readout of the current minute
func Line(s *engine.Snapshot) string {
	c := s.Current
	return fmt.Sprintf("%s  solar %s  elev %7.3f°  az %7.3f°  lon %7.3f°  %-12s %s",
		s.LocalTime.Format("15:04"),
		s.SolarClock(),
		c.CorrectedElevationDeg,
		c.AzimuthDeg,
		c.ApparentLongitudeDeg,
		s.Band,
		Dial(s.Pointer),
	)
}

// Dial draws the pointer fraction on a 24-hour bar with solar midnight at both
// ends and solar noon in the middle.
func Dial(fraction float64) string {
	cells := []rune(strings.Repeat("·", dialWidth))
	cells[dialWidth/2] = '|'
	i := int(math.Floor(fraction * dialWidth))
	if i < 0 {
		i = 0
	}
	if i >= dialWidth {
		i = dialWidth - 1
	}
	cells[i] = '*'
	return "[" + string(cells) + "]"
}
