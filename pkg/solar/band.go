package solar

import (
	"fmt"
	"strings"
)

// Band is a range of corrected solar elevation, the colour zones of the dial
type Band int

const (
	Day          Band = iota // >= 3°
	LowSun                   // 0° .. 3°
	Civil                    // -6° .. 0°
	Nautical                 // -12° .. -6°
	Astronomical             // -18° .. -12°
	Night                    // < -18°
)

var bandNames = []string{"day", "low-sun", "civil", "nautical", "astronomical", "night"}

func (b Band) String() string {
	if b < 0 || int(b) >= len(bandNames) {
		return fmt.Sprintf("band(%d)", int(b))
	}
	return bandNames[b]
}

// MarshalText implements encoding.TextMarshaler
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Band) UnmarshalText(text []byte) error {
	for i, n := range bandNames {
		if strings.EqualFold(n, string(text)) {
			*b = Band(i)
			return nil
		}
	}
	return fmt.Errorf("unknown band %q", text)
}

// Classify returns the band of a refraction-corrected elevation in degrees
func Classify(elev float64) Band {
	switch {
	case elev >= 3:
		return Day
	case elev >= 0:
		return LowSun
	case elev >= -6:
		return Civil
	case elev >= -12:
		return Nautical
	case elev >= -18:
		return Astronomical
	}
	return Night
}
