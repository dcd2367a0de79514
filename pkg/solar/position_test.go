package solar

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	meeussolar "github.com/soniakeys/meeus/v3/solar"
)

var helsinki = Observer{Latitude: 60.16, Longitude: 24.83}

// angleDiff returns a-b folded into (-180, 180]
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

func TestAngleConversion(t *testing.T) {
	if got := ToRadians(180); math.Abs(got-math.Pi) > 1e-15 {
		t.Errorf("ToRadians(180) = %v, expected %v", got, math.Pi)
	}
	if got := ToDegrees(math.Pi / 2); math.Abs(got-90) > 1e-12 {
		t.Errorf("ToDegrees(pi/2) = %v, expected 90", got)
	}
	for _, deg := range []float64{-720, -90, -0.5, 0, 1e-9, 45, 359.999, 1e6} {
		if got := ToDegrees(ToRadians(deg)); math.Abs(got-deg) > 1e-9*math.Max(1, math.Abs(deg)) {
			t.Errorf("round trip of %v gave %v", deg, got)
		}
	}
}

func TestDateSerial(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
		want  float64
	}{
		{1900, time.March, 1, 61},
		{2000, time.January, 1, 36526},
		{2024, time.June, 21, 45464},
	}
	for _, tt := range tests {
		if got := DateSerial(tt.year, tt.month, tt.day); got != tt.want {
			t.Errorf("DateSerial(%d, %v, %d) = %v, expected %v", tt.year, tt.month, tt.day, got, tt.want)
		}
	}

	m := Moment{Date: DateSerial(2000, time.January, 1), Fraction: 0.5}
	if got := m.JulianDay(); got != j2000 {
		t.Errorf("JulianDay of 2000-01-01 12:00 UTC = %v, expected %v", got, j2000)
	}

	// A positive UTC offset moves the same wall clock time earlier in absolute time.
	m.TZ = 2
	if got, want := m.JulianDay(), j2000-2.0/24; math.Abs(got-want) > 1e-9 {
		t.Errorf("JulianDay with tz=2 = %v, expected %v", got, want)
	}

	loc := time.FixedZone("EEST", 3*3600)
	if got, want := DateSerialOf(time.Date(2024, 6, 21, 23, 59, 0, 0, loc)), DateSerial(2024, 6, 21); got != want {
		t.Errorf("DateSerialOf = %v, expected %v", got, want)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	m := Moment{Date: DateSerial(2024, time.March, 14), Fraction: 0.3721, TZ: 2}
	a, err := Calculate(helsinki, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Calculate(helsinki, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("identical inputs gave different samples:\n%+v\n%+v", a, b)
	}
}

func TestCalculateMatchesMeeus(t *testing.T) {
	dates := []time.Time{
		time.Date(1992, 10, 13, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2031, 9, 30, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		for _, frac := range []float64{0, 0.25, 0.6} {
			m := Moment{Date: DateSerialOf(d), Fraction: frac}
			s, err := Calculate(helsinki, m)
			if err != nil {
				t.Fatalf("%s %.2f: unexpected error: %v", d.Format("2006-01-02"), frac, err)
			}

			jd := m.JulianDay()
			if got := julian.TimeToJD(d.Add(time.Duration(frac * 24 * float64(time.Hour)))); math.Abs(got-jd) > 1e-6 {
				t.Errorf("%s %.2f: JD %v, meeus gives %v", d.Format("2006-01-02"), frac, jd, got)
			}

			T := (jd - j2000) / daysPerCentury
			if diff := angleDiff(s.ApparentLongitudeDeg, meeussolar.ApparentLongitude(T).Deg()); math.Abs(diff) > 1e-6 {
				t.Errorf("%s %.2f: apparent longitude %v differs from meeus by %v", d.Format("2006-01-02"), frac, s.ApparentLongitudeDeg, diff)
			}

			ra, dec := meeussolar.ApparentEquatorial(jd)
			if diff := s.DeclinationDeg - dec.Deg(); math.Abs(diff) > 1e-3 {
				t.Errorf("%s %.2f: declination %v differs from meeus by %v", d.Format("2006-01-02"), frac, s.DeclinationDeg, diff)
			}
			if diff := angleDiff(s.RightAscensionDeg, ra.Deg()); math.Abs(diff) > 1e-3 {
				t.Errorf("%s %.2f: right ascension %v differs from meeus by %v", d.Format("2006-01-02"), frac, s.RightAscensionDeg, diff)
			}
		}
	}
}

func TestCalculateSolarNoon(t *testing.T) {
	// Around 13 June the equation of time is close to zero, so with the UTC
	// offset set to the observer's own meridian, noon on the clock is solar noon.
	m := Moment{Date: DateSerial(2024, time.June, 13), Fraction: 0.5, TZ: helsinki.Longitude / 15}
	s, err := Calculate(helsinki, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(s.EquationOfTimeMinutes) > 1 {
		t.Errorf("equation of time = %.2f min, expected close to zero", s.EquationOfTimeMinutes)
	}
	if math.Abs(s.SolarTimeMinutes-720) > 1 {
		t.Errorf("solar time = %.2f min, expected ~720", s.SolarTimeMinutes)
	}
	if math.Abs(s.AzimuthDeg-180) > 2 {
		t.Errorf("azimuth = %.2f, expected ~180 (due south)", s.AzimuthDeg)
	}
	// 90 - latitude + declination (~23.2°)
	if math.Abs(s.ElevationDeg-53.0) > 0.5 {
		t.Errorf("elevation = %.2f, expected ~53.0", s.ElevationDeg)
	}
}

func TestCalculateMorningAndEveningQuadrants(t *testing.T) {
	date := DateSerial(2024, time.September, 22)
	morning, err := Calculate(helsinki, Moment{Date: date, Fraction: 0.3, TZ: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	evening, err := Calculate(helsinki, Moment{Date: date, Fraction: 0.75, TZ: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if morning.HourAngleDeg >= 0 || morning.AzimuthDeg <= 0 || morning.AzimuthDeg >= 180 {
		t.Errorf("morning: hour angle %.2f, azimuth %.2f; expected negative hour angle and eastern azimuth", morning.HourAngleDeg, morning.AzimuthDeg)
	}
	if evening.HourAngleDeg <= 0 || evening.AzimuthDeg <= 180 || evening.AzimuthDeg >= 360 {
		t.Errorf("evening: hour angle %.2f, azimuth %.2f; expected positive hour angle and western azimuth", evening.HourAngleDeg, evening.AzimuthDeg)
	}
}

func TestCalculateNegativeSolarTime(t *testing.T) {
	// Far west of the zone meridian just after midnight the solar time goes
	// negative and the hour angle is taken from the "+180" branch.
	obs := Observer{Latitude: 40, Longitude: -170}
	s, err := Calculate(obs, Moment{Date: DateSerial(2024, time.February, 11), Fraction: 0.01, TZ: -9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.SolarTimeMinutes >= 0 {
		t.Fatalf("solar time = %.2f, expected negative", s.SolarTimeMinutes)
	}
	if want := s.SolarTimeMinutes/4 + 180; s.HourAngleDeg != want {
		t.Errorf("hour angle = %v, expected %v", s.HourAngleDeg, want)
	}
}

func TestCalculateInvariants(t *testing.T) {
	latitudes := []float64{-66, -45, 10, 23.44, 35.683, 60.16, 69.9, 78.22}
	dates := []float64{
		DateSerial(2024, time.March, 20),
		DateSerial(2024, time.June, 21),
		DateSerial(2024, time.September, 1),
		DateSerial(2024, time.December, 21),
	}

	for _, lat := range latitudes {
		obs := Observer{Latitude: lat, Longitude: 24.83}
		for _, date := range dates {
			for minute := 0; minute < MinutesPerDay; minute += 7 {
				m := Moment{Date: date, Fraction: float64(minute) / MinutesPerDay, TZ: 2}
				s, err := Calculate(obs, m)
				if err != nil {
					t.Fatalf("lat %v date %v minute %d: unexpected error: %v", lat, date, minute, err)
				}
				if !finite(s.SolarTimeMinutes, s.ElevationDeg, s.CorrectedElevationDeg, s.AzimuthDeg, s.ApparentLongitudeDeg) {
					t.Fatalf("lat %v date %v minute %d: non-finite sample %+v", lat, date, minute, s)
				}
				if s.AzimuthDeg < 0 || s.AzimuthDeg >= 360 {
					t.Errorf("lat %v minute %d: azimuth %v outside [0, 360)", lat, minute, s.AzimuthDeg)
				}
				if s.ElevationDeg < -90 || s.ElevationDeg > 90 {
					t.Errorf("lat %v minute %d: elevation %v outside [-90, 90]", lat, minute, s.ElevationDeg)
				}
				if s.CorrectedElevationDeg > 90 {
					t.Errorf("lat %v minute %d: corrected elevation %v above 90", lat, minute, s.CorrectedElevationDeg)
				}
				if s.ElevationDeg > 85 {
					if s.CorrectedElevationDeg != s.ElevationDeg {
						t.Errorf("lat %v minute %d: corrected %v != elevation %v above 85°", lat, minute, s.CorrectedElevationDeg, s.ElevationDeg)
					}
				} else if s.CorrectedElevationDeg < s.ElevationDeg {
					t.Errorf("lat %v minute %d: corrected %v below elevation %v", lat, minute, s.CorrectedElevationDeg, s.ElevationDeg)
				}
				if math.Abs(s.SolarTimeMinutes) >= MinutesPerDay {
					t.Errorf("lat %v minute %d: solar time %v not wrapped", lat, minute, s.SolarTimeMinutes)
				}
			}
		}
	}
}

func TestCalculateDegenerate(t *testing.T) {
	for _, lat := range []float64{90, -90} {
		_, err := Calculate(Observer{Latitude: lat, Longitude: 0}, Moment{Date: DateSerial(2024, time.June, 21), Fraction: 0.5})
		if !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("latitude %v: expected ErrDegenerateGeometry, got %v", lat, err)
		}
		var de *DegenerateError
		if !errors.As(err, &de) {
			t.Errorf("latitude %v: expected *DegenerateError, got %T", lat, err)
		}
	}
}

func TestCalculateInvalidObserver(t *testing.T) {
	tests := []struct {
		name string
		obs  Observer
		m    Moment
	}{
		{"latitude too large", Observer{Latitude: 90.5}, Moment{}},
		{"longitude too small", Observer{Longitude: -181}, Moment{}},
		{"NaN latitude", Observer{Latitude: math.NaN()}, Moment{}},
		{"infinite timezone", helsinki, Moment{TZ: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Calculate(tt.obs, tt.m); !errors.Is(err, ErrInvalidObserver) {
				t.Errorf("expected ErrInvalidObserver, got %v", err)
			}
		})
	}
}

func TestRefraction(t *testing.T) {
	tests := []struct {
		elev     float64
		expected float64
	}{
		{90, 0},
		{86, 0},
		{10, 317.2 / 3600},
		{0, 1735.0 / 3600},
		{-1, 20.772 / math.Tan(ToRadians(1)) / 3600},
	}
	for _, tt := range tests {
		if got := Refraction(tt.elev); math.Abs(got-tt.expected) > 1e-4 {
			t.Errorf("Refraction(%v) = %v, expected %v", tt.elev, got, tt.expected)
		}
	}

	for elev := -90.0; elev <= 85; elev += 0.25 {
		if r := Refraction(elev); r < 0 || math.IsNaN(r) {
			t.Errorf("Refraction(%v) = %v, expected a non-negative correction", elev, r)
		}
	}
}
