// Package solar implements the NOAA solar position equations: equation of time,
// declination, elevation with atmospheric refraction, azimuth and apparent
// ecliptic longitude, plus the per-minute daily tables built from them.
package solar

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// serialEpochJD is the Julian day of 1899-12-30 00:00, day zero of the
	// spreadsheet date serial the NOAA equations are written against.
	serialEpochJD  = 2415018.5
	j2000          = 2451545.0
	daysPerCentury = 36525.0

	// acos arguments overshooting [-1, 1] by less than this are rounding noise.
	acosTolerance = 1e-9
	// azimuth divisor cos(lat)*sin(zenith) below this is treated as zero.
	divisorEpsilon = 1e-12
)

// Observer is a point on the Earth's surface. Longitude is positive east.
type Observer struct {
	Latitude  float64
	Longitude float64
}

// Validate checks that the coordinates are finite and in range
func (o Observer) Validate() error {
	if !finite(o.Latitude, o.Longitude) {
		return fmt.Errorf("%w: non-finite coordinates (%v, %v)", ErrInvalidObserver, o.Latitude, o.Longitude)
	}
	if o.Latitude < -90 || o.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidObserver, o.Latitude)
	}
	if o.Longitude < -180 || o.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidObserver, o.Longitude)
	}
	return nil
}

// Moment is a civil time expressed the way the NOAA equations consume it:
// a date serial, the fraction of the civil day elapsed and the UTC offset in hours.
type Moment struct {
	Date     float64
	Fraction float64
	TZ       float64
}

// JulianDay returns the Julian day of the moment
func (m Moment) JulianDay() float64 {
	return m.Date + serialEpochJD + m.Fraction - m.TZ/24
}

// DateSerial returns the day serial (days since 1899-12-30) of a Gregorian date
func DateSerial(year int, month time.Month, day int) float64 {
	return julian.CalendarGregorianToJD(year, int(month), float64(day)) - serialEpochJD
}

// DateSerialOf returns the day serial of t's wall-clock date in t's location
func DateSerialOf(t time.Time) float64 {
	y, m, d := t.Date()
	return DateSerial(y, m, d)
}

// Sample holds one evaluation of the NOAA equations. The first five fields are
// the ones kept in a DailyTable.
type Sample struct {
	SolarTimeMinutes      float64 `json:"solar_time_minutes"`
	ElevationDeg          float64 `json:"elevation_deg"`
	CorrectedElevationDeg float64 `json:"corrected_elevation_deg"`
	AzimuthDeg            float64 `json:"azimuth_deg"`
	ApparentLongitudeDeg  float64 `json:"apparent_longitude_deg"`

	TrueLongitudeDeg      float64 `json:"true_longitude_deg,omitempty"`
	TrueAnomalyDeg        float64 `json:"true_anomaly_deg,omitempty"`
	RadiusVectorAU        float64 `json:"radius_vector_au,omitempty"`
	RightAscensionDeg     float64 `json:"right_ascension_deg,omitempty"`
	DeclinationDeg        float64 `json:"declination_deg,omitempty"`
	EquationOfTimeMinutes float64 `json:"equation_of_time_minutes,omitempty"`
	HourAngleDeg          float64 `json:"hour_angle_deg,omitempty"`
	ZenithDeg             float64 `json:"zenith_deg,omitempty"`
	RefractionDeg         float64 `json:"refraction_deg,omitempty"`
}

// Calculate evaluates the NOAA solar position equations for one moment.
func Calculate(obs Observer, m Moment) (Sample, error) {
	if err := obs.Validate(); err != nil {
		return Sample{}, err
	}
	if !finite(m.Date, m.Fraction, m.TZ) {
		return Sample{}, fmt.Errorf("%w: non-finite moment %+v", ErrInvalidObserver, m)
	}

	jd := m.JulianDay()
	jc := (jd - j2000) / daysPerCentury // Julian century

	meanLong := math.Mod(280.46646+jc*(36000.76983+jc*0.0003032), 360.0) // geometric mean longitude
	meanAnom := 357.52911 + jc*(35999.05029-0.0001537*jc)                 // geometric mean anomaly
	ecc := 0.016708634 - jc*(0.000042037+0.0000001267*jc)                 // orbit eccentricity
	eqCenter := sinDeg(meanAnom)*(1.914602-jc*(0.004817+0.000014*jc)) +
		sinDeg(2*meanAnom)*(0.019993-0.000101*jc) +
		sinDeg(3*meanAnom)*0.000289

	trueLong := meanLong + eqCenter
	trueAnom := meanAnom + eqCenter
	radVect := (1.000001018 * (1 - ecc*ecc)) / (1 + ecc*cosDeg(trueAnom))
	node := 125.04 - 1934.136*jc
	appLong := trueLong - 0.00569 - 0.00478*sinDeg(node)

	meanObliq := 23 + (26+(21.448-jc*(46.815+jc*(0.00059-jc*0.001813)))/60)/60
	obliq := meanObliq + 0.00256*cosDeg(node)

	rtAsc := ToDegrees(math.Atan2(cosDeg(obliq)*sinDeg(appLong), cosDeg(appLong)))
	decl := ToDegrees(math.Asin(sinDeg(obliq) * sinDeg(appLong)))

	y := tanDeg(obliq/2) * tanDeg(obliq/2)
	eqTime := 4 * ToDegrees(y*math.Sin(2*ToRadians(meanLong))-
		2*ecc*sinDeg(meanAnom)+
		4*ecc*y*sinDeg(meanAnom)*math.Cos(2*ToRadians(meanLong))-
		0.5*y*y*math.Sin(4*ToRadians(meanLong))-
		1.25*ecc*ecc*math.Sin(2*ToRadians(meanAnom)))

	solTime := math.Mod(m.Fraction*MinutesPerDay+eqTime+4*obs.Longitude-60*m.TZ, MinutesPerDay)

	// The sign test is on solTime/4 itself, not on the resulting hour angle.
	var hourAngle float64
	if solTime/4 < 0 {
		hourAngle = solTime/4 + 180
	} else {
		hourAngle = solTime/4 - 180
	}

	lat := obs.Latitude
	cosZen, err := acosArgument("zenith", sinDeg(lat)*sinDeg(decl)+cosDeg(lat)*cosDeg(decl)*cosDeg(hourAngle), jd)
	if err != nil {
		return Sample{}, err
	}
	zenith := ToDegrees(math.Acos(cosZen))
	elev := 90 - zenith
	refraction := Refraction(elev)

	divisor := cosDeg(lat) * sinDeg(zenith)
	if math.Abs(divisor) < divisorEpsilon {
		return Sample{}, &DegenerateError{Quantity: "azimuth divisor", Value: divisor, JulianDay: jd}
	}
	azArg, err := acosArgument("azimuth", (sinDeg(lat)*cosDeg(zenith)-sinDeg(decl))/divisor, jd)
	if err != nil {
		return Sample{}, err
	}
	azAcos := ToDegrees(math.Acos(azArg))

	var azimuth float64
	if hourAngle > 0 {
		azimuth = math.Mod(azAcos+180, 360)
	} else {
		azimuth = math.Mod(540-azAcos, 360)
	}

	return Sample{
		SolarTimeMinutes:      solTime,
		ElevationDeg:          elev,
		CorrectedElevationDeg: elev + refraction,
		AzimuthDeg:            azimuth,
		ApparentLongitudeDeg:  appLong,
		TrueLongitudeDeg:      trueLong,
		TrueAnomalyDeg:        trueAnom,
		RadiusVectorAU:        radVect,
		RightAscensionDeg:     rtAsc,
		DeclinationDeg:        decl,
		EquationOfTimeMinutes: eqTime,
		HourAngleDeg:          hourAngle,
		ZenithDeg:             zenith,
		RefractionDeg:         refraction,
	}, nil
}

// Refraction returns the atmospheric refraction correction, in degrees, for a
// geometric elevation in degrees.
func Refraction(elev float64) float64 {
	var arcsec float64
	switch {
	case elev > 85:
		arcsec = 0
	case elev > 5:
		t := tanDeg(elev)
		arcsec = 58.1/t - 0.07/math.Pow(t, 3) + 0.000086/math.Pow(t, 5)
	case elev > -0.575:
		arcsec = 1735 + elev*(-518.2+elev*(103.4+elev*(-12.79+elev*0.711)))
	default:
		arcsec = -20.772 / tanDeg(elev)
	}
	return arcsec / 3600
}

// acosArgument clamps rounding noise into [-1, 1] and rejects anything further out.
func acosArgument(quantity string, v float64, jd float64) (float64, error) {
	switch {
	case math.IsNaN(v), v > 1+acosTolerance, v < -1-acosTolerance:
		return 0, &DegenerateError{Quantity: quantity, Value: v, JulianDay: jd}
	case v > 1:
		return 1, nil
	case v < -1:
		return -1, nil
	}
	return v, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
