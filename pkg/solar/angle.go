package solar

import "math"

const twoPi = 2 * math.Pi

// ToRadians converts an angle from degrees to radians
func ToRadians(deg float64) float64 { return deg * twoPi / 360.0 }

// ToDegrees converts an angle from radians to degrees
func ToDegrees(rad float64) float64 { return rad * 360.0 / twoPi }

func sinDeg(deg float64) float64 { return math.Sin(ToRadians(deg)) }
func cosDeg(deg float64) float64 { return math.Cos(ToRadians(deg)) }
func tanDeg(deg float64) float64 { return math.Tan(ToRadians(deg)) }

// NormalizeMinutes folds a minute-of-day value into [0, 1440)
func NormalizeMinutes(m float64) float64 {
	m = math.Mod(m, MinutesPerDay)
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}
