package solar

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MinutesPerDay is the number of samples in a DailyTable
const MinutesPerDay = 1440

// DailyTable holds one civil day of samples, one per minute. Index i of every
// series is civil minute i of the day the table was built for.
type DailyTable struct {
	Observer Observer `json:"observer"`
	Date     float64  `json:"date"`
	TZ       float64  `json:"tz"`

	SolarTime          [MinutesPerDay]float64 `json:"solar_time"`
	Elevation          [MinutesPerDay]float64 `json:"elevation"`
	CorrectedElevation [MinutesPerDay]float64 `json:"corrected_elevation"`
	Azimuth            [MinutesPerDay]float64 `json:"azimuth"`
	ApparentLongitude  [MinutesPerDay]float64 `json:"apparent_longitude"`
}

// BuildDailyTable evaluates Calculate for each minute of the civil day with the
// given date serial and UTC offset. Any failing sample fails the whole table.
func BuildDailyTable(obs Observer, date float64, tz float64) (*DailyTable, error) {
	tbl := &DailyTable{Observer: obs, Date: date, TZ: tz}
	for i := 0; i < MinutesPerDay; i++ {
		s, err := Calculate(obs, Moment{Date: date, Fraction: float64(i) / MinutesPerDay, TZ: tz})
		if err != nil {
			return nil, fmt.Errorf("minute %d: %w", i, err)
		}
		tbl.SolarTime[i] = s.SolarTimeMinutes
		tbl.Elevation[i] = s.ElevationDeg
		tbl.CorrectedElevation[i] = s.CorrectedElevationDeg
		tbl.Azimuth[i] = s.AzimuthDeg
		tbl.ApparentLongitude[i] = s.ApparentLongitudeDeg
	}
	return tbl, nil
}

// Len returns the number of minutes in the table
func (t *DailyTable) Len() int { return MinutesPerDay }

// At returns the tabulated fields for civil minute i. It panics if i is out of range.
func (t *DailyTable) At(i int) Sample {
	return Sample{
		SolarTimeMinutes:      t.SolarTime[i],
		ElevationDeg:          t.Elevation[i],
		CorrectedElevationDeg: t.CorrectedElevation[i],
		AzimuthDeg:            t.Azimuth[i],
		ApparentLongitudeDeg:  t.ApparentLongitude[i],
	}
}

// TableSummary condenses a DailyTable into the figures a dial shows besides the table itself.
type TableSummary struct {
	MaxElevationDeg    float64      `json:"max_elevation_deg"`
	MaxElevationMinute int          `json:"max_elevation_minute"`
	MinElevationDeg    float64      `json:"min_elevation_deg"`
	MinElevationMinute int          `json:"min_elevation_minute"`
	BandMinutes        map[Band]int `json:"band_minutes"`
}

// Summary computes the extremes of the corrected elevation and the minutes spent in each band.
func (t *DailyTable) Summary() TableSummary {
	elev := t.CorrectedElevation[:]
	maxIdx := floats.MaxIdx(elev)
	minIdx := floats.MinIdx(elev)

	s := TableSummary{
		MaxElevationDeg:    elev[maxIdx],
		MaxElevationMinute: maxIdx,
		MinElevationDeg:    elev[minIdx],
		MinElevationMinute: minIdx,
		BandMinutes:        make(map[Band]int),
	}
	for _, e := range elev {
		s.BandMinutes[Classify(e)]++
	}
	return s
}
