package engine

import (
	"time"

	"github.com/chrissnell/noaaclock/pkg/location"
	"github.com/chrissnell/noaaclock/pkg/solar"
	"github.com/google/uuid"
)

// Snapshot is the outcome of one refresh. It is never modified after it has
// been handed to renderers.
type Snapshot struct {
	ID            uuid.UUID          `json:"id"`
	RefreshedAt   time.Time          `json:"refreshed_at"`
	Location      location.Location  `json:"location"`
	DSTAdjustment int                `json:"dst_adjustment"`
	EffectiveTZ   float64            `json:"effective_tz"`
	LocalTime     time.Time          `json:"local_time"`
	Minute        int                `json:"minute"`
	Table         *solar.DailyTable  `json:"-"`
	Current       solar.Sample       `json:"current"`
	Band          solar.Band         `json:"band"`
	Pointer       float64            `json:"pointer_fraction"`
	Events        solar.DayEvents    `json:"events"`
	Summary       solar.TableSummary `json:"summary"`
}

// SolarClock returns the current solar time as "HH:MM"
func (s *Snapshot) SolarClock() string {
	return solar.FormatMinutes(s.Current.SolarTimeMinutes)
}

// DayLength returns the daylight duration, zero during polar night
func (s *Snapshot) DayLength() time.Duration {
	return time.Duration(s.Events.DaylightMinutes * float64(time.Minute))
}
