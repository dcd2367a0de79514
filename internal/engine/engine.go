// Package engine drives the periodic refresh of the solar clock: it evaluates
// the daylight-saving rule, rebuilds the daily table and publishes a snapshot
// to its renderers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chrissnell/noaaclock/pkg/dst"
	"github.com/chrissnell/noaaclock/pkg/location"
	"github.com/chrissnell/noaaclock/pkg/solar"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultInterval is the refresh period used when Options.Interval is zero
const DefaultInterval = 5 * time.Second

// ErrNoSnapshot is returned by Current before the first successful refresh
var ErrNoSnapshot = errors.New("no snapshot available yet")

// Renderer consumes each new snapshot. Render is called on the engine's
// goroutine and must not modify the snapshot.
type Renderer interface {
	Render(*Snapshot)
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(*Snapshot)

// Render implements Renderer
func (f RendererFunc) Render(s *Snapshot) { f(s) }

// Recorder observes every refresh attempt. snap is nil when err is non-nil.
type Recorder interface {
	ObserveRefresh(snap *Snapshot, took time.Duration, err error)
}

// Options configures an Engine
type Options struct {
	// HomeTZ, when set, is the UTC offset the machine clock's wall reading is
	// taken to be in. When nil the clock's instant is used unchanged.
	HomeTZ *float64

	Interval  time.Duration
	Clock     func() time.Time
	Renderers []Renderer
	Recorder  Recorder
}

// Engine keeps the daily table of one location up to date
type Engine struct {
	loc       location.Location
	homeTZ    *float64
	interval  time.Duration
	clock     func() time.Time
	renderers []Renderer
	recorder  Recorder
	logger    *zap.SugaredLogger

	mu      sync.RWMutex
	current *Snapshot
	fails   int
}

// New creates an engine for loc
func New(loc location.Location, logger *zap.SugaredLogger, opts Options) (*Engine, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if opts.HomeTZ != nil && (*opts.HomeTZ < -14 || *opts.HomeTZ > 14) {
		return nil, fmt.Errorf("home timezone %v outside [-14, 14]", *opts.HomeTZ)
	}

	e := &Engine{
		loc:       loc,
		homeTZ:    opts.HomeTZ,
		interval:  opts.Interval,
		clock:     opts.Clock,
		renderers: opts.Renderers,
		recorder:  opts.Recorder,
		logger:    logger,
	}
	if e.interval <= 0 {
		e.interval = DefaultInterval
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	return e, nil
}

// Location returns the location the engine was created for
func (e *Engine) Location() location.Location {
	return e.loc
}

// AddRenderer registers another renderer. It must be called before Run.
func (e *Engine) AddRenderer(r Renderer) {
	e.renderers = append(e.renderers, r)
}

// Instant maps a machine clock reading to the instant it denotes, applying the
// home timezone if one is configured.
func (e *Engine) Instant(now time.Time) time.Time {
	if e.homeTZ == nil {
		return now
	}
	y, mo, d := now.Date()
	h, mi, s := now.Clock()
	return time.Date(y, mo, d, h, mi, s, now.Nanosecond(), dst.FixedZone(*e.homeTZ))
}

// Refresh performs one refresh cycle for the clock reading now. On success the
// new snapshot becomes current and is passed to every renderer. On failure the
// previous snapshot stays current.
func (e *Engine) Refresh(now time.Time) (*Snapshot, error) {
	start := time.Now()
	snap, err := e.build(now)
	took := time.Since(start)

	if e.recorder != nil {
		e.recorder.ObserveRefresh(snap, took, err)
	}

	if err != nil {
		e.mu.Lock()
		e.fails++
		e.mu.Unlock()
		e.logger.Errorf("refresh for %s failed, keeping previous snapshot: %v", e.loc.Name, err)
		return nil, err
	}

	e.mu.Lock()
	e.current = snap
	e.fails = 0
	e.mu.Unlock()

	e.logger.Debugf("refreshed %s: solar time %s, elevation %.2f, azimuth %.2f (%v)",
		e.loc.Name, snap.SolarClock(), snap.Current.CorrectedElevationDeg, snap.Current.AzimuthDeg, took)

	for _, r := range e.renderers {
		r.Render(snap)
	}
	return snap, nil
}

func (e *Engine) build(now time.Time) (*Snapshot, error) {
	instant := e.Instant(now)
	tz, adj := dst.Effective(e.loc.DST, e.loc.TZ, instant)
	local := instant.In(dst.FixedZone(tz))

	obs := e.loc.Observer()
	date := solar.DateSerialOf(local)
	minute := local.Hour()*60 + local.Minute()

	table, err := solar.BuildDailyTable(obs, date, tz)
	if err != nil {
		return nil, fmt.Errorf("failed to build daily table: %w", err)
	}

	m := solar.Moment{Date: date, Fraction: float64(minute) / solar.MinutesPerDay, TZ: tz}
	current, err := solar.Calculate(obs, m)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate current position: %w", err)
	}

	return &Snapshot{
		ID:            uuid.New(),
		RefreshedAt:   now,
		Location:      e.loc,
		DSTAdjustment: adj,
		EffectiveTZ:   tz,
		LocalTime:     local,
		Minute:        minute,
		Table:         table,
		Current:       current,
		Band:          solar.Classify(current.CorrectedElevationDeg),
		Pointer:       solar.NormalizeMinutes(table.SolarTime[minute]) / solar.MinutesPerDay,
		Events:        solar.Events(obs, m, current),
		Summary:       table.Summary(),
	}, nil
}

// Current returns the last successfully built snapshot
func (e *Engine) Current() (*Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return nil, ErrNoSnapshot
	}
	return e.current, nil
}

// ConsecutiveFailures returns the number of failed refreshes since the last success
func (e *Engine) ConsecutiveFailures() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fails
}

// Run refreshes immediately and then once per interval until ctx is cancelled
func (e *Engine) Run(ctx context.Context) {
	e.logger.Infof("Starting solar clock for %v (interval: %v)", e.loc, e.interval)

	e.Refresh(e.clock())

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.Refresh(e.clock())
		case <-ctx.Done():
			e.logger.Infof("Stopping solar clock for %s", e.loc.Name)
			return
		}
	}
}
