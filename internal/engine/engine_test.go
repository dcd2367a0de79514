package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/chrissnell/noaaclock/pkg/dst"
	"github.com/chrissnell/noaaclock/pkg/location"
	"github.com/chrissnell/noaaclock/pkg/solar"
	"go.uber.org/zap"
)

var helsinki = location.Location{Name: "Helsinki", Latitude: 60.16, Longitude: 24.83, TZ: 2, DST: dst.EU}

type countingRecorder struct {
	mu   sync.Mutex
	ok   int
	fail int
}

func (r *countingRecorder) ObserveRefresh(snap *Snapshot, took time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.fail++
		return
	}
	r.ok++
}

func newTestEngine(t *testing.T, loc location.Location, opts Options) *Engine {
	t.Helper()
	e, err := New(loc, zap.NewNop().Sugar(), opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func TestRefresh(t *testing.T) {
	now := time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC)
	var rendered []*Snapshot
	e := newTestEngine(t, helsinki, Options{
		Renderers: []Renderer{RendererFunc(func(s *Snapshot) { rendered = append(rendered, s) })},
	})

	snap, err := e.Refresh(now)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if snap.DSTAdjustment != 1 || snap.EffectiveTZ != 3 {
		t.Errorf("midsummer adjustment %d, effective tz %v; expected 1 and 3", snap.DSTAdjustment, snap.EffectiveTZ)
	}
	if snap.Minute != 15*60 {
		t.Errorf("minute %d, expected %d", snap.Minute, 15*60)
	}
	if snap.LocalTime.Hour() != 15 {
		t.Errorf("local time %v", snap.LocalTime)
	}

	row := snap.Table.At(snap.Minute)
	if row.SolarTimeMinutes != snap.Current.SolarTimeMinutes ||
		row.CorrectedElevationDeg != snap.Current.CorrectedElevationDeg ||
		row.AzimuthDeg != snap.Current.AzimuthDeg ||
		row.ApparentLongitudeDeg != snap.Current.ApparentLongitudeDeg {
		t.Errorf("current sample %+v does not match table row %+v", snap.Current, row)
	}

	want := solar.NormalizeMinutes(snap.Table.SolarTime[snap.Minute]) / solar.MinutesPerDay
	if snap.Pointer != want || snap.Pointer < 0 || snap.Pointer >= 1 {
		t.Errorf("pointer %v, expected %v in [0, 1)", snap.Pointer, want)
	}

	// mid-afternoon in midsummer: Sun high in the south-west
	if snap.Current.CorrectedElevationDeg < 35 || snap.Current.AzimuthDeg < 200 || snap.Current.AzimuthDeg > 260 {
		t.Errorf("unexpected position: elevation %v, azimuth %v", snap.Current.CorrectedElevationDeg, snap.Current.AzimuthDeg)
	}
	if snap.Band != solar.Day {
		t.Errorf("band %v, expected day", snap.Band)
	}
	if !snap.Events.HasRiseSet() || snap.DayLength() < 18*time.Hour {
		t.Errorf("events %+v", snap.Events)
	}

	if len(rendered) != 1 || rendered[0] != snap {
		t.Errorf("renderer received %d snapshots", len(rendered))
	}
	cur, err := e.Current()
	if err != nil || cur != snap {
		t.Errorf("Current() = %v, %v", cur, err)
	}
}

func TestCurrentBeforeRefresh(t *testing.T) {
	e := newTestEngine(t, helsinki, Options{})
	if _, err := e.Current(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestRefreshKeepsLastKnownGood(t *testing.T) {
	rec := &countingRecorder{}
	renders := 0
	e := newTestEngine(t, helsinki, Options{
		Recorder:  rec,
		Renderers: []Renderer{RendererFunc(func(*Snapshot) { renders++ })},
	})

	good, err := e.Refresh(time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	// the azimuth is undefined at the pole, so every table build fails there
	e.loc = location.Location{Name: "North Pole", Latitude: 90, Longitude: 0, TZ: 0}
	_, err = e.Refresh(time.Date(2024, time.June, 21, 12, 5, 0, 0, time.UTC))
	if !errors.Is(err, solar.ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
	}

	cur, err := e.Current()
	if err != nil || cur != good {
		t.Errorf("Current() after failure = %v, %v; expected previous snapshot", cur, err)
	}
	if e.ConsecutiveFailures() != 1 {
		t.Errorf("consecutive failures %d, expected 1", e.ConsecutiveFailures())
	}
	if renders != 1 {
		t.Errorf("renderers called %d times, expected 1", renders)
	}
	if rec.ok != 1 || rec.fail != 1 {
		t.Errorf("recorder saw %d ok, %d failed", rec.ok, rec.fail)
	}

	e.loc = helsinki
	if _, err := e.Refresh(time.Date(2024, time.June, 21, 12, 10, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if e.ConsecutiveFailures() != 0 {
		t.Error("failure count not reset after success")
	}
}

func TestHomeTimezone(t *testing.T) {
	// the machine clock reads 12:00 on its wall
	reading := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		homeTZ *float64
		minute int
	}{
		{"clock instant", nil, 14 * 60},
		{"home timezone UTC+2", floatPtr(2), 12 * 60},
		{"home timezone UTC-5", floatPtr(-5), 19 * 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, helsinki, Options{HomeTZ: tt.homeTZ})
			snap, err := e.Refresh(reading)
			if err != nil {
				t.Fatalf("Refresh failed: %v", err)
			}
			if snap.Minute != tt.minute {
				t.Errorf("minute %d, expected %d", snap.Minute, tt.minute)
			}
			if snap.DSTAdjustment != 0 {
				t.Errorf("January adjustment %d", snap.DSTAdjustment)
			}
		})
	}
}

func TestDSTTransition(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		adj    int
		minute int
	}{
		{"03:30 standard time", time.Date(2024, time.March, 31, 1, 30, 0, 0, time.UTC), 0, 3*60 + 30},
		{"04:00 standard time", time.Date(2024, time.March, 31, 2, 0, 0, 0, time.UTC), 1, 5 * 60},
		{"October before change", time.Date(2024, time.October, 27, 1, 0, 0, 0, time.UTC), 1, 4 * 60},
		{"October after change", time.Date(2024, time.October, 27, 2, 0, 0, 0, time.UTC), 0, 4 * 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, helsinki, Options{})
			snap, err := e.Refresh(tt.now)
			if err != nil {
				t.Fatalf("Refresh failed: %v", err)
			}
			if snap.DSTAdjustment != tt.adj || snap.Minute != tt.minute {
				t.Errorf("adjustment %d minute %d, expected %d and %d", snap.DSTAdjustment, snap.Minute, tt.adj, tt.minute)
			}
			if math.Abs(snap.Table.TZ-(helsinki.TZ+float64(tt.adj))) > 1e-12 {
				t.Errorf("table built for tz %v", snap.Table.TZ)
			}
		})
	}
}

func TestNoRuleLocation(t *testing.T) {
	tokyo := location.Location{Name: "Tokyo", Latitude: 35.683, Longitude: 139.767, TZ: 9}
	e := newTestEngine(t, tokyo, Options{})
	snap, err := e.Refresh(time.Date(2024, time.July, 1, 3, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if snap.DSTAdjustment != 0 || snap.EffectiveTZ != 9 || snap.Minute != 12*60 {
		t.Errorf("adjustment %d tz %v minute %d", snap.DSTAdjustment, snap.EffectiveTZ, snap.Minute)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(location.Location{Name: "Bad", Latitude: 100}, zap.NewNop().Sugar(), Options{}); err == nil {
		t.Error("expected an invalid location to be rejected")
	}
	if _, err := New(helsinki, zap.NewNop().Sugar(), Options{HomeTZ: floatPtr(15)}); err == nil {
		t.Error("expected an out-of-range home timezone to be rejected")
	}
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renders := make(chan *Snapshot, 16)
	e := newTestEngine(t, helsinki, Options{
		Interval:  10 * time.Millisecond,
		Clock:     func() time.Time { return time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC) },
		Renderers: []Renderer{RendererFunc(func(s *Snapshot) { renders <- s })},
	})

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	first := <-renders
	second := <-renders
	if first.ID == second.ID {
		t.Error("successive snapshots share an ID")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
