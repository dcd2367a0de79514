package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chrissnell/noaaclock/internal/engine"
	"github.com/chrissnell/noaaclock/pkg/location"
	"github.com/chrissnell/noaaclock/pkg/solar"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testSnapshot() *engine.Snapshot {
	return &engine.Snapshot{
		RefreshedAt: time.Unix(1718971200, 0),
		Location:    location.Location{Name: "Helsinki"},
		EffectiveTZ: 3,
		Current: solar.Sample{
			SolarTimeMinutes:      820.5,
			ElevationDeg:          47.1,
			CorrectedElevationDeg: 47.115,
			AzimuthDeg:            221.4,
			ApparentLongitudeDeg:  90.2,
		},
		Events: solar.DayEvents{DaylightMinutes: 1130},
	}
}

func TestObserveRefresh(t *testing.T) {
	r := New()

	r.ObserveRefresh(testSnapshot(), 3*time.Millisecond, nil)
	r.ObserveRefresh(nil, time.Millisecond, errors.New("degenerate"))
	r.ObserveRefresh(nil, time.Millisecond, errors.New("degenerate"))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"corrected elevation", testutil.ToFloat64(r.correctedElevation.WithLabelValues("Helsinki")), 47.115},
		{"azimuth", testutil.ToFloat64(r.azimuth.WithLabelValues("Helsinki")), 221.4},
		{"solar time", testutil.ToFloat64(r.solarTime.WithLabelValues("Helsinki")), 820.5},
		{"effective tz", testutil.ToFloat64(r.effectiveTZ.WithLabelValues("Helsinki")), 3},
		{"daylight", testutil.ToFloat64(r.daylight.WithLabelValues("Helsinki")), 1130},
		{"last refresh", testutil.ToFloat64(r.lastRefresh), 1718971200},
		{"successes", testutil.ToFloat64(r.refreshTotal.WithLabelValues(resultSuccess)), 1},
		{"failures", testutil.ToFloat64(r.refreshTotal.WithLabelValues(resultError)), 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, expected %v", tt.name, tt.got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(r.refreshLatency); n != 2 {
		t.Errorf("latency histogram has %d series, expected 2", n)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.ObserveRefresh(testSnapshot(), time.Millisecond, nil)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`noaaclock_solar_azimuth_degrees{location="Helsinki"} 221.4`,
		`noaaclock_refresh_total{result="success"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output is missing %q", want)
		}
	}
}
