// Package metrics exports the solar clock readouts and refresh statistics to
// Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/chrissnell/noaaclock/internal/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "noaaclock_"

	resultSuccess = "success"
	resultError   = "error"
)

// Recorder holds the clock's metrics on its own registry. It implements
// engine.Recorder.
type Recorder struct {
	registry *prometheus.Registry

	elevation          *prometheus.GaugeVec
	correctedElevation *prometheus.GaugeVec
	azimuth            *prometheus.GaugeVec
	apparentLongitude  *prometheus.GaugeVec
	solarTime          *prometheus.GaugeVec
	effectiveTZ        *prometheus.GaugeVec
	daylight           *prometheus.GaugeVec
	lastRefresh        prometheus.Gauge

	refreshTotal   *prometheus.CounterVec
	refreshLatency *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors, plus the Go runtime
// and process collectors.
func New() *Recorder {
	locGauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + name,
				Help: help,
			},
			[]string{"location"},
		)
	}

	r := &Recorder{
		registry:           prometheus.NewRegistry(),
		elevation:          locGauge("solar_elevation_degrees", "Geometric solar elevation"),
		correctedElevation: locGauge("solar_corrected_elevation_degrees", "Solar elevation corrected for atmospheric refraction"),
		azimuth:            locGauge("solar_azimuth_degrees", "Solar azimuth, clockwise from north"),
		apparentLongitude:  locGauge("solar_apparent_longitude_degrees", "Apparent ecliptic longitude of the Sun"),
		solarTime:          locGauge("solar_time_minutes", "True solar time in minutes since solar midnight"),
		effectiveTZ:        locGauge("effective_utc_offset_hours", "UTC offset in force including daylight saving"),
		daylight:           locGauge("daylight_minutes", "Length of the current day between sunrise and sunset"),
		lastRefresh: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "last_refresh_timestamp_seconds",
				Help: "Unix time of the last successful refresh",
			},
		),
		refreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "refresh_total",
				Help: "Total refresh cycles by result",
			},
			[]string{"result"},
		),
		refreshLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "refresh_latency_seconds",
				Help:    "Refresh latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
	}

	r.registry.MustRegister(
		r.elevation,
		r.correctedElevation,
		r.azimuth,
		r.apparentLongitude,
		r.solarTime,
		r.effectiveTZ,
		r.daylight,
		r.lastRefresh,
		r.refreshTotal,
		r.refreshLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRefresh implements engine.Recorder
func (r *Recorder) ObserveRefresh(snap *engine.Snapshot, took time.Duration, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	r.refreshTotal.WithLabelValues(result).Inc()
	r.refreshLatency.WithLabelValues(result).Observe(took.Seconds())

	if err != nil || snap == nil {
		return
	}

	name := snap.Location.Name
	r.elevation.WithLabelValues(name).Set(snap.Current.ElevationDeg)
	r.correctedElevation.WithLabelValues(name).Set(snap.Current.CorrectedElevationDeg)
	r.azimuth.WithLabelValues(name).Set(snap.Current.AzimuthDeg)
	r.apparentLongitude.WithLabelValues(name).Set(snap.Current.ApparentLongitudeDeg)
	r.solarTime.WithLabelValues(name).Set(snap.Current.SolarTimeMinutes)
	r.effectiveTZ.WithLabelValues(name).Set(snap.EffectiveTZ)
	r.daylight.WithLabelValues(name).Set(snap.Events.DaylightMinutes)
	r.lastRefresh.Set(float64(snap.RefreshedAt.Unix()))
}

// Registry returns the registry the metrics live on
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
