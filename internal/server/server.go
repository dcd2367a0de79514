// Package server publishes the solar clock over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/chrissnell/noaaclock/internal/engine"
	"github.com/chrissnell/noaaclock/internal/log"
	"github.com/chrissnell/noaaclock/pkg/solar"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server is an engine.Renderer that serves the latest snapshot as JSON
type Server struct {
	Server http.Server

	names   func() []string
	metrics http.Handler
	logger  *zap.SugaredLogger

	mu   sync.RWMutex
	snap *engine.Snapshot
}

// New creates a server listening on listenAddr. names lists the known
// locations; metrics, if non-nil, is mounted at /metrics.
func New(listenAddr string, names func() []string, metrics http.Handler, logger *zap.SugaredLogger) *Server {
	s := &Server{
		names:   names,
		metrics: metrics,
		logger:  logger,
	}
	s.Server.Addr = listenAddr
	s.Server.Handler = s.setupRouter()
	s.Server.ReadHeaderTimeout = 10 * time.Second
	return s
}

// Render implements engine.Renderer
func (s *Server) Render(snap *engine.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Server) current() *engine.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Start serves in the background until ctx is cancelled
func (s *Server) Start(ctx context.Context) {
	s.logger.Infof("Starting HTTP server on %s", s.Server.Addr)

	go func() {
		if err := s.Server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Errorf("HTTP server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down the HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Server.Shutdown(shutdownCtx)
	}()
}

func (s *Server) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware(s.logger))

	// a full table runs to several hundred kilobytes of JSON
	api := router.PathPrefix("/api").Subrouter()
	api.Use(handlers.CompressHandler)
	api.HandleFunc("/snapshot", s.getSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/table", s.getTable).Methods(http.MethodGet)
	api.HandleFunc("/table/{minute:[0-9]+}", s.getTableRow).Methods(http.MethodGet)
	api.HandleFunc("/locations", s.getLocations).Methods(http.MethodGet)

	router.HandleFunc("/healthz", s.getHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	return router
}

type snapshotResponse struct {
	*engine.Snapshot
	SolarClock string `json:"solar_clock"`
	SolarNoon  string `json:"solar_noon"`
	Sunrise    string `json:"sunrise,omitempty"`
	Sunset     string `json:"sunset,omitempty"`
}

type tableRow struct {
	Minute             int        `json:"minute"`
	LocalTime          string     `json:"local_time"`
	SolarTime          float64    `json:"solar_time_minutes"`
	Elevation          float64    `json:"elevation_deg"`
	CorrectedElevation float64    `json:"corrected_elevation_deg"`
	Azimuth            float64    `json:"azimuth_deg"`
	ApparentLongitude  float64    `json:"apparent_longitude_deg"`
	Band               solar.Band `json:"band"`
}

type tableResponse struct {
	Location    string     `json:"location"`
	Date        string     `json:"date"`
	EffectiveTZ float64    `json:"effective_tz"`
	Step        int        `json:"step"`
	Rows        []tableRow `json:"rows"`
}

func (s *Server) getSnapshot(w http.ResponseWriter, req *http.Request) {
	snap := s.current()
	if snap == nil {
		unavailable(w)
		return
	}

	resp := snapshotResponse{
		Snapshot:   snap,
		SolarClock: snap.SolarClock(),
		SolarNoon:  solar.FormatFraction(snap.Events.SolarNoon),
	}
	if snap.Events.HasRiseSet() {
		resp.Sunrise = solar.FormatFraction(snap.Events.Sunrise)
		resp.Sunset = solar.FormatFraction(snap.Events.Sunset)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getTable(w http.ResponseWriter, req *http.Request) {
	snap := s.current()
	if snap == nil {
		unavailable(w)
		return
	}

	step := 1
	if v := req.URL.Query().Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > solar.MinutesPerDay {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "step must be between 1 and 1440"})
			return
		}
		step = n
	}

	resp := tableResponse{
		Location:    snap.Location.Name,
		Date:        snap.LocalTime.Format("2006-01-02"),
		EffectiveTZ: snap.EffectiveTZ,
		Step:        step,
		Rows:        make([]tableRow, 0, solar.MinutesPerDay/step+1),
	}
	for i := 0; i < solar.MinutesPerDay; i += step {
		resp.Rows = append(resp.Rows, row(snap.Table, i))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getTableRow(w http.ResponseWriter, req *http.Request) {
	snap := s.current()
	if snap == nil {
		unavailable(w)
		return
	}

	minute, err := strconv.Atoi(mux.Vars(req)["minute"])
	if err != nil || minute >= solar.MinutesPerDay {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "minute must be between 0 and 1439"})
		return
	}
	writeJSON(w, http.StatusOK, row(snap.Table, minute))
}

func (s *Server) getLocations(w http.ResponseWriter, req *http.Request) {
	names := []string{}
	if s.names != nil {
		names = append(names, s.names()...)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"locations": names})
}

func (s *Server) getHealth(w http.ResponseWriter, req *http.Request) {
	if s.current() == nil {
		unavailable(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok\n"))
}

func row(t *solar.DailyTable, i int) tableRow {
	smp := t.At(i)
	return tableRow{
		Minute:             i,
		LocalTime:          solar.FormatMinutes(float64(i)),
		SolarTime:          smp.SolarTimeMinutes,
		Elevation:          smp.ElevationDeg,
		CorrectedElevation: smp.CorrectedElevationDeg,
		Azimuth:            smp.AzimuthDeg,
		ApparentLongitude:  smp.ApparentLongitudeDeg,
		Band:               solar.Classify(smp.CorrectedElevationDeg),
	}
}

func unavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": engine.ErrNoSnapshot.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
