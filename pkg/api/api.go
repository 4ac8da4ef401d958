package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/argus-sec/argus/pkg/blocklist"
	"github.com/argus-sec/argus/pkg/engine"
	"github.com/argus-sec/argus/pkg/event"
	"github.com/argus-sec/argus/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const defaultRecentWindow = time.Minute

// Server exposes the engine's observability surface over HTTP: health,
// Prometheus metrics, engine status with host statistics, the recent
// event window and the blocklist. It never mutates engine state.
type Server struct {
	engine    *engine.Engine
	log       *event.Log
	blocklist *blocklist.BlockList
	metrics   *metrics.Metrics
}

// NewServer creates the API server over the shared detection state.
func NewServer(eng *engine.Engine, eventLog *event.Log, bl *blocklist.BlockList, m *metrics.Metrics) *Server {
	return &Server{
		engine:    eng,
		log:       eventLog,
		blocklist: bl,
		metrics:   m,
	}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events/recent", s.handleRecentEvents)
		r.Get("/blocklist", s.handleBlocklist)
	})

	return r
}

// Start runs the server until the listener fails. It is meant to be
// launched in its own goroutine next to the engine.
func (s *Server) Start(port string) {
	log.Info().Msgf("API server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, s.Router()); err != nil {
		log.Error().Err(err).Msg("API server terminated")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type statusResponse struct {
	State      string         `json:"state"`
	Summary    summaryPayload `json:"summary"`
	Host       hostStats      `json:"host"`
	Goroutines int            `json:"goroutines"`
}

type summaryPayload struct {
	TotalEvents   int `json:"total_events"`
	BlockedCount  int `json:"blocked_count"`
	CriticalCount int `json:"critical_count"`
}

type hostStats struct {
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	CPUCount          int     `json:"cpu_count"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	summary := s.engine.Summary()

	resp := statusResponse{
		State: s.engine.State().String(),
		Summary: summaryPayload{
			TotalEvents:   summary.TotalEvents,
			BlockedCount:  summary.BlockedCount,
			CriticalCount: summary.CriticalCount,
		},
		Goroutines: runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp.Host.MemoryUsedPercent = vm.UsedPercent
	}
	if count, err := cpu.Counts(true); err == nil {
		resp.Host.CPUCount = count
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	window := defaultRecentWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid window duration"})
			return
		}
		window = parsed
	}

	events := s.log.SnapshotSince(window)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"window": window.String(),
		"count":  len(events),
		"events": events,
	})
}

func (s *Server) handleBlocklist(w http.ResponseWriter, r *http.Request) {
	blocked := s.blocklist.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(blocked),
		"identifiers": blocked,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode API response")
	}
}
