package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/simpeyes/internal/domain"
	"github.com/hamed0406/simpeyes/internal/downtime"
	apimw "github.com/hamed0406/simpeyes/internal/httpapi/middleware"
)

// StateSource exposes the current downtime state per site.
type StateSource interface {
	Snapshot() []downtime.Entry
}

// ResultSource exposes the latest report record per site.
type ResultSource interface {
	Latest(ctx context.Context) ([]domain.Record, error)
}

// Server is a read-only view over a running monitor.
type Server struct {
	Logger  *zap.Logger
	State   StateSource
	Results ResultSource
	Metrics http.Handler // optional
}

func NewServer(l *zap.Logger, state StateSource, results ResultSource, metrics http.Handler) *Server {
	return &Server{Logger: l, State: state, Results: results, Metrics: metrics}
}

type RouterOptions struct {
	Keys     []string
	RPM      int
	Burst    int
	AllowAll bool // CORS
}

func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	if opts.AllowAll {
		r.Use(cors.AllowAll().Handler)
	}
	r.Use(apimw.RateLimit(opts.RPM, opts.Burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireKey(opts.Keys))
		if s.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", s.Metrics)
		}
		r.Get("/api/sites", s.handleSites)
		r.Get("/api/results/latest", s.handleLatest)
	})
	return r
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.State.Snapshot())
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Results.Latest(r.Context())
	if err != nil {
		s.Logger.Warn("api_latest_error", zap.Error(err))
		http.Error(w, "latest error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
