// Package rest exposes the analyzer over HTTP.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/toniu/playscore/internal/core/services"
	"github.com/toniu/playscore/internal/worker"
)

// Handler manages the HTTP interface for the analyzer.
type Handler struct {
	svc    *services.Analyzer
	pool   *worker.Pool
	router *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Analyzer, pool *worker.Pool) *Handler {
	h := &Handler{
		svc:    svc,
		pool:   pool,
		router: http.NewServeMux(),
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("POST /analyses", h.CreateAnalysis)
	h.router.HandleFunc("GET /analyses", h.ListAnalyses)
	h.router.HandleFunc("GET /analyses/{id}", h.GetAnalysis)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
