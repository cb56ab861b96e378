package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/toniu/playscore/internal/core/domain"
	"github.com/toniu/playscore/internal/worker"
)

const errCodeQueueFull = "QUEUE_FULL"

// createAnalysisRequest defines what the client sends us.
type createAnalysisRequest struct {
	PlaylistURL string `json:"playlist_url"`
}

// CreateAnalysis handles POST /analyses: record a pending analysis, enqueue
// the run and return 202 with the record so the client can poll.
func (h *Handler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req createAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlaylistURL == "" {
		writeError(w, http.StatusBadRequest, "playlist_url is required")
		return
	}

	analysis, err := h.svc.Begin(r.Context(), req.PlaylistURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !h.pool.Submit(worker.Job{Analysis: analysis}) {
		writeErrorWithCode(w, http.StatusServiceUnavailable, "analysis queue is full, try again later", errCodeQueueFull)
		return
	}

	w.Header().Set("Location", "/analyses/"+analysis.ID)
	writeJSON(w, http.StatusAccepted, analysis)
}

// GetAnalysis handles GET /analyses/{id}.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}

	analysis, err := h.svc.GetAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// ListAnalyses handles GET /analyses?limit=N.
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	analyses, err := h.svc.ListAnalyses(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if analyses == nil {
		analyses = []domain.Analysis{}
	}

	writeJSON(w, http.StatusOK, analyses)
}
