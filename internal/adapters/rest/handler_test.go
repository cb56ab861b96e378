package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/toniu/playscore/internal/core/domain"
	"github.com/toniu/playscore/internal/core/recommend"
	"github.com/toniu/playscore/internal/core/scoring"
	"github.com/toniu/playscore/internal/core/services"
	"github.com/toniu/playscore/internal/worker"
)

func newTestHandler(t *testing.T, catalog *stubCatalog) (*Handler, *worker.Pool, *memoryRepo) {
	t.Helper()
	repo := &memoryRepo{analyses: make(map[string]domain.Analysis)}
	scorer, err := scoring.NewEngine(scoring.DefaultConfig())
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	recs := recommend.NewEngine(recommend.DefaultConfig(), scorer.Config())
	svc := services.NewAnalyzer(catalog, repo, scorer, recs, 10)

	pool := worker.NewPool(svc, 10, time.Second)
	pool.Start(1)
	return NewHandler(svc, pool), pool, repo
}

func TestHandler_HealthCheck(t *testing.T) {
	h, pool, _ := newTestHandler(t, &stubCatalog{})
	defer pool.Stop()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body: got %v", body)
	}
}

func TestHandler_CreateAnalysis_Validation(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{
			name:        "missing content type",
			contentType: "",
			body:        `{"playlist_url":"pl123"}`,
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "wrong content type",
			contentType: "text/plain",
			body:        `{"playlist_url":"pl123"}`,
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"playlist_url":`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "missing playlist url",
			contentType: "application/json",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
		},
	}

	h, pool, _ := newTestHandler(t, &stubCatalog{})
	defer pool.Stop()

	for _, tc := range tests {
		tc := tc // capture range variable
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestHandler_CreateAnalysis_AsyncFlow(t *testing.T) {
	catalog := &stubCatalog{
		playlist: domain.Playlist{
			ID:   "pl123",
			Name: "Road Trip",
			Tracks: []domain.Track{
				{ID: "t1", Title: "One", ArtistIDs: []string{"a1"}, Genres: []string{"rock"}, Popularity: 85},
				{ID: "t2", Title: "Two", ArtistIDs: []string{"a2"}, Genres: []string{"rock"}, Popularity: 90},
			},
		},
		candidates: []domain.Track{
			{ID: "c1", Title: "Deep Cut", ArtistIDs: []string{"x1"}, Genres: []string{"rock"}, Popularity: 15},
		},
	}
	h, pool, _ := newTestHandler(t, catalog)

	req := httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(`{"playlist_url":"pl123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status: got %d, want 202: %s", rec.Code, rec.Body.String())
	}
	var created domain.Analysis
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if created.Status != domain.AnalysisPending {
		t.Fatalf("status: got %q, want pending", created.Status)
	}
	if got := rec.Header().Get("Location"); got != "/analyses/"+created.ID {
		t.Fatalf("location header: got %q", got)
	}

	// Draining the pool guarantees the job has run before we poll.
	pool.Stop()

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var polled domain.Analysis
	if err := json.NewDecoder(rec.Body).Decode(&polled); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if polled.Status != domain.AnalysisComplete {
		t.Fatalf("status: got %q, want complete", polled.Status)
	}
	if polled.Report == nil {
		t.Fatal("expected a report on the completed analysis")
	}
	if len(polled.Recommendations) == 0 {
		t.Fatal("expected recommendations on the completed analysis")
	}
}

func TestHandler_CreateAnalysis_QueueFull(t *testing.T) {
	repo := &memoryRepo{analyses: make(map[string]domain.Analysis)}
	scorer, err := scoring.NewEngine(scoring.DefaultConfig())
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	recs := recommend.NewEngine(recommend.DefaultConfig(), scorer.Config())
	svc := services.NewAnalyzer(&stubCatalog{}, repo, scorer, recs, 10)

	// One slot, no workers: the second submit must be rejected.
	pool := worker.NewPool(svc, 1, time.Second)
	if !pool.Submit(worker.Job{Analysis: domain.Analysis{ID: "blocker"}}) {
		t.Fatal("expected first submit to succeed")
	}

	h := NewHandler(svc, pool)
	req := httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(`{"playlist_url":"pl123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want 503", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != errCodeQueueFull {
		t.Fatalf("error code: got %q, want %q", body.Code, errCodeQueueFull)
	}
}

func TestHandler_GetAnalysis_NotFound(t *testing.T) {
	h, pool, _ := newTestHandler(t, &stubCatalog{})
	defer pool.Stop()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}

func TestHandler_ListAnalyses(t *testing.T) {
	h, pool, repo := newTestHandler(t, &stubCatalog{})
	defer pool.Stop()

	repo.put(domain.Analysis{ID: "an-1", PlaylistID: "pl-1", Status: domain.AnalysisComplete})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var got []domain.Analysis
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 1 || got[0].ID != "an-1" {
		t.Fatalf("body: got %+v", got)
	}
}

func TestHandler_ListAnalyses_BadLimit(t *testing.T) {
	h, pool, _ := newTestHandler(t, &stubCatalog{})
	defer pool.Stop()

	for _, limit := range []string{"abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses?limit="+limit, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: status got %d, want 400", limit, rec.Code)
		}
	}
}

// --- Fakes ---

// stubCatalog serves a fixed playlist and candidate pool.
type stubCatalog struct {
	playlist   domain.Playlist
	candidates []domain.Track
}

func (s *stubCatalog) GetPlaylist(ctx context.Context, ref string) (domain.Playlist, error) {
	return s.playlist, nil
}

func (s *stubCatalog) GetCandidates(ctx context.Context, seed domain.Playlist, limit int) ([]domain.Track, error) {
	return s.candidates, nil
}

// memoryRepo is a mutex-guarded map; workers write to it concurrently.
type memoryRepo struct {
	mu       sync.Mutex
	analyses map[string]domain.Analysis
}

func (m *memoryRepo) put(a domain.Analysis) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = a
}

func (m *memoryRepo) Save(ctx context.Context, a domain.Analysis) error {
	m.put(a)
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (domain.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.analyses[id]; ok {
		return a, nil
	}
	return domain.Analysis{}, domain.ErrNotFound
}

func (m *memoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Analysis
	for _, a := range m.analyses {
		out = append(out, a)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
