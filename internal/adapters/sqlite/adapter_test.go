package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/toniu/playscore/internal/core/domain"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func completeAnalysis(id string, createdAt time.Time) domain.Analysis {
	return domain.Analysis{
		ID:            id,
		PlaylistID:    "pl-1",
		PlaylistName:  "Road Trip",
		PlaylistOwner: "toniu",
		TrackCount:    12,
		Status:        domain.AnalysisComplete,
		Report: &domain.ScoreReport{
			Overall: 72,
			Subscores: map[domain.Criterion]float64{
				domain.ArtistDiversity:   100,
				domain.GenreDiversity:    100,
				domain.PopularityBalance: 40,
				domain.LengthAdequacy:    20,
			},
			Weaknesses: []domain.Criterion{domain.LengthAdequacy, domain.PopularityBalance},
		},
		Recommendations: []domain.Recommendation{
			{
				Track: domain.Track{
					ID:          "c1",
					Title:       "Deep Cut",
					ArtistIDs:   []string{"x1"},
					ArtistNames: []string{"Newcomer"},
					Genres:      []string{"garage rock"},
					Popularity:  15,
				},
				Reason: domain.LengthAdequacy,
			},
			{
				Track: domain.Track{
					ID:          "c2",
					Title:       "Hidden Gem",
					ArtistIDs:   []string{"x2"},
					ArtistNames: []string{"Obscure Act"},
					Genres:      []string{"rock"},
					Popularity:  10,
				},
				Reason: domain.PopularityBalance,
			},
		},
		CreatedAt: createdAt,
	}
}

func TestAdapter_SaveAndGetByID(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	want := completeAnalysis("an-1", time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))
	if err := a.Save(ctx, want); err != nil {
		t.Fatalf("save analysis: %v", err)
	}

	got, err := a.GetByID(ctx, "an-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.PlaylistID != want.PlaylistID || got.Status != want.Status {
		t.Fatalf("analysis fields: got %+v", got)
	}
	if got.PlaylistName != "Road Trip" || got.PlaylistOwner != "toniu" || got.TrackCount != 12 {
		t.Fatalf("playlist metadata: got %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created_at: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.Report == nil {
		t.Fatal("expected report to round-trip")
	}
	if got.Report.Overall != 72 {
		t.Fatalf("overall: got %v, want 72", got.Report.Overall)
	}
	if !reflect.DeepEqual(got.Report.Subscores, want.Report.Subscores) {
		t.Fatalf("subscores: got %v, want %v", got.Report.Subscores, want.Report.Subscores)
	}
	if !reflect.DeepEqual(got.Report.Weaknesses, want.Report.Weaknesses) {
		t.Fatalf("weaknesses: got %v, want %v", got.Report.Weaknesses, want.Report.Weaknesses)
	}
	if !reflect.DeepEqual(got.Recommendations, want.Recommendations) {
		t.Fatalf("recommendations: got %+v, want %+v", got.Recommendations, want.Recommendations)
	}
}

func TestAdapter_GetByID_NotFound(t *testing.T) {
	a := newTestAdapter(t)
	if _, err := a.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdapter_SavePendingThenComplete(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	createdAt := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	pending := domain.Analysis{
		ID:         "an-1",
		PlaylistID: "pl-1",
		Status:     domain.AnalysisPending,
		CreatedAt:  createdAt,
	}
	if err := a.Save(ctx, pending); err != nil {
		t.Fatalf("save pending: %v", err)
	}

	got, err := a.GetByID(ctx, "an-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.AnalysisPending {
		t.Fatalf("status: got %q, want pending", got.Status)
	}
	if got.Report != nil {
		t.Fatal("pending analysis must not have a report")
	}

	if err := a.Save(ctx, completeAnalysis("an-1", createdAt)); err != nil {
		t.Fatalf("save complete: %v", err)
	}

	got, err = a.GetByID(ctx, "an-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.AnalysisComplete {
		t.Fatalf("status: got %q, want complete", got.Status)
	}
	if got.Report == nil || len(got.Recommendations) != 2 {
		t.Fatalf("upsert did not replace report and recommendations: %+v", got)
	}
}

func TestAdapter_SaveFailed(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	failed := domain.Analysis{
		ID:         "an-1",
		PlaylistID: "pl-1",
		Status:     domain.AnalysisFailed,
		Error:      "playlist not found",
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.Save(ctx, failed); err != nil {
		t.Fatalf("save failed analysis: %v", err)
	}

	got, err := a.GetByID(ctx, "an-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.AnalysisFailed || got.Error != "playlist not found" {
		t.Fatalf("failed analysis fields: %+v", got)
	}
	if got.Report != nil {
		t.Fatal("failed analysis must not have a report")
	}
}

func TestAdapter_ListRecent(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"an-1", "an-2", "an-3"} {
		an := completeAnalysis(id, base.Add(time.Duration(i)*time.Minute))
		if err := a.Save(ctx, an); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	got, err := a.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("list length: got %d, want 2", len(got))
	}
	if got[0].ID != "an-3" || got[1].ID != "an-2" {
		t.Fatalf("expected newest first, got %q, %q", got[0].ID, got[1].ID)
	}
	// The list view carries the report but not the recommendation rows.
	if got[0].Report == nil {
		t.Fatal("expected report in list view")
	}
	if len(got[0].Recommendations) != 0 {
		t.Fatal("list view must not load recommendation rows")
	}
}

func TestAdapter_ListRecent_Empty(t *testing.T) {
	a := newTestAdapter(t)
	got, err := a.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}
