// Package services coordinates the catalog adapter, the scoring and
// recommendation engines, and the analysis repository.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/toniu/playscore/internal/core/domain"
	"github.com/toniu/playscore/internal/core/ports"
	"github.com/toniu/playscore/internal/core/recommend"
	"github.com/toniu/playscore/internal/core/scoring"
)

const defaultCandidatePoolSize = 50

// Analyzer drives one analysis run: fetch snapshot, score, fetch candidates,
// recommend, persist.
type Analyzer struct {
	catalog  ports.CatalogProvider
	repo     ports.AnalysisRepository
	scorer   *scoring.Engine
	recs     *recommend.Engine
	poolSize int
}

// NewAnalyzer constructs an Analyzer. A non-positive poolSize falls back to
// the default candidate pool size.
func NewAnalyzer(catalog ports.CatalogProvider, repo ports.AnalysisRepository, scorer *scoring.Engine, recs *recommend.Engine, poolSize int) *Analyzer {
	if poolSize <= 0 {
		poolSize = defaultCandidatePoolSize
	}
	return &Analyzer{
		catalog:  catalog,
		repo:     repo,
		scorer:   scorer,
		recs:     recs,
		poolSize: poolSize,
	}
}

// Begin records a pending analysis for a playlist reference and returns it.
// The heavy lifting happens later in Run, usually on a worker.
func (a *Analyzer) Begin(ctx context.Context, ref string) (domain.Analysis, error) {
	if ref == "" {
		return domain.Analysis{}, fmt.Errorf("service: playlist reference cannot be empty")
	}
	analysis := domain.Analysis{
		ID:         uuid.NewString(),
		PlaylistID: ref,
		Status:     domain.AnalysisPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.repo.Save(ctx, analysis); err != nil {
		return domain.Analysis{}, fmt.Errorf("service: failed to record analysis: %w", err)
	}
	return analysis, nil
}

// Run executes the full pipeline for a previously recorded analysis and
// persists the outcome. A failure anywhere marks the stored record as failed
// before the error is returned.
func (a *Analyzer) Run(ctx context.Context, analysis domain.Analysis) (domain.Analysis, error) {
	playlist, err := a.catalog.GetPlaylist(ctx, analysis.PlaylistID)
	if err != nil {
		return a.fail(ctx, analysis, fmt.Errorf("service: failed to fetch playlist: %w", err))
	}

	report, err := a.scorer.Score(playlist)
	if err != nil {
		return a.fail(ctx, analysis, fmt.Errorf("service: failed to score playlist: %w", err))
	}

	var candidates []domain.Track
	if len(report.Weaknesses) > 0 {
		candidates, err = a.catalog.GetCandidates(ctx, playlist, a.poolSize)
		if err != nil {
			// Recommendations are best-effort: a failed candidate fetch
			// degrades to a report without suggestions.
			slog.Warn("candidate fetch failed, skipping recommendations", "analysis", analysis.ID, "error", err)
			candidates = nil
		}
	}

	analysis.PlaylistID = playlist.ID
	analysis.PlaylistName = playlist.Name
	analysis.PlaylistOwner = playlist.Owner
	analysis.TrackCount = len(playlist.Tracks)
	analysis.Status = domain.AnalysisComplete
	analysis.Error = ""
	analysis.Report = &report
	analysis.Recommendations = a.recs.Recommend(report, playlist, candidates)

	if err := a.repo.Save(ctx, analysis); err != nil {
		return domain.Analysis{}, fmt.Errorf("service: failed to save analysis: %w", err)
	}
	return analysis, nil
}

// Analyze is the synchronous path used by the CLI: Begin followed by Run.
func (a *Analyzer) Analyze(ctx context.Context, ref string) (domain.Analysis, error) {
	analysis, err := a.Begin(ctx, ref)
	if err != nil {
		return domain.Analysis{}, err
	}
	return a.Run(ctx, analysis)
}

// GetAnalysis loads a stored analysis by ID.
func (a *Analyzer) GetAnalysis(ctx context.Context, id string) (domain.Analysis, error) {
	if id == "" {
		return domain.Analysis{}, fmt.Errorf("service: analysis id cannot be empty")
	}
	analysis, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("service: failed to load analysis: %w", err)
	}
	return analysis, nil
}

// ListAnalyses returns the most recent analyses, newest first.
func (a *Analyzer) ListAnalyses(ctx context.Context, limit int) ([]domain.Analysis, error) {
	analyses, err := a.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list analyses: %w", err)
	}
	return analyses, nil
}

func (a *Analyzer) fail(ctx context.Context, analysis domain.Analysis, cause error) (domain.Analysis, error) {
	analysis.Status = domain.AnalysisFailed
	analysis.Error = cause.Error()
	if saveErr := a.repo.Save(ctx, analysis); saveErr != nil {
		slog.Warn("failed to persist failed analysis", "analysis", analysis.ID, "error", saveErr)
	}
	return domain.Analysis{}, cause
}
