// Package sqlite provides a SQLite-backed implementation of the analysis
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/toniu/playscore/internal/core/domain"
	"github.com/toniu/playscore/internal/core/ports"
)

const defaultListLimit = 20

// Adapter implements the repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.AnalysisRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Save upserts an analysis and replaces its recommendations in one
// transaction.
func (a *Adapter) Save(ctx context.Context, an domain.Analysis) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // auto-rollback if we error before commit

	var overall, artistDiv, genreDiv, popBalance, lengthAdeq sql.NullFloat64
	var weaknesses sql.NullString
	if an.Report != nil {
		overall = sql.NullFloat64{Float64: an.Report.Overall, Valid: true}
		artistDiv = sql.NullFloat64{Float64: an.Report.Subscores[domain.ArtistDiversity], Valid: true}
		genreDiv = sql.NullFloat64{Float64: an.Report.Subscores[domain.GenreDiversity], Valid: true}
		popBalance = sql.NullFloat64{Float64: an.Report.Subscores[domain.PopularityBalance], Valid: true}
		lengthAdeq = sql.NullFloat64{Float64: an.Report.Subscores[domain.LengthAdequacy], Valid: true}
		encoded, err := json.Marshal(an.Report.Weaknesses)
		if err != nil {
			return fmt.Errorf("failed to encode weaknesses: %w", err)
		}
		weaknesses = sql.NullString{String: string(encoded), Valid: true}
	}

	queryAnalysis := `
		INSERT INTO analyses (
			id, playlist_id, playlist_name, playlist_owner, track_count,
			status, error, overall, artist_diversity, genre_diversity,
			popularity_balance, length_adequacy, weaknesses, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			playlist_id=excluded.playlist_id,
			playlist_name=excluded.playlist_name,
			playlist_owner=excluded.playlist_owner,
			track_count=excluded.track_count,
			status=excluded.status,
			error=excluded.error,
			overall=excluded.overall,
			artist_diversity=excluded.artist_diversity,
			genre_diversity=excluded.genre_diversity,
			popularity_balance=excluded.popularity_balance,
			length_adequacy=excluded.length_adequacy,
			weaknesses=excluded.weaknesses;
	`
	if _, err := tx.ExecContext(ctx, queryAnalysis,
		an.ID, an.PlaylistID, an.PlaylistName, an.PlaylistOwner, an.TrackCount,
		string(an.Status), an.Error, overall, artistDiv, genreDiv,
		popBalance, lengthAdeq, weaknesses, an.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	// Reset and re-insert recommendations for this analysis.
	if _, err := tx.ExecContext(ctx, "DELETE FROM analysis_recommendations WHERE analysis_id = ?", an.ID); err != nil {
		return fmt.Errorf("failed to clear old recommendations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO analysis_recommendations (
			analysis_id, position, track_id, title, artist_ids, artist_names,
			genres, popularity, reason
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range an.Recommendations {
		artistIDs, err := json.Marshal(rec.Track.ArtistIDs)
		if err != nil {
			return fmt.Errorf("failed to encode artist ids: %w", err)
		}
		artistNames, err := json.Marshal(rec.Track.ArtistNames)
		if err != nil {
			return fmt.Errorf("failed to encode artist names: %w", err)
		}
		genres, err := json.Marshal(rec.Track.Genres)
		if err != nil {
			return fmt.Errorf("failed to encode genres: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			an.ID, i, rec.Track.ID, rec.Track.Title, string(artistIDs),
			string(artistNames), string(genres), rec.Track.Popularity, string(rec.Reason),
		); err != nil {
			return fmt.Errorf("failed to save recommendation %s: %w", rec.Track.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

// GetByID loads an analysis and its recommendations.
func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Analysis, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, playlist_id, playlist_name, playlist_owner, track_count,
			status, error, overall, artist_diversity, genre_diversity,
			popularity_balance, length_adequacy, weaknesses, created_at
		FROM analyses WHERE id = ?
	`, id)

	an, err := scanAnalysis(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Analysis{}, domain.ErrNotFound
		}
		return domain.Analysis{}, fmt.Errorf("failed to load analysis: %w", err)
	}

	recs, err := a.loadRecommendations(ctx, an.ID)
	if err != nil {
		return domain.Analysis{}, err
	}
	an.Recommendations = recs

	return an, nil
}

// ListRecent returns the most recent analyses, newest first, without their
// recommendation rows.
func (a *Adapter) ListRecent(ctx context.Context, limit int) ([]domain.Analysis, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, playlist_id, playlist_name, playlist_owner, track_count,
			status, error, overall, artist_diversity, genre_diversity,
			popularity_balance, length_adequacy, weaknesses, created_at
		FROM analyses
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []domain.Analysis
	for rows.Next() {
		an, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, an)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}

	return analyses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (domain.Analysis, error) {
	var an domain.Analysis
	var status string
	var errText sql.NullString
	var name, owner sql.NullString
	var overall, artistDiv, genreDiv, popBalance, lengthAdeq sql.NullFloat64
	var weaknesses sql.NullString
	var createdAt time.Time

	if err := row.Scan(
		&an.ID, &an.PlaylistID, &name, &owner, &an.TrackCount,
		&status, &errText, &overall, &artistDiv, &genreDiv,
		&popBalance, &lengthAdeq, &weaknesses, &createdAt,
	); err != nil {
		return domain.Analysis{}, err
	}

	an.Status = domain.AnalysisStatus(status)
	an.CreatedAt = createdAt.UTC()
	if name.Valid {
		an.PlaylistName = name.String
	}
	if owner.Valid {
		an.PlaylistOwner = owner.String
	}
	if errText.Valid {
		an.Error = errText.String
	}

	if overall.Valid {
		report := domain.ScoreReport{
			Overall: overall.Float64,
			Subscores: map[domain.Criterion]float64{
				domain.ArtistDiversity:   artistDiv.Float64,
				domain.GenreDiversity:    genreDiv.Float64,
				domain.PopularityBalance: popBalance.Float64,
				domain.LengthAdequacy:    lengthAdeq.Float64,
			},
		}
		if weaknesses.Valid && weaknesses.String != "" {
			if err := json.Unmarshal([]byte(weaknesses.String), &report.Weaknesses); err != nil {
				return domain.Analysis{}, fmt.Errorf("failed to decode weaknesses: %w", err)
			}
		}
		an.Report = &report
	}

	return an, nil
}

func (a *Adapter) loadRecommendations(ctx context.Context, analysisID string) ([]domain.Recommendation, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT track_id, title, artist_ids, artist_names, genres, popularity, reason
		FROM analysis_recommendations
		WHERE analysis_id = ?
		ORDER BY position ASC
	`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	defer rows.Close()

	var recs []domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		var title sql.NullString
		var artistIDs, artistNames, genres sql.NullString
		var reason string
		if err := rows.Scan(&rec.Track.ID, &title, &artistIDs, &artistNames, &genres, &rec.Track.Popularity, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		if title.Valid {
			rec.Track.Title = title.String
		}
		if err := decodeStrings(artistIDs, &rec.Track.ArtistIDs); err != nil {
			return nil, err
		}
		if err := decodeStrings(artistNames, &rec.Track.ArtistNames); err != nil {
			return nil, err
		}
		if err := decodeStrings(genres, &rec.Track.Genres); err != nil {
			return nil, err
		}
		rec.Reason = domain.Criterion(reason)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}

	return recs, nil
}

func decodeStrings(raw sql.NullString, dest *[]string) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dest); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		playlist_id TEXT NOT NULL,
		playlist_name TEXT,
		playlist_owner TEXT,
		track_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT,
		overall REAL,
		artist_diversity REAL,
		genre_diversity REAL,
		popularity_balance REAL,
		length_adequacy REAL,
		weaknesses TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analysis_recommendations (
		analysis_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		track_id TEXT NOT NULL,
		title TEXT,
		artist_ids TEXT,
		artist_names TEXT,
		genres TEXT,
		popularity INTEGER,
		reason TEXT NOT NULL,
		PRIMARY KEY (analysis_id, position),
		FOREIGN KEY(analysis_id) REFERENCES analyses(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	return nil
}
