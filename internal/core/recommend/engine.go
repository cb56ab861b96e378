// Package recommend proposes candidate tracks that would improve a
// playlist's weak scoring criteria. Like the scoring engine it is pure and
// best-effort: an empty candidate pool yields an empty result, never an
// error.
package recommend

import (
	"github.com/toniu/playscore/internal/core/domain"
	"github.com/toniu/playscore/internal/core/scoring"
)

const defaultMaxPerWeakness = 5

// Config controls recommendation selection.
type Config struct {
	// MaxPerWeakness caps suggestions per flagged criterion.
	MaxPerWeakness int
}

// DefaultConfig returns the shipped selection policy.
func DefaultConfig() Config {
	return Config{MaxPerWeakness: defaultMaxPerWeakness}
}

// Engine selects candidates per weakness. It shares the scoring thresholds so
// "discovery" and "dominant genre" mean the same thing in both engines.
type Engine struct {
	cfg     Config
	scoring scoring.Config
}

// NewEngine constructs an Engine. A non-positive MaxPerWeakness falls back to
// the default.
func NewEngine(cfg Config, scoringCfg scoring.Config) *Engine {
	if cfg.MaxPerWeakness <= 0 {
		cfg.MaxPerWeakness = defaultMaxPerWeakness
	}
	return &Engine{cfg: cfg, scoring: scoringCfg}
}

// Recommend walks the report's weaknesses worst-first and picks candidates
// from the pool that would improve each one. A candidate already in the
// playlist is never returned, and a track recommended for one weakness is not
// repeated for another. Order is stable: weakness order, then pool order.
func (e *Engine) Recommend(report domain.ScoreReport, playlist domain.Playlist, pool []domain.Track) []domain.Recommendation {
	if len(pool) == 0 || len(report.Weaknesses) == 0 {
		return nil
	}

	prof := scoring.BuildProfile(playlist, e.scoring)

	inPlaylist := make(map[string]struct{}, len(playlist.Tracks))
	for _, t := range playlist.Tracks {
		inPlaylist[t.ID] = struct{}{}
	}

	taken := make(map[string]struct{})
	var recs []domain.Recommendation

	for _, weakness := range report.Weaknesses {
		picked := 0
		for _, cand := range pool {
			if picked >= e.cfg.MaxPerWeakness {
				break
			}
			if cand.ID == "" {
				continue
			}
			if _, dup := inPlaylist[cand.ID]; dup {
				continue
			}
			if _, dup := taken[cand.ID]; dup {
				continue
			}
			if !e.improves(weakness, cand, prof) {
				continue
			}
			taken[cand.ID] = struct{}{}
			recs = append(recs, domain.Recommendation{Track: cand, Reason: weakness})
			picked++
		}
	}

	return recs
}

// improves reports whether adding the candidate would help the criterion.
func (e *Engine) improves(criterion domain.Criterion, cand domain.Track, prof scoring.Profile) bool {
	switch criterion {
	case domain.ArtistDiversity:
		// Only fresh artists raise the unique-artist fraction.
		for _, id := range cand.ArtistIDs {
			if prof.HasArtist(id) {
				return false
			}
		}
		return len(cand.ArtistIDs) > 0

	case domain.GenreDiversity:
		if len(prof.DominantGenres) == 0 {
			// Nothing dominates yet: seed focus with a genre the playlist
			// does not have at all.
			for _, g := range cand.Genres {
				if !prof.HasGenre(g) {
					return true
				}
			}
			return false
		}
		// Otherwise reinforce the existing dominant genres.
		for _, g := range cand.Genres {
			if prof.IsDominant(g) {
				return true
			}
		}
		return false

	case domain.PopularityBalance:
		// Fill whichever popularity band is under-represented.
		if prof.DiscoveryFraction <= prof.PopularFraction {
			return cand.Popularity < e.scoring.DiscoveryCeiling
		}
		return cand.Popularity >= e.scoring.PopularFloor

	case domain.LengthAdequacy:
		// Any new track moves the count toward the target.
		return true
	}

	return false
}
