package scoring

import (
	"sort"

	"github.com/toniu/playscore/internal/core/domain"
)

// Engine turns a playlist snapshot into a score report. It is a pure
// computation: no I/O, no shared state, deterministic for a given input, and
// safe to call concurrently for independent playlists.
type Engine struct {
	cfg Config
}

// NewEngine validates the config and constructs an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Score validates the snapshot and computes the four subscores, the weighted
// overall score and the worst-first weakness list. An empty playlist is not
// an error: every subscore floors at 0.
func (e *Engine) Score(p domain.Playlist) (domain.ScoreReport, error) {
	if err := p.Validate(); err != nil {
		return domain.ScoreReport{}, err
	}

	prof := BuildProfile(p, e.cfg)

	subscores := map[domain.Criterion]float64{
		domain.ArtistDiversity:   e.artistDiversity(prof),
		domain.GenreDiversity:    e.genreDiversity(prof),
		domain.PopularityBalance: e.popularityBalance(prof),
		domain.LengthAdequacy:    e.lengthAdequacy(prof),
	}

	overall := e.cfg.ArtistDiversityWeight*subscores[domain.ArtistDiversity] +
		e.cfg.GenreDiversityWeight*subscores[domain.GenreDiversity] +
		e.cfg.PopularityBalanceWeight*subscores[domain.PopularityBalance] +
		e.cfg.LengthAdequacyWeight*subscores[domain.LengthAdequacy]

	return domain.ScoreReport{
		Overall:    clamp(overall),
		Subscores:  subscores,
		Weaknesses: e.weaknesses(subscores),
	}, nil
}

// artistDiversity is the share of tracks whose primary artist occurs exactly
// once across the whole snapshot.
func (e *Engine) artistDiversity(prof Profile) float64 {
	if prof.TrackCount == 0 {
		return 0
	}
	return clamp(100 * float64(prof.UniquePrimaryCount) / float64(prof.TrackCount))
}

// genreDiversity rewards a small number of dominant genres. Full marks for
// 1..MaxDominantGenres dominant genres; each extra dominant genre decays the
// score linearly, as does a distinct-genre count far in excess of the
// playlist length. Zero dominant genres (scattered taste or missing genre
// data) floors at 0.
func (e *Engine) genreDiversity(prof Profile) float64 {
	if prof.TrackCount == 0 {
		return 0
	}
	dominant := len(prof.DominantGenres)
	if dominant == 0 {
		return 0
	}

	score := 100.0
	if dominant > e.cfg.MaxDominantGenres {
		score -= e.cfg.GenreDecayStep * float64(dominant-e.cfg.MaxDominantGenres)
	}

	if e.cfg.GenreScatterRatio > 0 {
		limit := e.cfg.GenreScatterRatio * float64(prof.TrackCount)
		if excess := float64(prof.DistinctGenres) - limit; excess > 0 {
			score -= 100 * excess / limit
		}
	}

	return clamp(score)
}

// popularityBalance rewards snapshots mixing discovery tracks, popular tracks
// and a healthy popularity spread. Each band ramps linearly to full credit at
// BandTarget; the spread ramps to full credit at SpreadTarget.
func (e *Engine) popularityBalance(prof Profile) float64 {
	if prof.TrackCount == 0 {
		return 0
	}
	discovery := ramp(prof.DiscoveryFraction, e.cfg.BandTarget)
	popular := ramp(prof.PopularFraction, e.cfg.BandTarget)
	spread := ramp(prof.PopularityStdDev, e.cfg.SpreadTarget)
	return clamp(100 * (0.4*discovery + 0.4*popular + 0.2*spread))
}

func (e *Engine) lengthAdequacy(prof Profile) float64 {
	if e.cfg.FullLengthCount <= 0 || prof.TrackCount >= e.cfg.FullLengthCount {
		return 100
	}
	return clamp(100 * float64(prof.TrackCount) / float64(e.cfg.FullLengthCount))
}

// weaknesses returns criteria scoring below the threshold, worst first.
// Criterion declaration order breaks ties so the result is deterministic.
func (e *Engine) weaknesses(subscores map[domain.Criterion]float64) []domain.Criterion {
	var weak []domain.Criterion
	for _, c := range domain.Criteria() {
		if subscores[c] < e.cfg.WeaknessThreshold {
			weak = append(weak, c)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return subscores[weak[i]] < subscores[weak[j]]
	})
	return weak
}

func ramp(value, target float64) float64 {
	if target <= 0 {
		return 1
	}
	if value >= target {
		return 1
	}
	if value <= 0 {
		return 0
	}
	return value / target
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
