package scoring

import (
	"math"
	"sort"

	"github.com/toniu/playscore/internal/core/domain"
)

// Profile aggregates the per-track statistics the scoring and recommendation
// engines share. It is derived once from a snapshot and read-only afterwards.
type Profile struct {
	TrackCount int

	// ArtistCounts counts occurrences of every artist ID across all tracks;
	// a track contributes to each of its artists.
	ArtistCounts map[string]int

	// UniquePrimaryCount is the number of tracks whose primary artist occurs
	// exactly once overall.
	UniquePrimaryCount int

	// GenreCounts counts, per genre, the tracks carrying it (each track at
	// most once per genre).
	GenreCounts    map[string]int
	DistinctGenres int

	// DominantGenres lists genres present on at least the configured fraction
	// of tracks, sorted for determinism.
	DominantGenres []string

	DiscoveryFraction float64
	PopularFraction   float64
	PopularityStdDev  float64
}

// BuildProfile computes the playlist statistics under the given config.
func BuildProfile(p domain.Playlist, cfg Config) Profile {
	prof := Profile{
		TrackCount:   len(p.Tracks),
		ArtistCounts: make(map[string]int),
		GenreCounts:  make(map[string]int),
	}
	if prof.TrackCount == 0 {
		return prof
	}

	for _, t := range p.Tracks {
		for _, id := range t.ArtistIDs {
			prof.ArtistCounts[id]++
		}
		seen := make(map[string]struct{}, len(t.Genres))
		for _, g := range t.Genres {
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			prof.GenreCounts[g]++
		}
	}
	prof.DistinctGenres = len(prof.GenreCounts)

	for _, t := range p.Tracks {
		if prof.ArtistCounts[t.PrimaryArtist()] == 1 {
			prof.UniquePrimaryCount++
		}
	}

	total := float64(prof.TrackCount)
	for genre, count := range prof.GenreCounts {
		if float64(count)/total >= cfg.DominantGenreFraction {
			prof.DominantGenres = append(prof.DominantGenres, genre)
		}
	}
	sort.Strings(prof.DominantGenres)

	var discovery, popular int
	var sum float64
	for _, t := range p.Tracks {
		if t.Popularity < cfg.DiscoveryCeiling {
			discovery++
		}
		if t.Popularity >= cfg.PopularFloor {
			popular++
		}
		sum += float64(t.Popularity)
	}
	mean := sum / total
	var variance float64
	for _, t := range p.Tracks {
		d := float64(t.Popularity) - mean
		variance += d * d
	}
	prof.DiscoveryFraction = float64(discovery) / total
	prof.PopularFraction = float64(popular) / total
	prof.PopularityStdDev = math.Sqrt(variance / total)

	return prof
}

// HasGenre reports whether any playlist track carries the genre.
func (p Profile) HasGenre(genre string) bool {
	return p.GenreCounts[genre] > 0
}

// HasArtist reports whether the artist appears anywhere in the playlist.
func (p Profile) HasArtist(id string) bool {
	return p.ArtistCounts[id] > 0
}

// IsDominant reports whether the genre is one of the playlist's dominant
// genres.
func (p Profile) IsDominant(genre string) bool {
	for _, g := range p.DominantGenres {
		if g == genre {
			return true
		}
	}
	return false
}
