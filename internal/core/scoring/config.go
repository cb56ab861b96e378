// Package scoring computes a composite quality score for a playlist
// snapshot: artist diversity, genre diversity, popularity balance and length
// adequacy, combined into one overall rating.
package scoring

import (
	"fmt"
	"math"
)

const weightTolerance = 1e-9

// Config carries the tunable weights and thresholds of the scoring engine.
// Callers pass it explicitly so tests can probe boundary behaviour with
// alternative values instead of relying on hardcoded literals.
type Config struct {
	// Weights of the four subscores in the overall score. They must sum to 1.
	ArtistDiversityWeight   float64
	GenreDiversityWeight    float64
	PopularityBalanceWeight float64
	LengthAdequacyWeight    float64

	// WeaknessThreshold flags any subscore strictly below it as a weakness.
	WeaknessThreshold float64

	// DiscoveryCeiling and PopularFloor split popularity into bands: tracks
	// below the ceiling count as discovery, tracks at or above the floor as
	// popular.
	DiscoveryCeiling int
	PopularFloor     int

	// BandTarget is the fraction of discovery (and, separately, popular)
	// tracks at which that band earns full credit.
	BandTarget float64

	// SpreadTarget is the popularity standard deviation at full credit.
	SpreadTarget float64

	// DominantGenreFraction is the share of tracks a genre must appear on to
	// count as dominant.
	DominantGenreFraction float64

	// MaxDominantGenres is the largest dominant-genre count that still scores
	// full marks; each extra dominant genre costs GenreDecayStep points.
	MaxDominantGenres int
	GenreDecayStep    float64

	// GenreScatterRatio caps distinct genres relative to track count before a
	// scatter penalty applies.
	GenreScatterRatio float64

	// FullLengthCount is the track count at which length adequacy maxes out.
	FullLengthCount int
}

// DefaultConfig returns the values the analyzer ships with.
func DefaultConfig() Config {
	return Config{
		ArtistDiversityWeight:   0.3,
		GenreDiversityWeight:    0.3,
		PopularityBalanceWeight: 0.2,
		LengthAdequacyWeight:    0.2,
		WeaknessThreshold:       60,
		DiscoveryCeiling:        40,
		PopularFloor:            70,
		BandTarget:              0.15,
		SpreadTarget:            25,
		DominantGenreFraction:   0.30,
		MaxDominantGenres:       3,
		GenreDecayStep:          20,
		GenreScatterRatio:       2.0,
		FullLengthCount:         50,
	}
}

// Validate checks that the weights form a convex combination.
func (c Config) Validate() error {
	sum := c.ArtistDiversityWeight + c.GenreDiversityWeight + c.PopularityBalanceWeight + c.LengthAdequacyWeight
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("scoring: weights must sum to 1, got %v", sum)
	}
	for _, w := range []float64{c.ArtistDiversityWeight, c.GenreDiversityWeight, c.PopularityBalanceWeight, c.LengthAdequacyWeight} {
		if w < 0 {
			return fmt.Errorf("scoring: weights must be non-negative, got %v", w)
		}
	}
	return nil
}
