// Package config loads runtime configuration from the environment (or an
// optional config file) and maps it onto the engine configs.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/toniu/playscore/internal/core/recommend"
	"github.com/toniu/playscore/internal/core/scoring"
)

// Config is the full runtime configuration.
type Config struct {
	HTTPAddr    string `env:"PLAYSCORE_ADDR" env-default:":8080" yaml:"http_addr"`
	StoragePath string `env:"PLAYSCORE_DB" env-default:"playscore.db" yaml:"storage_path"`
	Workers     int    `env:"PLAYSCORE_WORKERS" env-default:"2" yaml:"workers"`
	QueueSize   int    `env:"PLAYSCORE_QUEUE_SIZE" env-default:"100" yaml:"queue_size"`

	Spotify   SpotifyConfig   `yaml:"spotify"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Recommend RecommendConfig `yaml:"recommend"`
}

// SpotifyConfig holds the catalog credentials and endpoints.
type SpotifyConfig struct {
	ClientID     string `env:"SPOTIFY_CLIENT_ID" yaml:"client_id"`
	ClientSecret string `env:"SPOTIFY_CLIENT_SECRET" yaml:"client_secret"`
	BaseURL      string `env:"SPOTIFY_BASE_URL" env-default:"https://api.spotify.com/v1" yaml:"base_url"`
	TokenURL     string `env:"SPOTIFY_TOKEN_URL" env-default:"https://accounts.spotify.com/api/token" yaml:"token_url"`
}

// ScoringConfig exposes every scoring weight and threshold as configuration.
type ScoringConfig struct {
	ArtistDiversityWeight   float64 `env:"SCORE_WEIGHT_ARTIST_DIVERSITY" env-default:"0.3" yaml:"artist_diversity_weight"`
	GenreDiversityWeight    float64 `env:"SCORE_WEIGHT_GENRE_DIVERSITY" env-default:"0.3" yaml:"genre_diversity_weight"`
	PopularityBalanceWeight float64 `env:"SCORE_WEIGHT_POPULARITY_BALANCE" env-default:"0.2" yaml:"popularity_balance_weight"`
	LengthAdequacyWeight    float64 `env:"SCORE_WEIGHT_LENGTH_ADEQUACY" env-default:"0.2" yaml:"length_adequacy_weight"`
	WeaknessThreshold       float64 `env:"SCORE_WEAKNESS_THRESHOLD" env-default:"60" yaml:"weakness_threshold"`
	DiscoveryCeiling        int     `env:"SCORE_DISCOVERY_CEILING" env-default:"40" yaml:"discovery_ceiling"`
	PopularFloor            int     `env:"SCORE_POPULAR_FLOOR" env-default:"70" yaml:"popular_floor"`
	BandTarget              float64 `env:"SCORE_BAND_TARGET" env-default:"0.15" yaml:"band_target"`
	SpreadTarget            float64 `env:"SCORE_SPREAD_TARGET" env-default:"25" yaml:"spread_target"`
	DominantGenreFraction   float64 `env:"SCORE_DOMINANT_GENRE_FRACTION" env-default:"0.30" yaml:"dominant_genre_fraction"`
	MaxDominantGenres       int     `env:"SCORE_MAX_DOMINANT_GENRES" env-default:"3" yaml:"max_dominant_genres"`
	GenreDecayStep          float64 `env:"SCORE_GENRE_DECAY_STEP" env-default:"20" yaml:"genre_decay_step"`
	GenreScatterRatio       float64 `env:"SCORE_GENRE_SCATTER_RATIO" env-default:"2.0" yaml:"genre_scatter_ratio"`
	FullLengthCount         int     `env:"SCORE_FULL_LENGTH_COUNT" env-default:"50" yaml:"full_length_count"`
}

// RecommendConfig controls the recommendation engine and candidate sourcing.
type RecommendConfig struct {
	MaxPerWeakness    int `env:"RECOMMEND_PER_WEAKNESS" env-default:"5" yaml:"max_per_weakness"`
	CandidatePoolSize int `env:"RECOMMEND_POOL_SIZE" env-default:"50" yaml:"candidate_pool_size"`
}

// Load reads configuration from the environment. When path is non-empty the
// file is read first, with the environment still taking precedence.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to read environment: %w", err)
	}
	return cfg, nil
}

// Engine maps the scoring section onto the engine's config.
func (c ScoringConfig) Engine() scoring.Config {
	return scoring.Config{
		ArtistDiversityWeight:   c.ArtistDiversityWeight,
		GenreDiversityWeight:    c.GenreDiversityWeight,
		PopularityBalanceWeight: c.PopularityBalanceWeight,
		LengthAdequacyWeight:    c.LengthAdequacyWeight,
		WeaknessThreshold:       c.WeaknessThreshold,
		DiscoveryCeiling:        c.DiscoveryCeiling,
		PopularFloor:            c.PopularFloor,
		BandTarget:              c.BandTarget,
		SpreadTarget:            c.SpreadTarget,
		DominantGenreFraction:   c.DominantGenreFraction,
		MaxDominantGenres:       c.MaxDominantGenres,
		GenreDecayStep:          c.GenreDecayStep,
		GenreScatterRatio:       c.GenreScatterRatio,
		FullLengthCount:         c.FullLengthCount,
	}
}

// Engine maps the recommend section onto the engine's config.
func (c RecommendConfig) Engine() recommend.Config {
	return recommend.Config{MaxPerWeakness: c.MaxPerWeakness}
}
