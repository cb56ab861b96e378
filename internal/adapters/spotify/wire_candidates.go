package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/toniu/playscore/internal/core/domain"
)

// Spotify accepts at most five recommendation seeds across all seed kinds.
const (
	maxSeedArtists = 3
	maxSeedGenres  = 2
)

// GetCandidates builds a candidate pool for the recommendation engine: a
// seed-based recommendations call using the snapshot's most frequent primary
// artists and most common genres, genre-enriched like playlist tracks and
// stripped of near-duplicates of tracks already in the snapshot.
func (c *Client) GetCandidates(ctx context.Context, seed domain.Playlist, limit int) ([]domain.Track, error) {
	if limit <= 0 {
		limit = 50
	}

	seedArtists, seedGenres := buildSeeds(seed)
	if len(seedArtists) == 0 && len(seedGenres) == 0 {
		return nil, nil
	}

	recURL, err := url.Parse(fmt.Sprintf("%s/recommendations", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid recommendations url: %w", err)
	}
	query := recURL.Query()
	if len(seedArtists) > 0 {
		query.Set("seed_artists", strings.Join(seedArtists, ","))
	}
	if len(seedGenres) > 0 {
		query.Set("seed_genres", strings.Join(seedGenres, ","))
	}
	query.Set("limit", strconv.Itoa(limit))
	recURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, recURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: failed to create recommendations request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: recommendations request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify adapter: recommendations status %d", resp.StatusCode)
	}

	var body recommendationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify adapter: recommendations decode error: %w", err)
	}

	genres, err := c.getArtistGenres(ctx, collectArtistIDs(body.Tracks))
	if err != nil {
		slog.Warn("spotify adapter: candidate genre enrichment failed", "error", err)
		genres = nil
	}

	return filterNearDuplicates(mapTracksToDomain(body.Tracks, genres), seed.Tracks), nil
}

// buildSeeds picks the snapshot's most frequent primary artists and most
// common genres, most frequent first. Ties break alphabetically so the seed
// set is deterministic for a given snapshot.
func buildSeeds(seed domain.Playlist) ([]string, []string) {
	artistCounts := make(map[string]int)
	genreCounts := make(map[string]int)
	for _, t := range seed.Tracks {
		if primary := t.PrimaryArtist(); primary != "" {
			artistCounts[primary]++
		}
		seen := make(map[string]struct{}, len(t.Genres))
		for _, g := range t.Genres {
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			genreCounts[g]++
		}
	}

	return topKeys(artistCounts, maxSeedArtists), topKeys(genreCounts, maxSeedGenres)
}

func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
