package spotify

import (
	"sort"

	"github.com/toniu/playscore/internal/core/domain"
)

// mapTrackToDomain converts a raw Spotify track to a domain track. genres
// maps artist ID to that artist's genre labels; the track receives the union.
// Spotify keeps genres on artists, never on tracks, which is why mapping
// needs the lookup at all.
func mapTrackToDomain(st trackObject, genres map[string][]string) domain.Track {
	artistIDs := make([]string, 0, len(st.Artists))
	artistNames := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		artistIDs = append(artistIDs, a.ID)
		artistNames = append(artistNames, a.Name)
	}

	var trackGenres []string
	if len(genres) > 0 {
		seen := make(map[string]struct{})
		for _, id := range artistIDs {
			for _, g := range genres[id] {
				if _, dup := seen[g]; dup {
					continue
				}
				seen[g] = struct{}{}
				trackGenres = append(trackGenres, g)
			}
		}
		sort.Strings(trackGenres)
	}

	return domain.Track{
		ID:          st.ID,
		Title:       st.Name,
		ArtistIDs:   artistIDs,
		ArtistNames: artistNames,
		Genres:      trackGenres,
		Popularity:  st.Popularity,
	}
}

// mapTracksToDomain converts a batch of wire tracks, dropping local tracks
// and entries without an ID (the scoring engine rejects those anyway).
func mapTracksToDomain(wire []trackObject, genres map[string][]string) []domain.Track {
	tracks := make([]domain.Track, 0, len(wire))
	for _, st := range wire {
		if st.ID == "" || st.IsLocal || len(st.Artists) == 0 {
			continue
		}
		tracks = append(tracks, mapTrackToDomain(st, genres))
	}
	return tracks
}

// collectArtistIDs gathers the distinct artist IDs of a batch of wire tracks,
// preserving first-seen order.
func collectArtistIDs(wire []trackObject) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, st := range wire {
		for _, a := range st.Artists {
			if a.ID == "" {
				continue
			}
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			ids = append(ids, a.ID)
		}
	}
	return ids
}
