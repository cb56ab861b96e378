package domain

import "fmt"

// Track represents one playlist entry in the domain layer.
// ArtistIDs is ordered with the primary artist first. Genres holds the union
// of the genres attached to the track's artists and may be empty when the
// catalog has no genre data for them.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	ArtistIDs   []string `json:"artist_ids"`
	ArtistNames []string `json:"artist_names,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Popularity  int      `json:"popularity"`
}

// PrimaryArtist returns the first artist ID, or "" when the track has none.
func (t Track) PrimaryArtist() string {
	if len(t.ArtistIDs) == 0 {
		return ""
	}
	return t.ArtistIDs[0]
}

// Validate checks the track invariants: non-empty ID, at least one artist,
// and popularity within [0, 100].
func (t Track) Validate() error {
	if t.ID == "" {
		return &InvalidTrackError{Reason: "missing id"}
	}
	if len(t.ArtistIDs) == 0 {
		return &InvalidTrackError{TrackID: t.ID, Reason: "no artists"}
	}
	if t.Popularity < 0 || t.Popularity > 100 {
		return &InvalidTrackError{TrackID: t.ID, Reason: fmt.Sprintf("popularity %d out of range", t.Popularity)}
	}
	return nil
}
