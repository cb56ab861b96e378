package domain

import (
	"errors"
	"testing"
)

func TestTrack_Validate(t *testing.T) {
	tests := []struct {
		name    string
		track   Track
		wantErr bool
	}{
		{
			name:    "valid track",
			track:   Track{ID: "t1", ArtistIDs: []string{"a1"}, Popularity: 50},
			wantErr: false,
		},
		{
			name:    "popularity at lower bound",
			track:   Track{ID: "t1", ArtistIDs: []string{"a1"}, Popularity: 0},
			wantErr: false,
		},
		{
			name:    "popularity at upper bound",
			track:   Track{ID: "t1", ArtistIDs: []string{"a1"}, Popularity: 100},
			wantErr: false,
		},
		{
			name:    "missing id",
			track:   Track{ArtistIDs: []string{"a1"}, Popularity: 50},
			wantErr: true,
		},
		{
			name:    "no artists",
			track:   Track{ID: "t1", Popularity: 50},
			wantErr: true,
		},
		{
			name:    "popularity below range",
			track:   Track{ID: "t1", ArtistIDs: []string{"a1"}, Popularity: -1},
			wantErr: true,
		},
		{
			name:    "popularity above range",
			track:   Track{ID: "t1", ArtistIDs: []string{"a1"}, Popularity: 101},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc // capture range variable
		t.Run(tc.name, func(t *testing.T) {
			err := tc.track.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidTrack) {
					t.Fatalf("expected ErrInvalidTrack, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestPlaylist_Validate(t *testing.T) {
	valid := Playlist{
		ID:   "pl-1",
		Name: "Test",
		Tracks: []Track{
			{ID: "t1", ArtistIDs: []string{"a1"}, Popularity: 50},
			{ID: "t2", ArtistIDs: []string{"a2"}, Popularity: 80},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid playlist, got %v", err)
	}

	empty := Playlist{ID: "pl-2", Name: "Empty"}
	if err := empty.Validate(); err != nil {
		t.Fatalf("empty playlist must be valid, got %v", err)
	}

	invalid := Playlist{
		ID:   "pl-3",
		Name: "Broken",
		Tracks: []Track{
			{ID: "t1", ArtistIDs: []string{"a1"}, Popularity: 50},
			{ID: "t2", ArtistIDs: []string{"a2"}, Popularity: 150},
		},
	}
	err := invalid.Validate()
	if !errors.Is(err, ErrInvalidTrack) {
		t.Fatalf("expected ErrInvalidTrack, got %v", err)
	}
	var trackErr *InvalidTrackError
	if !errors.As(err, &trackErr) {
		t.Fatalf("expected InvalidTrackError, got %T", err)
	}
	if trackErr.TrackID != "t2" {
		t.Fatalf("expected failing track t2, got %q", trackErr.TrackID)
	}
}

func TestTrack_PrimaryArtist(t *testing.T) {
	track := Track{ID: "t1", ArtistIDs: []string{"a1", "a2"}}
	if got := track.PrimaryArtist(); got != "a1" {
		t.Fatalf("primary artist: got %q, want %q", got, "a1")
	}
	if got := (Track{}).PrimaryArtist(); got != "" {
		t.Fatalf("primary artist of empty track: got %q, want empty", got)
	}
}
