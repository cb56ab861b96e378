package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/toniu/playscore/internal/core/domain"
)

// ErrPlaylistNotFound indicates the catalog has no playlist for a reference.
var ErrPlaylistNotFound = errors.New("playlist not found")

// PlaylistNotFoundError provides context for a failed playlist lookup.
type PlaylistNotFoundError struct {
	Ref string
}

func (e *PlaylistNotFoundError) Error() string {
	if e.Ref == "" {
		return ErrPlaylistNotFound.Error()
	}
	return fmt.Sprintf("playlist not found for reference %q", e.Ref)
}

func (e *PlaylistNotFoundError) Is(target error) bool {
	return target == ErrPlaylistNotFound
}

// CatalogProvider is the driven port for the remote music catalog.
type CatalogProvider interface {
	// GetPlaylist resolves a playlist reference (bare ID, spotify: URI or
	// share URL) into a snapshot with genre-enriched tracks.
	GetPlaylist(ctx context.Context, ref string) (domain.Playlist, error)

	// GetCandidates returns up to limit suggestion candidates seeded from the
	// snapshot. The candidates are source-agnostic raw material for the
	// recommendation engine; filtering against the playlist happens there.
	GetCandidates(ctx context.Context, seed domain.Playlist, limit int) ([]domain.Track, error)
}
