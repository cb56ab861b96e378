package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/toniu/playscore/internal/core/domain"
	"github.com/toniu/playscore/internal/core/ports"
)

// GetPlaylist resolves a playlist reference into a full snapshot. Track pages
// are followed until exhausted and every track is enriched with its artists'
// genres.
func (c *Client) GetPlaylist(ctx context.Context, ref string) (domain.Playlist, error) {
	id, err := ParsePlaylistID(ref)
	if err != nil {
		return domain.Playlist{}, err
	}

	url := fmt.Sprintf("%s/playlists/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("spotify adapter: failed to create playlist request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("spotify adapter: playlist request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Playlist{}, fmt.Errorf("spotify adapter: %w", &ports.PlaylistNotFoundError{Ref: ref})
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Playlist{}, fmt.Errorf("spotify adapter: playlist status %d", resp.StatusCode)
	}

	var pr playlistResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return domain.Playlist{}, fmt.Errorf("spotify adapter: playlist decode error: %w", err)
	}

	wire := make([]trackObject, 0, pr.Tracks.Total)
	for _, item := range pr.Tracks.Items {
		if item.Track != nil {
			wire = append(wire, *item.Track)
		}
	}

	next := pr.Tracks.Next
	for next != "" {
		page, err := c.getTrackPage(ctx, next)
		if err != nil {
			return domain.Playlist{}, err
		}
		for _, item := range page.Items {
			if item.Track != nil {
				wire = append(wire, *item.Track)
			}
		}
		next = page.Next
	}

	genres, err := c.getArtistGenres(ctx, collectArtistIDs(wire))
	if err != nil {
		// Genre data is an enrichment: tracks without it still score, the
		// genre criterion just sees them as unlabeled.
		slog.Warn("spotify adapter: genre enrichment failed", "playlist", id, "error", err)
		genres = nil
	}

	return domain.Playlist{
		ID:     pr.ID,
		Name:   pr.Name,
		Owner:  pr.Owner.DisplayName,
		Tracks: mapTracksToDomain(wire, genres),
	}, nil
}

// getTrackPage follows a pagination URL returned by a previous page.
func (c *Client) getTrackPage(ctx context.Context, pageURL string) (pagedTracks, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return pagedTracks{}, fmt.Errorf("spotify adapter: failed to create page request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return pagedTracks{}, fmt.Errorf("spotify adapter: page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pagedTracks{}, fmt.Errorf("spotify adapter: page status %d", resp.StatusCode)
	}

	var page pagedTracks
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return pagedTracks{}, fmt.Errorf("spotify adapter: page decode error: %w", err)
	}

	return page, nil
}
