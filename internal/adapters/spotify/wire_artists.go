package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// artistBatchSize is Spotify's maximum for the several-artists endpoint.
const artistBatchSize = 50

// getArtistGenres fetches genre labels for the given artists in batches and
// returns a map keyed by artist ID.
func (c *Client) getArtistGenres(ctx context.Context, artistIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(artistIDs))
	if len(artistIDs) == 0 {
		return result, nil
	}

	for start := 0; start < len(artistIDs); start += artistBatchSize {
		end := start + artistBatchSize
		if end > len(artistIDs) {
			end = len(artistIDs)
		}

		artistsURL, err := url.Parse(fmt.Sprintf("%s/artists", c.baseURL))
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: invalid artists url: %w", err)
		}
		query := artistsURL.Query()
		query.Set("ids", strings.Join(artistIDs[start:end], ","))
		artistsURL.RawQuery = query.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, artistsURL.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: failed to create artists request: %w", err)
		}

		resp, err := c.doRequestWithRetry(req)
		if err != nil {
			return nil, fmt.Errorf("spotify adapter: artists request failed: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("spotify adapter: artists status %d", resp.StatusCode)
		}

		var body artistsResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("spotify adapter: artists decode error: %w", err)
		}
		_ = resp.Body.Close()

		for _, artist := range body.Artists {
			if artist.ID == "" {
				continue // Spotify returns null for unknown IDs
			}
			result[artist.ID] = artist.Genres
		}
	}

	return result, nil
}
