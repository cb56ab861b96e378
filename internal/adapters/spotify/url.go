package spotify

import (
	"fmt"
	"net/url"
	"strings"
)

const playlistURIPrefix = "spotify:playlist:"

// ParsePlaylistID extracts the playlist ID from a bare ID, a spotify: URI or
// an open.spotify.com share URL (query string and locale prefix included).
func ParsePlaylistID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("spotify adapter: empty playlist reference")
	}

	if strings.HasPrefix(ref, playlistURIPrefix) {
		return validatePlaylistID(strings.TrimPrefix(ref, playlistURIPrefix))
	}

	if strings.Contains(ref, "open.spotify.com") || strings.Contains(ref, "://") {
		parsed, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("spotify adapter: invalid playlist url: %w", err)
		}
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		for i, seg := range segments {
			if seg == "playlist" && i+1 < len(segments) {
				return validatePlaylistID(segments[i+1])
			}
		}
		return "", fmt.Errorf("spotify adapter: url %q does not point at a playlist", ref)
	}

	return validatePlaylistID(ref)
}

func validatePlaylistID(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("spotify adapter: empty playlist id")
	}
	for _, r := range id {
		isAlnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isAlnum {
			return "", fmt.Errorf("spotify adapter: invalid playlist id %q", id)
		}
	}
	return id, nil
}
