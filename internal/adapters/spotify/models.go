package spotify

// Wire representations of the Spotify Web API responses the adapter consumes.

type artistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type artistObject struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type trackObject struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Popularity int         `json:"popularity"`
	Artists    []artistRef `json:"artists"`
	IsLocal    bool        `json:"is_local"`
}

// playlistItem wraps a track; Track is null for removed entries and episodes.
type playlistItem struct {
	Track *trackObject `json:"track"`
}

type pagedTracks struct {
	Items []playlistItem `json:"items"`
	Next  string         `json:"next"`
	Total int            `json:"total"`
}

type playlistResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks pagedTracks `json:"tracks"`
}

type artistsResponse struct {
	Artists []artistObject `json:"artists"`
}

type recommendationsResponse struct {
	Tracks []trackObject `json:"tracks"`
}
