// Package spotify adapts the Spotify Web API to the catalog port: playlist
// snapshots, artist genre enrichment and seed-based candidate pools.
package spotify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/toniu/playscore/internal/core/ports"
)

const (
	// DefaultBaseURL is the Spotify Web API root.
	DefaultBaseURL = "https://api.spotify.com/v1"
	// DefaultTokenURL is the accounts endpoint for the client-credentials flow.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Client is an HTTP client for the Spotify catalog adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// NewClient builds a catalog client authenticated with the OAuth2
// client-credentials flow. The underlying token source refreshes itself, so
// the client stays valid for the life of ctx.
func NewClient(ctx context.Context, clientID, clientSecret, tokenURL, baseURL string) *Client {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	creds := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return NewClientWithHTTP(creds.Client(ctx), baseURL)
}

// NewClientWithHTTP wraps an existing HTTP client. Tests use this to point the
// adapter at an httptest server without the token exchange.
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  defaultMaxRetries,
		baseBackoff: time.Duration(defaultBackoffMs) * time.Millisecond,
	}
}
