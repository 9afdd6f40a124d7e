// Package youtube provides the YouTube Data API client used to list a
// channel's uploads for the catalog.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kaiku/internal/catalog"
)

// Lister defines the channel listing operation used by the fetch stage.
type Lister interface {
	ListNewItems(ctx context.Context, channel string, known func(id string) bool) ([]catalog.Item, error)
}

// Client provides access to the YouTube Data API v3.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

var _ Lister = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a YouTube client. pageSize is clamped to the API maximum of 50.
func New(apiKey, baseURL string, pageSize int, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("youtube api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("youtube base url required")
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type channelsResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			ResourceID  struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

// ListNewItems lists the channel's uploads newest-first, skipping entries the
// known predicate recognizes. Pagination stops after the first page that
// contains a known entry: uploads playlists are ordered newest-first, so
// everything past that page is already cataloged. A nil predicate lists the
// full channel history.
func (c *Client) ListNewItems(ctx context.Context, channel string, known func(id string) bool) ([]catalog.Item, error) {
	channelID, err := c.resolveChannelID(ctx, channel)
	if err != nil {
		return nil, err
	}
	playlistID, err := c.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var items []catalog.Item
	pageToken := ""
	for {
		page, err := c.listPlaylistPage(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}

		sawKnown := false
		for _, entry := range page.Items {
			id := entry.Snippet.ResourceID.VideoID
			if id == "" {
				continue
			}
			if known != nil && known(id) {
				sawKnown = true
				continue
			}
			items = append(items, catalog.Item{
				ID:          id,
				Name:        entry.Snippet.Title,
				PublishedAt: entry.Snippet.PublishedAt,
			})
		}

		if sawKnown || page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	return items, nil
}

// resolveChannelID turns a channel reference into a channel ID. Raw IDs
// ("UC...") pass through; handles ("@name") and legacy usernames are looked
// up via the channels endpoint.
func (c *Client) resolveChannelID(ctx context.Context, channel string) (string, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return "", errors.New("channel must not be empty")
	}
	if strings.HasPrefix(channel, "UC") && len(channel) == 24 {
		return channel, nil
	}

	param := "forUsername"
	if strings.HasPrefix(channel, "@") {
		param = "forHandle"
	}

	params := url.Values{}
	params.Set("part", "id")
	params.Set(param, channel)

	var payload channelsResponse
	if err := c.get(ctx, "/channels", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return "", fmt.Errorf("channel %q not found", channel)
	}
	return payload.Items[0].ID, nil
}

// uploadsPlaylistID fetches the channel's uploads playlist.
func (c *Client) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", channelID)

	var payload channelsResponse
	if err := c.get(ctx, "/channels", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return "", fmt.Errorf("channel %q not found", channelID)
	}
	uploads := payload.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", fmt.Errorf("channel %q has no uploads playlist", channelID)
	}
	return uploads, nil
}

func (c *Client) listPlaylistPage(ctx context.Context, playlistID, pageToken string) (*playlistItemsResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(c.pageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var payload playlistItemsResponse
	if err := c.get(ctx, "/playlistItems", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse youtube url: %w", err)
	}
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube response: %w", err)
	}
	return nil
}
