// Package enrichment looks up covers and metadata from the Jikan catalog API
// by title string. Lookups are best-effort: a miss or error leaves the entry
// with its placeholder cover.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAPIURL = "https://api.jikan.moe/v4"

	// Jikan allows ~60 requests per minute; stay at 1 rps with a small burst.
	rateLimit = 1
	rateBurst = 3
)

// ErrNoMatch reports that the catalog returned no result for a title.
var ErrNoMatch = errors.New("no catalog match")

// Manga is the subset of a Jikan record this system uses.
type Manga struct {
	MalID    int64
	Title    string
	ImageURL string
	Synopsis string
	Score    float64
	Status   string
	Authors  []string
}

// Client is a rate-limited Jikan v4 HTTP client.
type Client struct {
	apiURL      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a Jikan client. An empty apiURL selects the public API.
func NewClient(apiURL string) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		apiURL:      apiURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// searchResponse mirrors the Jikan v4 search payload.
type searchResponse struct {
	Data []struct {
		MalID  int64  `json:"mal_id"`
		Title  string `json:"title"`
		Images struct {
			JPG struct {
				ImageURL      string `json:"image_url"`
				LargeImageURL string `json:"large_image_url"`
			} `json:"jpg"`
		} `json:"images"`
		Synopsis string  `json:"synopsis"`
		Score    float64 `json:"score"`
		Status   string  `json:"status"`
		Authors  []struct {
			Name string `json:"name"`
		} `json:"authors"`
	} `json:"data"`
}

// Search returns the best catalog match for a title, or ErrNoMatch.
func (c *Client) Search(ctx context.Context, title string) (*Manga, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/manga?q=%s&limit=1", c.apiURL, url.QueryEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request: unexpected status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog response: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, ErrNoMatch
	}

	record := payload.Data[0]
	manga := &Manga{
		MalID:    record.MalID,
		Title:    record.Title,
		ImageURL: record.Images.JPG.ImageURL,
		Synopsis: record.Synopsis,
		Score:    record.Score,
		Status:   record.Status,
	}
	if record.Images.JPG.LargeImageURL != "" {
		manga.ImageURL = record.Images.JPG.LargeImageURL
	}
	for _, author := range record.Authors {
		manga.Authors = append(manga.Authors, author.Name)
	}
	return manga, nil
}
