package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gamescout/pkg/models"
)

// RAWG API base (public, key required)
const rawgBase = "https://api.rawg.io/api"

// RawgClient fetches game records from the RAWG catalog API. Single-pass,
// no retries: a failed page fails the whole fetch.
type RawgClient struct {
	Client  *http.Client
	APIKey  string
	BaseURL string
}

func NewRawgClient(apiKey string) (*RawgClient, error) {
	if apiKey == "" {
		return nil, errors.New("rawg: api key not configured")
	}
	return &RawgClient{
		Client:  &http.Client{Timeout: 30 * time.Second},
		APIKey:  apiKey,
		BaseURL: rawgBase,
	}, nil
}

// ListFilters narrows a games listing. Zero values are omitted from the
// request.
type ListFilters struct {
	Genres    string // comma-separated slugs
	Platforms string // comma-separated ids
	Ordering  string // e.g. "-rating"
}

// ListResponse is one page of the games listing; Next is nil or empty on the
// last page.
type ListResponse struct {
	Next    *string          `json:"next"`
	Results []models.RawGame `json:"results"`
}

// ListGames fetches one page of the games listing.
func (c *RawgClient) ListGames(ctx context.Context, page, pageSize int, filters ListFilters) (ListResponse, error) {
	u, err := url.Parse(c.BaseURL + "/games")
	if err != nil {
		return ListResponse{}, fmt.Errorf("rawg: parse url: %w", err)
	}
	q := u.Query()
	q.Set("key", c.APIKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if filters.Genres != "" {
		q.Set("genres", filters.Genres)
	}
	if filters.Platforms != "" {
		q.Set("platforms", filters.Platforms)
	}
	if filters.Ordering != "" {
		q.Set("ordering", filters.Ordering)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return ListResponse{}, fmt.Errorf("rawg: build request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return ListResponse{}, fmt.Errorf("rawg: request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if len(body) > 200 {
			body = body[:200]
		}
		return ListResponse{}, fmt.Errorf("rawg: status %d: %s", resp.StatusCode, string(body))
	}

	var list ListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return ListResponse{}, fmt.Errorf("rawg: decode: %w", err)
	}
	return list, nil
}

// FetchAll downloads pages until maxPages is hit, a page comes back empty, or
// the API reports no next page. Fetching "everything" can be enormous, so the
// caller controls the cap.
func (c *RawgClient) FetchAll(ctx context.Context, maxPages, pageSize int, filters ListFilters) ([]models.RawGame, error) {
	var results []models.RawGame
	for page := 1; page <= maxPages; page++ {
		list, err := c.ListGames(ctx, page, pageSize, filters)
		if err != nil {
			return nil, err
		}
		results = append(results, list.Results...)
		if list.Next == nil || *list.Next == "" || len(list.Results) == 0 {
			break
		}
	}
	return results, nil
}
