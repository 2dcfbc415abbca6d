package cheapshark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrTooManyIDs is returned when a batch lookup exceeds the provider limit.
var ErrTooManyIDs = errors.New("too many game ids in batch request")

// maxBatchIDs is the provider's cap on ids per batch lookup
const maxBatchIDs = 25

// Client is a deals provider HTTP client
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Rate limiting
	mu       sync.Mutex
	lastCall time.Time
	minDelay time.Duration
}

// NewClient creates a new deals provider client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		minDelay: 200 * time.Millisecond, // rate-limit courtesy
	}
}

func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.lastCall)
	if elapsed < c.minDelay {
		time.Sleep(c.minDelay - elapsed)
	}
	c.lastCall = time.Now()
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	c.throttle()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(data))
	}

	return data, nil
}

// Stores returns the full store catalog
func (c *Client) Stores(ctx context.Context) ([]Store, error) {
	data, err := c.doRequest(ctx, "/stores", nil)
	if err != nil {
		return nil, err
	}

	var stores []Store
	if err := json.Unmarshal(data, &stores); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return stores, nil
}

// ActiveStores filters a catalog down to currently active stores
func ActiveStores(stores []Store) []Store {
	var active []Store
	for _, s := range stores {
		if s.IsActive == 1 {
			active = append(active, s)
		}
	}
	return active
}

// Deals returns a page of deal listings matching the query
func (c *Client) Deals(ctx context.Context, q DealsQuery) ([]Deal, error) {
	params := url.Values{}
	if q.StoreID != "" {
		params.Set("storeID", q.StoreID)
	}
	if q.UpperPrice > 0 {
		params.Set("upperPrice", strconv.FormatFloat(q.UpperPrice, 'f', -1, 64))
	}
	if q.LowerPrice > 0 {
		params.Set("lowerPrice", strconv.FormatFloat(q.LowerPrice, 'f', -1, 64))
	}
	if q.Metacritic > 0 {
		params.Set("metacritic", strconv.Itoa(q.Metacritic))
	}
	if q.SteamRating > 0 {
		params.Set("steamRating", strconv.Itoa(q.SteamRating))
	}
	if q.Title != "" {
		params.Set("title", q.Title)
	}
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.Desc {
		params.Set("desc", "1")
	}
	if q.PageNumber > 0 {
		params.Set("pageNumber", strconv.Itoa(q.PageNumber))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.OnSale {
		params.Set("onSale", "1")
	}

	data, err := c.doRequest(ctx, "/deals", params)
	if err != nil {
		return nil, err
	}

	var deals []Deal
	if err := json.Unmarshal(data, &deals); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return deals, nil
}

// SearchGames searches games by title
func (c *Client) SearchGames(ctx context.Context, title string, limit int) ([]GameSummary, error) {
	params := url.Values{}
	params.Set("title", title)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	data, err := c.doRequest(ctx, "/games", params)
	if err != nil {
		return nil, err
	}

	var games []GameSummary
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return games, nil
}

// GameByID returns detail and current deals for a single game
func (c *Client) GameByID(ctx context.Context, gameID string) (*GameInfo, error) {
	params := url.Values{}
	params.Set("id", gameID)

	data, err := c.doRequest(ctx, "/games", params)
	if err != nil {
		return nil, err
	}

	var info GameInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return &info, nil
}

// GamesByIDs returns detail for up to 25 games in one call, keyed by gameID
func (c *Client) GamesByIDs(ctx context.Context, gameIDs []string) (map[string]GameInfo, error) {
	if len(gameIDs) > maxBatchIDs {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyIDs, len(gameIDs), maxBatchIDs)
	}

	params := url.Values{}
	params.Set("ids", strings.Join(gameIDs, ","))

	data, err := c.doRequest(ctx, "/games", params)
	if err != nil {
		return nil, err
	}

	var games map[string]GameInfo
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return games, nil
}

// DealURL returns the provider's redirect URL for a deal
func DealURL(dealID string) string {
	if dealID == "" {
		return ""
	}
	return "https://www.cheapshark.com/redirect?dealID=" + url.QueryEscape(dealID)
}
