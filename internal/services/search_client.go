package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/foxxcyber/voicelist/internal/models"
)

const (
	defaultSearchTimeout = 8 * time.Second
	maxSearchBodyBytes   = 1 << 20
)

// SearchClient queries a remote product search endpoint
type SearchClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewSearchClient creates a client for endpoint
func NewSearchClient(endpoint string, timeout time.Duration) *SearchClient {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	return &SearchClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search sends the query as URL parameters. The service may answer with
// {"items": [...]} or with a bare array of products.
func (c *SearchClient) Search(ctx context.Context, params *models.ProductSearchParams) (*models.SearchResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = models.SearchLimit
	}

	v := url.Values{}
	v.Set("q", params.Q)
	if params.MinPrice != nil {
		v.Set("min_price", strconv.FormatFloat(*params.MinPrice, 'f', -1, 64))
	}
	if params.MaxPrice != nil {
		v.Set("max_price", strconv.FormatFloat(*params.MaxPrice, 'f', -1, 64))
	}
	if params.Brand != "" {
		v.Set("brand", params.Brand)
	}
	v.Set("currency", models.SearchCurrency)
	v.Set("limit", strconv.Itoa(limit))

	reqURL := c.endpoint + "?" + v.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search service returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []models.Product
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return &models.SearchResponse{Items: items}, nil
	}

	var out models.SearchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}
