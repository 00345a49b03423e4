package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/diipperss/FYP-DATA/internal/policy"
)

// DefaultEndpoint is the Google Custom Search JSON API endpoint.
const DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// pageStride is the API's fixed page size; the start parameter advances by it.
const pageStride = 10

// Google implements Provider against the Custom Search JSON API. Results are
// paginated in strides of ten and filtered through the domain policy before
// counting toward n.
type Google struct {
	APIKey     string
	CX         string
	Endpoint   string // defaults to DefaultEndpoint
	HTTPClient *http.Client
	Policy     policy.Policy
	// Timeout bounds each API call. Default 10s.
	Timeout time.Duration
}

func (g *Google) Name() string { return "google-cse" }

// Search collects up to n allowed URLs in API rank order. It stops early when
// the API returns an empty page. A call failure is not retried here; the
// caller decides whether to skip the query or abort the run.
func (g *Google) Search(ctx context.Context, query string, n int) ([]string, error) {
	if g.APIKey == "" || g.CX == "" {
		return nil, fmt.Errorf("google search: missing API key or CX")
	}
	if n <= 0 {
		return nil, nil
	}

	urls := make([]string, 0, n)
	for start := 1; len(urls) < n; start += pageStride {
		items, err := g.page(ctx, query, start)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break // index exhausted
		}
		for _, it := range items {
			if it.Link == "" || !g.Policy.Allowed(it.Link) {
				continue
			}
			urls = append(urls, it.Link)
			if len(urls) >= n {
				break
			}
		}
	}
	return urls, nil
}

func (g *Google) page(ctx context.Context, query string, start int) ([]searchItem, error) {
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("google search: endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", g.APIKey)
	q.Set("cx", g.CX)
	q.Set("q", query)
	q.Set("start", strconv.Itoa(start))
	u.RawQuery = q.Encode()

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	hc := g.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("google search: status %d", resp.StatusCode)
	}
	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("google search: decode: %w", err)
	}
	return body.Items, nil
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Link string `json:"link"`
}
