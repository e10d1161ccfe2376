// Package serpapi wraps the SerpAPI Google Search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/resilience"
)

const defaultBaseURL = "https://serpapi.com"

// Client performs web searches against SerpAPI.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest holds the search parameters.
type SearchRequest struct {
	Query string
	Num   int    // number of results to request
	HL    string // interface language hint, default "en"
	GL    string // geolocation hint, default "us"
}

// SearchResponse is the decoded SerpAPI payload.
type SearchResponse struct {
	OrganicResults []OrganicResult `json:"organic_results"`
	Error          string          `json:"error,omitempty"`
}

// OrganicResult is one ranked organic hit.
type OrganicResult struct {
	Position      int    `json:"position"`
	Title         string `json:"title"`
	Link          string `json:"link"`
	Snippet       string `json:"snippet"`
	DisplayedLink string `json:"displayed_link"`
}

// ProviderError is an explicit error payload from the provider. It is
// not transient: retrying the same query will fail the same way.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return "serpapi: provider error: " + e.Message
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a SerpAPI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", req.Query)
	q.Set("api_key", c.apiKey)
	if req.Num > 0 {
		q.Set("num", strconv.Itoa(req.Num))
	}
	hl, gl := req.HL, req.GL
	if hl == "" {
		hl = "en"
	}
	if gl == "" {
		gl = "us"
	}
	q.Set("hl", hl)
	q.Set("gl", gl)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "serpapi: send request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: read response")
	}

	if resp.StatusCode != http.StatusOK {
		wrapped := eris.Errorf("serpapi: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(wrapped, resp.StatusCode)
		}
		return nil, wrapped
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "serpapi: unmarshal response")
	}

	// The provider reports failures as a 200 with a top-level error field.
	if result.Error != "" {
		return nil, &ProviderError{Message: result.Error}
	}

	return &result, nil
}
