package serpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/resilience"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     string
		wantResults int
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"organic_results": [
					{"position": 1, "title": "Acme Corp", "link": "https://acme.example", "snippet": "Official site", "displayed_link": "acme.example"},
					{"position": 2, "title": "Acme on LinkedIn", "link": "https://linkedin.com/company/acme", "snippet": "Profile", "displayed_link": "linkedin.com"}
				]
			}`,
			wantResults: 2,
		},
		{
			name:        "empty_results",
			status:      http.StatusOK,
			body:        `{"organic_results": []}`,
			wantResults: 0,
		},
		{
			name:    "provider_error_payload",
			status:  http.StatusOK,
			body:    `{"error": "Your searches for the month are exhausted"}`,
			wantErr: "provider error",
		},
		{
			name:    "server_error",
			status:  http.StatusInternalServerError,
			body:    `{"error": "internal"}`,
			wantErr: "unexpected status 500",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/search", r.URL.Path)
				assert.Equal(t, "google", r.URL.Query().Get("engine"))
				assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			resp, err := client.Search(context.Background(), SearchRequest{Query: "Acme Corp", Num: 5})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Len(t, resp.OrganicResults, tt.wantResults)
		})
	}
}

func TestSearch_QueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Find the email of Acme", q.Get("q"))
		assert.Equal(t, "5", q.Get("num"))
		assert.Equal(t, "en", q.Get("hl"))
		assert.Equal(t, "us", q.Get("gl"))

		_, _ = w.Write([]byte(`{"organic_results": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), SearchRequest{Query: "Find the email of Acme", Num: 5})
	require.NoError(t, err)
}

func TestSearch_LocaleOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "de", r.URL.Query().Get("hl"))
		assert.Equal(t, "de", r.URL.Query().Get("gl"))
		_, _ = w.Write([]byte(`{"organic_results": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), SearchRequest{Query: "x", HL: "de", GL: "de"})
	require.NoError(t, err)
}

func TestSearch_ProviderErrorIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Invalid API key"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), SearchRequest{Query: "x"})
	require.Error(t, err)

	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.False(t, resilience.IsTransient(err))
}

func TestSearch_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), SearchRequest{Query: "x"})
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestSearch_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"organic_results": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, SearchRequest{Query: "x"})
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient("my-key")
	hc := c.(*httpClient)
	assert.Equal(t, "my-key", hc.apiKey)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.NotNil(t, hc.http)
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()
	custom := &http.Client{}
	c := NewClient("my-key", WithHTTPClient(custom))
	hc := c.(*httpClient)
	assert.Equal(t, custom, hc.http)
}
