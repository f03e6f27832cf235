package strategy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/fetch"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/strategy"
)

func TestAPI_WalksArbitraryJSON(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"posts": [
				{"title": "First", "slug": "/blog/first"},
				{"title": "Second", "links": {"canonical": "/blog/second"}}
			],
			"meta": {"next": null, "total": 2}
		}`))
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig("example.com")
	cfg.APIEndpoints = []string{"/api/posts"}

	api := strategy.NewAPI(fetch.New(), logger.NewNoOp())
	urls, err := api.Attempt(context.Background(), srv.URL+"/blog", cfg, crawl.NewState())
	require.NoError(t, err)

	assert.Len(t, urls, 2)
	assert.Contains(t, urls, srv.URL+"/blog/first")
	assert.Contains(t, urls, srv.URL+"/blog/second")
}

func TestAPI_NoEndpointsConfigured(t *testing.T) {
	t.Parallel()

	api := strategy.NewAPI(fetch.New(), logger.NewNoOp())
	urls, err := api.Attempt(context.Background(), "https://example.com/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestAPI_SkipsFailingEndpoints(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/bad", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})
	mux.HandleFunc("/api/good", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["/blog/from-good"]`))
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig("example.com")
	cfg.APIEndpoints = []string{"/api/missing", "/api/bad", "/api/good"}

	api := strategy.NewAPI(fetch.New(), logger.NewNoOp())
	urls, err := api.Attempt(context.Background(), srv.URL+"/blog", cfg, crawl.NewState())
	require.NoError(t, err)

	assert.Len(t, urls, 1)
	assert.Contains(t, urls, srv.URL+"/blog/from-good")
}
