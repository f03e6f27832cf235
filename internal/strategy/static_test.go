package strategy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sites"
	"github.com/jonesrussell/godiscover/internal/strategy"
)

const listingHTML = `<html><body>
<article><a href="/blog/post-1">Post One</a></article>
<article><a href="/blog/post-2">Post Two</a></article>
<article><a href="/about">About</a></article>
<div class="sidebar"><a href="/blog/ignored-by-selector">Ignored</a></div>
</body></html>`

func TestStatic_HarvestsMatchingAnchors(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	static := strategy.NewStatic(1, logger.NewNoOp())
	urls, err := static.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)

	// The /about anchor is inside the selector but fails the pattern; the
	// sidebar anchor matches the pattern but not the selector.
	assert.Len(t, urls, 2)
	assert.Contains(t, urls, srv.URL+"/blog/post-1")
	assert.Contains(t, urls, srv.URL+"/blog/post-2")
}

func TestStatic_WalksPaginationTemplates(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "":
			w.Write([]byte(`<html><body><article><a href="/blog/post-1">One</a></article></body></html>`))
		case "1":
			w.Write([]byte(`<html><body><article><a href="/blog/post-2">Two</a></article></body></html>`))
		default:
			w.Write([]byte(`<html><body></body></html>`))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig("example.com")
	cfg.PaginationSelectors = []string{"/blog?page={page}"}

	static := strategy.NewStatic(2, logger.NewNoOp())
	urls, err := static.Attempt(context.Background(), srv.URL+"/blog", cfg, crawl.NewState())
	require.NoError(t, err)

	assert.Len(t, urls, 2)
	assert.Contains(t, urls, srv.URL+"/blog/post-1")
	assert.Contains(t, urls, srv.URL+"/blog/post-2")
}

func TestStatic_SynthesizesHeadingSlugs(t *testing.T) {
	t.Parallel()

	const cardHTML = `<html><body><main>
<div class="card"><h3>How We Ship Faster?</h3><button>Read more</button></div>
<div class="card"><h3>Pricing, Explained</h3><button>Read more</button></div>
</main></body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cardHTML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	static := strategy.NewStatic(1, logger.NewNoOp())

	// Without the card-interaction personality the anchorless listing
	// yields nothing.
	urls, err := static.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)
	assert.Empty(t, urls)

	cfg := testConfig("example.com")
	cfg.Interaction = sites.InteractionClickCards
	cfg.ContentPathHint = "/blog/"

	urls, err = static.Attempt(context.Background(), srv.URL+"/blog", cfg, crawl.NewState())
	require.NoError(t, err)
	assert.Len(t, urls, 2)
	assert.Contains(t, urls, srv.URL+"/blog/how-we-ship-faster")
	assert.Contains(t, urls, srv.URL+"/blog/pricing-explained")
}

func TestStatic_SeedFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	static := strategy.NewStatic(1, logger.NewNoOp())
	_, err := static.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	assert.Error(t, err)
}

func TestStatic_SharedStateDeduplicates(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	state := crawl.NewState()
	state.Visit(srv.URL + "/blog/post-1")

	static := strategy.NewStatic(1, logger.NewNoOp())
	urls, err := static.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), state)
	require.NoError(t, err)

	assert.Len(t, urls, 1)
	assert.Contains(t, urls, srv.URL+"/blog/post-2")
}
