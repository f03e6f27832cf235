package strategy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godiscover/internal/contenttype"
	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/fetch"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sites"
	"github.com/jonesrussell/godiscover/internal/strategy"
)

func testConfig(domain string) *sites.Config {
	return &sites.Config{
		Domain:           domain,
		ContentSelectors: []string{"article a"},
		ContentPatterns: []sites.ContentPattern{
			{Pattern: regexp.MustCompile(`/blog/[^/]+$`), Type: contenttype.Blog},
		},
	}
}

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://example.com/blog</link>
    <item>
      <title>First Post</title>
      <link>https://example.com/blog/first-post</link>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/blog/second-post</link>
    </item>
  </channel>
</rss>`

// malformedFeed has item/link structure but no recognizable feed envelope.
const malformedFeed = `<?xml version="1.0" encoding="UTF-8"?>
<data>
  <item>
    <title>Orphan Post</title>
    <link>https://example.com/blog/orphan-post</link>
  </item>
</data>`

const sitemapXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/blog/from-sitemap</loc></url>
  <url><loc>https://example.com/pricing</loc></url>
</urlset>`

func TestFeed_DiscoversLinkedFeed(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<link rel="alternate" type="application/rss+xml" href="/blog/custom.rss">
		</head><body></body></html>`))
	})
	mux.HandleFunc("/blog/custom.rss", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFeed))
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	feed := strategy.NewFeed(fetch.New(), logger.NewNoOp())
	urls, err := feed.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)

	assert.Len(t, urls, 2)
	assert.Contains(t, urls, "https://example.com/blog/first-post")
	assert.Contains(t, urls, "https://example.com/blog/second-post")
}

func TestFeed_ProbesCommonPaths(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFeed))
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	feed := strategy.NewFeed(fetch.New(), logger.NewNoOp())
	urls, err := feed.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)

	assert.Len(t, urls, 2)
}

func TestFeed_MalformedFeedRawSweep(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(malformedFeed))
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	feed := strategy.NewFeed(fetch.New(), logger.NewNoOp())
	urls, err := feed.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)

	assert.Contains(t, urls, "https://example.com/blog/orphan-post")
}

func TestFeed_SitemapFallback(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sitemapXML))
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	feed := strategy.NewFeed(fetch.New(), logger.NewNoOp())
	urls, err := feed.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)

	// Only locs matching the content patterns survive.
	assert.Len(t, urls, 1)
	assert.Contains(t, urls, "https://example.com/blog/from-sitemap")
}

func TestFeed_DeduplicatesSharedLinks(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Blog</title>
<item><title>A</title><link>https://example.com/blog/shared</link></item>
<item><title>B</title><link>https://example.com/blog/shared</link></item>
</channel></rss>`))
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	feed := strategy.NewFeed(fetch.New(), logger.NewNoOp())
	urls, err := feed.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)

	assert.Len(t, urls, 1)
}

func TestFeed_NothingFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	feed := strategy.NewFeed(fetch.New(), logger.NewNoOp())
	urls, err := feed.Attempt(context.Background(), srv.URL+"/blog", testConfig("example.com"), crawl.NewState())
	require.NoError(t, err)
	assert.Empty(t, urls)
}
