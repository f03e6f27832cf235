package sites

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonesrussell/godiscover/internal/contenttype"
)

// defaultHeaders are the browsing headers attached to requests for the
// builtin sites.
var defaultHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}

// commonFeedPaths are well-known relative feed paths probed for any site in
// addition to per-site FeedURLs.
var commonFeedPaths = []string{
	"/feed",
	"/feed.xml",
	"/rss",
	"/rss.xml",
	"/atom.xml",
	"/index.xml",
	"/feed/atom",
	"/feed/rss",
}

// builtin returns the fixed table of known-site configurations. Order
// matters: Resolve returns the first substring match.
func builtin() []*Config {
	return []*Config{
		{
			Domain: "quill.co",
			ContentSelectors: []string{
				"article a", ".blog-post a", ".post-title a",
				`a[href*="/blog/"]`, ".blog-list a",
				".post-preview a", ".entry-title a",
				`[data-testid="blog-post-link"]`,
				".blog-grid a", ".post-grid a",
			},
			PaginationSelectors: []string{".pagination a", ".next-page", `a[rel="next"]`},
			ContentPatterns: []ContentPattern{
				{Pattern: regexp.MustCompile(`/blog/[^/]+$`), Type: contenttype.Blog},
			},
			RequiresJS:        true,
			InfiniteScroll:    true,
			ScrollPause:       3 * time.Second,
			MaxScrollAttempts: 15,
			WaitForSelectors:  []string{".blog-list", ".post-list", "article"},
			APIEndpoints: []string{
				"/api/blog",
				"/api/posts",
				"/api/blog/posts",
				"/api/articles",
				"/api/blog-articles",
			},
			CustomHeaders: defaultHeaders,
			FeedURLs: []string{
				"/blog/feed", "/blog/feed.xml", "/blog/rss", "/blog/rss.xml",
			},
			Interaction:     InteractionClickCards,
			ContentPathHint: "/blog/",
			CardSelector:    `.bg-white.p-\[30px\]`,
		},
		{
			Domain: "substack.com",
			ContentSelectors: []string{
				".post-preview a", ".post-title a",
				"article a", ".entry-title a",
				".post-list a", ".archive-item a",
				`a[href*="/p/"]`, ".post a",
				`[data-testid="post-link"]`,
				".post-grid a",
			},
			PaginationSelectors: []string{".pagination a", ".next-page"},
			ContentPatterns: []ContentPattern{
				{Pattern: regexp.MustCompile(`/p/[^/]+$`), Type: contenttype.NewsletterPost},
			},
			RequiresJS:        true,
			InfiniteScroll:    true,
			UseStealth:        true,
			ScrollPause:       2500 * time.Millisecond,
			MaxScrollAttempts: 20,
			WaitForSelectors:  []string{".post-list", ".archive-list", "article"},
			CustomHeaders:     defaultHeaders,
			FeedURLs: []string{
				"/archive/feed", "/archive/feed.xml", "/archive/rss", "/archive/rss.xml",
			},
		},
		{
			Domain: "interviewing.io",
			ContentSelectors: []string{
				".blog-list a", ".blog-entry a", ".post-list a",
				"article a", ".blog-item a", ".post-title a",
				`a[href*="/blog/"]`, ".entry-title a",
				`[data-testid="blog-link"]`,
				".blog-grid a",
				`a[href^="/topics/"]`,
				`a[href^="/learn/"]`,
			},
			PaginationSelectors: []string{".pagination a", ".next-page"},
			ContentPatterns: []ContentPattern{
				{Pattern: regexp.MustCompile(`/blog/[^/]+$`), Type: contenttype.Blog},
				{Pattern: regexp.MustCompile(`/learn/[^/]+$`), Type: contenttype.Guide},
				{Pattern: regexp.MustCompile(`/topics/[^#]+$`), Type: contenttype.Topic},
			},
			RequiresJS:       true,
			APIEndpoints:     []string{"/api/blog/posts"},
			WaitForSelectors: []string{".blog-list", ".post-list", "article"},
			CustomHeaders:    defaultHeaders,
			FeedURLs: []string{
				"/blog/feed", "/blog/feed.xml", "/blog/rss", "/blog/rss.xml",
			},
		},
	}
}

// genericDefault builds the fallback configuration for an unknown domain.
func genericDefault(domain string) *Config {
	cfg := &Config{
		Domain: domain,
		ContentSelectors: []string{
			"article a", ".post a", ".blog-post a",
		},
		PaginationSelectors: []string{".pagination a", ".next-page"},
		ContentPatterns: []ContentPattern{
			{Pattern: regexp.MustCompile(`/blog/[^/]+$`), Type: contenttype.Blog},
			{Pattern: regexp.MustCompile(`/post/[^/]+$`), Type: contenttype.Blog},
		},
	}
	cfg.normalize()
	return cfg
}

// Registry resolves domains to site configurations. The table is fixed at
// construction; Resolve never fails.
type Registry struct {
	configs []*Config
}

// NewRegistry creates a registry holding the builtin site table plus any
// extra configs (loaded from file), in that order.
func NewRegistry(extra ...*Config) *Registry {
	configs := builtin()
	for _, c := range extra {
		if c == nil {
			continue
		}
		c.normalize()
		configs = append(configs, c)
	}
	for _, c := range configs {
		c.normalize()
	}
	return &Registry{configs: configs}
}

// Resolve returns the configuration for a domain. The first config whose
// Domain is contained in the given domain wins; unknown domains get the
// generic default.
func (r *Registry) Resolve(domain string) *Config {
	for _, c := range r.configs {
		if strings.Contains(domain, c.Domain) {
			return c
		}
	}
	return genericDefault(domain)
}

// Configs returns the registered site configurations in resolution order.
func (r *Registry) Configs() []*Config {
	return r.configs
}

// FeedPaths returns the relative feed paths to probe for a config: the
// site's own FeedURLs followed by the well-known defaults.
func FeedPaths(cfg *Config) []string {
	paths := make([]string, 0, len(cfg.FeedURLs)+len(commonFeedPaths))
	paths = append(paths, cfg.FeedURLs...)
	paths = append(paths, commonFeedPaths...)
	return paths
}

// Classify determines a URL's content type. It checks the URL against every
// registered site's content patterns first, regardless of the URL's own
// domain, then falls back to common blog indicators. It is total: any input
// yields a type.
func (r *Registry) Classify(rawURL string) contenttype.Type {
	lower := strings.ToLower(rawURL)

	for _, c := range r.configs {
		for _, p := range c.ContentPatterns {
			if p.Pattern.MatchString(lower) {
				return p.Type
			}
		}
	}

	if strings.Contains(lower, "blog") || strings.Contains(lower, "posts") {
		return contenttype.Blog
	}

	return contenttype.Unknown
}
