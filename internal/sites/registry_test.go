package sites_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godiscover/internal/contenttype"
	"github.com/jonesrussell/godiscover/internal/sites"
)

func TestResolve_Builtin(t *testing.T) {
	t.Parallel()

	registry := sites.NewRegistry()

	cfg := registry.Resolve("quill.co")
	assert.Equal(t, "quill.co", cfg.Domain)
	assert.True(t, cfg.RequiresJS)
	assert.Equal(t, sites.InteractionClickCards, cfg.Interaction)

	// Subdomains resolve by substring containment.
	cfg = registry.Resolve("newsletter.substack.com")
	assert.Equal(t, "substack.com", cfg.Domain)
	assert.True(t, cfg.UseStealth)
}

func TestResolve_UnknownDomain(t *testing.T) {
	t.Parallel()

	registry := sites.NewRegistry()

	cfg := registry.Resolve("unknown-site.example")
	require.NotNil(t, cfg)
	assert.Equal(t, "unknown-site.example", cfg.Domain)
	assert.False(t, cfg.RequiresJS)
	assert.NotEmpty(t, cfg.ContentSelectors)
	assert.NotEmpty(t, cfg.ContentPatterns)
	assert.Equal(t, sites.DefaultScrollPause, cfg.ScrollPause)
	assert.Equal(t, sites.DefaultMaxScrollAttempts, cfg.MaxScrollAttempts)
}

func TestResolve_ExtraConfigAfterBuiltins(t *testing.T) {
	t.Parallel()

	extra := &sites.Config{
		Domain: "example.org",
		ContentPatterns: []sites.ContentPattern{
			{Pattern: regexp.MustCompile(`/articles/[^/]+$`), Type: contenttype.Blog},
		},
	}
	registry := sites.NewRegistry(extra)

	cfg := registry.Resolve("example.org")
	assert.Same(t, extra, cfg)
	assert.Equal(t, sites.DefaultScrollPause, cfg.ScrollPause)

	// Builtins still win on their own domains.
	assert.Equal(t, "quill.co", registry.Resolve("quill.co").Domain)
}

func TestMatchesContent(t *testing.T) {
	t.Parallel()

	registry := sites.NewRegistry()
	cfg := registry.Resolve("quill.co")

	assert.True(t, cfg.MatchesContent("https://quill.co/blog/data-pipelines"))
	assert.False(t, cfg.MatchesContent("https://quill.co/blog/"))
	assert.False(t, cfg.MatchesContent("https://quill.co/pricing"))
	assert.False(t, cfg.MatchesContent("https://quill.co/blog/post/comments"))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	registry := sites.NewRegistry()

	tests := []struct {
		name string
		url  string
		want contenttype.Type
	}{
		{"blog post", "https://quill.co/blog/data-pipelines", contenttype.Blog},
		{"newsletter post", "https://shreycation.substack.com/p/the-move", contenttype.NewsletterPost},
		{"guide", "https://interviewing.io/learn/system-design", contenttype.Guide},
		{"topic", "https://interviewing.io/topics/dynamic-programming", contenttype.Topic},
		{"blog indicator fallback", "https://example.com/blog", contenttype.Blog},
		{"posts indicator fallback", "https://example.com/all-posts", contenttype.Blog},
		{"uppercase input", "https://Example.com/BLOG/My-Post", contenttype.Blog},
		{"unclassifiable", "https://example.com/pricing", contenttype.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, registry.Classify(tt.url))
		})
	}
}

func TestFeedPaths(t *testing.T) {
	t.Parallel()

	registry := sites.NewRegistry()
	cfg := registry.Resolve("quill.co")

	paths := sites.FeedPaths(cfg)

	// Site-specific paths come first, well-known defaults after.
	assert.Equal(t, "/blog/feed", paths[0])
	assert.Contains(t, paths, "/feed.xml")
	assert.Contains(t, paths, "/rss")
	assert.Greater(t, len(paths), len(cfg.FeedURLs))
}
