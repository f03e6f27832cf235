// Package sites manages per-domain crawl configurations: the selectors, URL
// patterns, and feature flags that parameterize each retrieval strategy.
package sites

import (
	"regexp"
	"time"

	"github.com/jonesrussell/godiscover/internal/contenttype"
)

// Interaction names a site-specific interaction mode used by the scripted
// render strategy when plain anchor harvesting cannot see the content links.
type Interaction string

const (
	// InteractionNone harvests anchors matching the content selectors.
	InteractionNone Interaction = ""
	// InteractionClickCards intercepts in-flight request URLs containing the
	// content path hint and clicks each preview card, capturing the URL the
	// click navigates to. Best effort; DOM shapes vary.
	InteractionClickCards Interaction = "click_cards"
)

// Default bounds for the infinite-scroll driver.
const (
	DefaultScrollPause       = 2 * time.Second
	DefaultMaxScrollAttempts = 10
)

// ContentPattern pairs a URL-matching expression with the content type it
// indicates.
type ContentPattern struct {
	Pattern *regexp.Regexp
	Type    contenttype.Type
}

// Config holds the crawl parameters for one site. Configs are immutable
// after registration; strategies only read them.
type Config struct {
	// Domain is the matching key, compared by substring containment
	// against the seed URL's host.
	Domain string

	// ContentSelectors are CSS selectors identifying anchors to content,
	// tried in order.
	ContentSelectors []string

	// PaginationSelectors are CSS selectors or URL templates (containing a
	// "{page}" placeholder) for next-page discovery.
	PaginationSelectors []string

	// ContentPatterns classify a URL as content, tried in order.
	ContentPatterns []ContentPattern

	// RequiresJS gates the scripted browser render strategy.
	RequiresJS bool
	// InfiniteScroll enables the scroll driver during browser rendering.
	InfiniteScroll bool
	// UseStealth gates the anti-bot-evasion render strategy.
	UseStealth bool
	// UseCloudflareBypass gates the challenge-solving fetch strategy.
	UseCloudflareBypass bool

	// ScrollPause is the wait between scroll triggers.
	ScrollPause time.Duration
	// MaxScrollAttempts bounds the scroll loop.
	MaxScrollAttempts int

	// WaitForSelectors are selectors the renderer blocks on (best effort)
	// before harvesting.
	WaitForSelectors []string

	// APIEndpoints are relative paths probed by the API strategy.
	APIEndpoints []string

	// CustomHeaders are attached to every request for this site.
	CustomHeaders map[string]string

	// FeedURLs are relative feed paths probed in addition to feeds
	// discovered from the page markup.
	FeedURLs []string

	// Interaction selects a site personality for the scripted renderer.
	Interaction Interaction
	// ContentPathHint is the URL path substring used by interception-based
	// interaction modes, e.g. "/blog/".
	ContentPathHint string
	// CardSelector locates the clickable content-preview elements for the
	// click_cards interaction mode.
	CardSelector string
}

// MatchesContent reports whether the URL matches at least one of the
// config's content patterns.
func (c *Config) MatchesContent(rawURL string) bool {
	for _, p := range c.ContentPatterns {
		if p.Pattern.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// normalize applies default scroll bounds to a config missing them.
func (c *Config) normalize() {
	if c.ScrollPause <= 0 {
		c.ScrollPause = DefaultScrollPause
	}
	if c.MaxScrollAttempts <= 0 {
		c.MaxScrollAttempts = DefaultMaxScrollAttempts
	}
}
