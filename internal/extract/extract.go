// Package extract pulls article content out of discovered URLs. The crawler
// finds content URLs; extractors turn those URLs into titled, authored
// content items ready for indexing.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/godiscover/internal/contenttype"
	"github.com/jonesrussell/godiscover/internal/fetch"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/urlutil"
)

// ContentItem is one extracted piece of content.
type ContentItem struct {
	Title         string           `json:"title"`
	Content       string           `json:"content"`
	ContentType   contenttype.Type `json:"content_type"`
	SourceURL     string           `json:"source_url,omitempty"`
	Author        string           `json:"author,omitempty"`
	PublishedDate *time.Time       `json:"published_date,omitempty"`
}

// Extractor turns a URL into content items. CanHandle is a cheap pattern
// check; Extract does the fetch and parse.
type Extractor interface {
	CanHandle(rawURL string) bool
	Extract(ctx context.Context, rawURL, baseURL string) ([]ContentItem, error)
}

// blogPostPatterns match URLs that point at individual posts rather than
// listing or index pages.
var blogPostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/blog/\d{4}/\d{2}/\d{2}/`),
	regexp.MustCompile(`/blog/\d{4}/\d{2}/`),
	regexp.MustCompile(`/blog/\d{4}/`),
	regexp.MustCompile(`/blog/[^/]+$`),
	regexp.MustCompile(`/posts/[^/]+$`),
	regexp.MustCompile(`/article/[^/]+$`),
	regexp.MustCompile(`\.substack\.com/p/`),
	regexp.MustCompile(`medium\.com/@[^/]+/[^/]+$`),
	regexp.MustCompile(`dev\.to/[^/]+/[^/]+$`),
}

var (
	authorSelectors = []string{
		".author", ".byline", `[rel="author"]`,
		".post-author", ".article-author", ".entry-author",
	}
	dateSelectors = []string{
		".date", ".published", ".post-date",
		".article-date", ".entry-date", "time",
	}
	contentSelectors = []string{
		"article", ".post-content", ".entry-content",
		".article-content", ".blog-post", ".content",
	}
	strippedTags = []string{"script", "style", "nav", "footer", "header"}

	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// Blog extracts article content from blog post pages.
type Blog struct {
	client *fetch.Client
	log    logger.Interface
}

// NewBlog creates a blog post extractor.
func NewBlog(client *fetch.Client, log logger.Interface) *Blog {
	return &Blog{client: client, log: log.WithComponent("extract.blog")}
}

// CanHandle reports whether the URL looks like an individual blog post.
func (b *Blog) CanHandle(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, pattern := range blogPostPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

// Extract fetches a blog post and returns its title, author, date and body
// text. The body comes from the first matching content container, falling
// back to joined paragraph text when no container matches. Returns an empty
// slice when the page yields no usable content.
func (b *Blog) Extract(ctx context.Context, rawURL, baseURL string) ([]ContentItem, error) {
	target := rawURL
	if baseURL != "" {
		resolved, err := urlutil.Resolve(baseURL, rawURL)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", rawURL, err)
		}
		target = resolved
	}

	resp, err := b.client.Get(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	if !resp.OK() {
		b.log.Debug("non-success status", "url", target, "status", resp.StatusCode)
		return []ContentItem{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}

	title := extractTitle(doc)
	author := extractAuthor(doc)
	published := extractDate(doc)

	content := extractBody(doc)
	if strings.TrimSpace(content) == "" {
		content = paragraphText(doc)
	}
	if strings.TrimSpace(content) == "" {
		b.log.Debug("no extractable content", "url", target)
		return []ContentItem{}, nil
	}

	return []ContentItem{{
		Title:         normalize(title),
		Content:       normalize(content),
		ContentType:   contenttype.Blog,
		SourceURL:     target,
		Author:        author,
		PublishedDate: published,
	}}, nil
}

// extractTitle prefers the og:title meta tag, then the first h1, then the
// document title.
func extractTitle(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && title != "" {
		return title
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractAuthor(doc *goquery.Document) string {
	for _, name := range []string{"author", "article:author"} {
		if author, ok := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).Attr("content"); ok && author != "" {
			return author
		}
	}
	for _, selector := range authorSelectors {
		if author := strings.TrimSpace(doc.Find(selector).First().Text()); author != "" {
			return author
		}
	}
	return ""
}

func extractDate(doc *goquery.Document) *time.Time {
	for _, prop := range []string{"article:published_time", "og:published_time"} {
		raw, ok := doc.Find(fmt.Sprintf(`meta[property=%q]`, prop)).Attr("content")
		if !ok || raw == "" {
			continue
		}
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return &parsed
		}
	}
	for _, selector := range dateSelectors {
		raw := strings.TrimSpace(doc.Find(selector).First().Text())
		if raw == "" {
			continue
		}
		if parsed, err := time.Parse("January 2, 2006", raw); err == nil {
			return &parsed
		}
	}
	return nil
}

// extractBody strips chrome elements and returns text from the first
// matching content container.
func extractBody(doc *goquery.Document) string {
	for _, tag := range strippedTags {
		doc.Find(tag).Remove()
	}
	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() > 0 {
			return container.Text()
		}
	}
	return ""
}

// paragraphText joins all paragraph text, the last-resort body source.
func paragraphText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func normalize(text string) string {
	return excessNewlines.ReplaceAllString(strings.TrimSpace(text), "\n\n")
}
