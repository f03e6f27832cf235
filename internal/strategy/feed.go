package strategy

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/fetch"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// Feed discovers candidate feed URLs from the seed page's markup and the
// site's configured feed paths, then extracts entry permalinks from the
// first feed that yields any. Malformed feeds get a second, raw-XML parse
// pass. When no feed yields entries, the site's sitemap is probed as a last
// resort.
type Feed struct {
	client *fetch.Client
	log    logger.Interface
}

// NewFeed creates the feed strategy.
func NewFeed(client *fetch.Client, log logger.Interface) *Feed {
	return &Feed{client: client, log: log.WithComponent("strategy.feed")}
}

// Name identifies the strategy in logs.
func (f *Feed) Name() string { return "feed" }

// Attempt probes feed candidates in order and returns the entries of the
// first one that parses with any links.
func (f *Feed) Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error) {
	root := siteRoot(seedURL)
	if root == "" {
		return Set{}, nil
	}

	candidates := f.discoverFromHTML(ctx, seedURL, cfg)
	for _, path := range sites.FeedPaths(cfg) {
		if abs := absoluteURL(root+"/", path); abs != "" {
			candidates = append(candidates, abs)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, feedURL := range candidates {
		if _, dup := seen[feedURL]; dup {
			continue
		}
		seen[feedURL] = struct{}{}

		urls := f.parseFeed(ctx, feedURL)
		if len(urls) > 0 {
			f.log.Info("feed yielded entries", "feed_url", feedURL, "count", len(urls))
			return urls, nil
		}
	}

	// No feed produced anything; try the sitemap.
	if urls := f.parseSitemap(ctx, root, cfg); len(urls) > 0 {
		f.log.Info("sitemap yielded entries", "count", len(urls))
		return urls, nil
	}

	return Set{}, nil
}

// discoverFromHTML scans the seed page for feed link/meta hints.
func (f *Feed) discoverFromHTML(ctx context.Context, seedURL string, cfg *sites.Config) []string {
	resp, err := f.client.Get(ctx, seedURL, cfg.CustomHeaders)
	if err != nil || !resp.OK() {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil
	}

	var found []string
	add := func(href string) {
		if abs := absoluteURL(seedURL, href); abs != "" {
			found = append(found, abs)
		}
	}

	doc.Find("link[type]").Each(func(_ int, s *goquery.Selection) {
		t := strings.ToLower(s.AttrOr("type", ""))
		if strings.Contains(t, "rss") || strings.Contains(t, "atom") {
			add(s.AttrOr("href", ""))
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.ToLower(s.AttrOr("href", ""))
		if strings.Contains(href, "feed") || strings.Contains(href, "rss") || strings.Contains(href, "atom") {
			add(s.AttrOr("href", ""))
		}
	})
	doc.Find(`meta[name="alternate"], meta[name="feed"]`).Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if href == "" {
			href = s.AttrOr("content", "")
		}
		add(href)
	})

	return found
}

// parseFeed fetches one candidate and extracts entry links, trying a
// structured RSS/Atom parse first and a raw XML item/entry sweep second.
func (f *Feed) parseFeed(ctx context.Context, feedURL string) Set {
	resp, err := f.client.Get(ctx, feedURL, nil)
	if err != nil || !resp.OK() || len(resp.Body) == 0 {
		return nil
	}

	urls := make(Set)

	parsed, err := gofeed.NewParser().ParseString(string(resp.Body))
	if err == nil {
		for _, item := range parsed.Items {
			if link := entryLink(item); link != "" {
				urls.Add(link)
			}
		}
	}

	if len(urls) == 0 {
		urls.Merge(rawXMLSweep(resp.Body))
	}

	return urls
}

// entryLink returns the best available URL from a feed entry, preferring
// the explicit link over a URL-shaped GUID.
func entryLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return ""
}

// rawXMLSweep extracts item/entry links from feeds too malformed for the
// structured parser.
func rawXMLSweep(body []byte) Set {
	urls := make(Set)

	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return urls
	}

	for _, node := range xmlquery.Find(doc, "//item | //entry") {
		link := node.SelectElement("link")
		if link == nil {
			continue
		}
		if text := strings.TrimSpace(link.InnerText()); text != "" {
			urls.Add(text)
		} else if href := link.SelectAttr("href"); href != "" {
			urls.Add(href)
		}
	}

	return urls
}

// parseSitemap probes /sitemap.xml and collects loc values matching the
// site's content patterns.
func (f *Feed) parseSitemap(ctx context.Context, root string, cfg *sites.Config) Set {
	urls := make(Set)

	resp, err := f.client.Get(ctx, root+"/sitemap.xml", nil)
	if err != nil || !resp.OK() {
		return urls
	}

	doc, err := xmlquery.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return urls
	}

	for _, node := range xmlquery.Find(doc, "//loc") {
		loc := strings.TrimSpace(node.InnerText())
		if loc != "" && cfg.MatchesContent(loc) {
			urls.Add(loc)
		}
	}

	return urls
}
