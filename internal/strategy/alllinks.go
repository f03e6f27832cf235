package strategy

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/fetch"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sites"
	"github.com/jonesrussell/godiscover/internal/urlutil"
)

// AllLinks is the last-resort fallback: a plain GET on the seed collecting
// every anchor href restricted to the seed's own domain. It accepts links
// without classifying them against the content patterns.
type AllLinks struct {
	client *fetch.Client
	log    logger.Interface
}

// NewAllLinks creates the same-domain fallback strategy.
func NewAllLinks(client *fetch.Client, log logger.Interface) *AllLinks {
	return &AllLinks{client: client, log: log.WithComponent("strategy.alllinks")}
}

// Name identifies the strategy in logs.
func (a *AllLinks) Name() string { return "all_links" }

// Attempt collects every same-domain anchor on the seed page.
func (a *AllLinks) Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error) {
	urls := make(Set)

	domain, err := urlutil.ExtractDomain(seedURL)
	if err != nil {
		return nil, fmt.Errorf("all links: %w", err)
	}

	resp, err := a.client.Get(ctx, seedURL, cfg.CustomHeaders)
	if err != nil {
		return nil, fmt.Errorf("all links: %w", err)
	}
	if !resp.OK() {
		return urls, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("all links: parse page: %w", err)
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		abs := absoluteURL(seedURL, s.AttrOr("href", ""))
		if abs == "" || abs == seedURL {
			return
		}
		if urlutil.SameDomain(abs, domain) {
			urls.Add(abs)
		}
	})

	return urls, nil
}
