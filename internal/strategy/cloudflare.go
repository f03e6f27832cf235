package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"

	"github.com/jonesrussell/godiscover/internal/browser"
	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/pagination"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// challengeCheckAttempts bounds how many times the challenge page is
// re-inspected before giving up.
const challengeCheckAttempts = 10

// challengeMarkers are title fragments identifying an interstitial
// challenge page.
var challengeMarkers = []string{
	"just a moment",
	"attention required",
	"checking your browser",
}

// CloudflareBypass fetches pages through the stealth engine, waiting for
// interstitial bot challenges to clear before harvesting the served markup
// with the same selector logic as the static strategy. Only attempted for
// sites flagged with UseCloudflareBypass.
type CloudflareBypass struct {
	engine   *browser.Stealth
	maxPages int
	log      logger.Interface
}

// NewCloudflareBypass creates the challenge-solving fetch strategy.
func NewCloudflareBypass(engine *browser.Stealth, maxPages int, log logger.Interface) *CloudflareBypass {
	return &CloudflareBypass{engine: engine, maxPages: maxPages, log: log.WithComponent("strategy.cloudflare")}
}

// Name identifies the strategy in logs.
func (c *CloudflareBypass) Name() string { return "cloudflare_bypass" }

// Attempt fetches the seed and its pagination pages through the challenge
// solver. Returns an empty set when the site is not flagged for bypass.
func (c *CloudflareBypass) Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error) {
	if !cfg.UseCloudflareBypass {
		return Set{}, nil
	}

	page, err := c.engine.Page(ctx, seedURL)
	if err != nil {
		return nil, fmt.Errorf("cloudflare bypass: %w", err)
	}
	defer page.Close()

	urls := make(Set)

	html, err := c.resolvedHTML(ctx, page, cfg)
	if err != nil {
		return nil, fmt.Errorf("cloudflare bypass: %w", err)
	}
	if err := harvestMarkup(html, seedURL, cfg, state, urls); err != nil {
		return nil, fmt.Errorf("cloudflare bypass: %w", err)
	}

	for pageNum := 1; ; pageNum++ {
		next, ok := pagination.NextPageURL(seedURL, pageNum, c.maxPages, cfg.PaginationSelectors)
		if !ok {
			break
		}
		if err := page.Context(ctx).Navigate(next); err != nil {
			c.log.Debug("pagination navigate failed", "url", next, "error", err)
			break
		}
		html, err := c.resolvedHTML(ctx, page, cfg)
		if err != nil {
			c.log.Debug("pagination challenge not cleared", "url", next, "error", err)
			break
		}
		if err := harvestMarkup(html, next, cfg, state, urls); err != nil {
			c.log.Debug("pagination harvest failed", "url", next, "error", err)
			break
		}
	}

	return urls, nil
}

// resolvedHTML waits for any challenge interstitial to clear and returns
// the served document.
func (c *CloudflareBypass) resolvedHTML(ctx context.Context, page *rod.Page, cfg *sites.Config) (string, error) {
	if err := page.Context(ctx).WaitLoad(); err != nil {
		c.log.Debug("load wait failed", "error", err)
	}

	for attempt := 0; attempt < challengeCheckAttempts; attempt++ {
		info, err := page.Context(ctx).Info()
		if err != nil {
			return "", fmt.Errorf("page info: %w", err)
		}
		if !isChallengeTitle(info.Title) {
			break
		}
		c.log.Debug("waiting for challenge to clear", "attempt", attempt+1)
		if err := sleepCtx(ctx, cfg.ScrollPause); err != nil {
			return "", err
		}
	}

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("page html: %w", err)
	}
	return html, nil
}

// isChallengeTitle reports whether a page title looks like a bot-challenge
// interstitial.
func isChallengeTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// harvestMarkup applies the content selectors to served HTML and records
// hrefs passing the validity check.
func harvestMarkup(html, baseURL string, cfg *sites.Config, state *crawl.State, urls Set) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse markup: %w", err)
	}
	for _, selector := range cfg.ContentSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			collectValid(urls, state, cfg, baseURL, sel.AttrOr("href", ""))
		})
	}
	return nil
}
