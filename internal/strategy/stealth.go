package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"

	"github.com/jonesrussell/godiscover/internal/browser"
	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/pagination"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// StealthRender performs the same harvest and pagination walk as the
// scripted renderer, but through a browsing engine configured to evade bot
// detection. Only attempted for sites flagged with UseStealth.
type StealthRender struct {
	engine   *browser.Stealth
	maxPages int
	log      logger.Interface
}

// NewStealthRender creates the anti-bot render strategy.
func NewStealthRender(engine *browser.Stealth, maxPages int, log logger.Interface) *StealthRender {
	return &StealthRender{engine: engine, maxPages: maxPages, log: log.WithComponent("strategy.stealth")}
}

// Name identifies the strategy in logs.
func (s *StealthRender) Name() string { return "stealth_render" }

// Attempt renders the seed through the stealth engine and harvests content
// anchors. Returns an empty set when the site is not flagged for stealth.
func (s *StealthRender) Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error) {
	if !cfg.UseStealth {
		return Set{}, nil
	}

	page, err := s.engine.Page(ctx, seedURL)
	if err != nil {
		return nil, fmt.Errorf("stealth render: %w", err)
	}
	defer page.Close()

	s.waitForSelectors(ctx, page, cfg)

	if cfg.InfiniteScroll {
		if _, scrollErr := scrollRodPage(ctx, page, cfg.ScrollPause, cfg.MaxScrollAttempts); scrollErr != nil {
			s.log.Debug("infinite scroll interrupted", "url", seedURL, "error", scrollErr)
		}
	}

	urls := make(Set)
	if err := harvestRodAnchors(ctx, page, seedURL, cfg, state, urls); err != nil {
		return nil, fmt.Errorf("stealth render: harvest: %w", err)
	}

	for pageNum := 1; ; pageNum++ {
		next, ok := pagination.NextPageURL(seedURL, pageNum, s.maxPages, cfg.PaginationSelectors)
		if !ok {
			break
		}
		if err := page.Context(ctx).Navigate(next); err != nil {
			s.log.Debug("pagination navigate failed", "url", next, "error", err)
			break
		}
		if err := page.Context(ctx).WaitLoad(); err != nil {
			s.log.Debug("pagination load wait failed", "url", next, "error", err)
		}
		if err := sleepCtx(ctx, cfg.ScrollPause); err != nil {
			break
		}
		if err := harvestRodAnchors(ctx, page, next, cfg, state, urls); err != nil {
			s.log.Debug("pagination harvest failed", "url", next, "error", err)
			break
		}
	}

	return urls, nil
}

// waitForSelectors blocks on each configured selector, best effort.
func (s *StealthRender) waitForSelectors(ctx context.Context, page *rod.Page, cfg *sites.Config) {
	for _, selector := range cfg.WaitForSelectors {
		_, err := page.Context(ctx).Timeout(waitSelectorTimeout).Element(selector)
		if err != nil {
			s.log.Debug("wait selector not found", "selector", selector)
		}
	}
}

// harvestRodAnchors extracts hrefs for every content selector on the
// current page and records those passing the validity check.
func harvestRodAnchors(ctx context.Context, page *rod.Page, baseURL string, cfg *sites.Config, state *crawl.State, urls Set) error {
	for _, selector := range cfg.ContentSelectors {
		elements, err := page.Context(ctx).Elements(selector)
		if err != nil {
			return fmt.Errorf("query selector %q: %w", selector, err)
		}
		for _, el := range elements {
			href, err := el.Attribute("href")
			if err != nil || href == nil {
				continue
			}
			collectValid(urls, state, cfg, baseURL, *href)
		}
	}
	return nil
}

// scrollRodPage drives the shared scroll loop against a rod page.
func scrollRodPage(ctx context.Context, page *rod.Page, pause time.Duration, maxAttempts int) (int, error) {
	measure := func(ctx context.Context) (int64, error) {
		res, err := page.Context(ctx).Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return 0, err
		}
		return int64(res.Value.Int()), nil
	}
	scroll := func(ctx context.Context) error {
		_, err := page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
		return err
	}
	return pagination.RunScroll(ctx, pause, maxAttempts, scroll, measure)
}

// sleepCtx waits for the duration or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
