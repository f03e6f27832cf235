package strategy

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/jonesrussell/godiscover/internal/browser"
	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/pagination"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// waitSelectorTimeout bounds a single best-effort wait for a configured
// selector.
const waitSelectorTimeout = 10 * time.Second

// clickNavigateTimeout bounds the wait for a new page opened by a card
// click.
const clickNavigateTimeout = 5 * time.Second

// Render loads the seed in a scriptable browser, waits for the configured
// selectors, performs infinite scroll when flagged, harvests anchors
// matching the content selectors, and walks synthesized pagination URLs.
// Sites with a click_cards personality get network interception plus
// click-through capture instead of plain anchor harvesting.
type Render struct {
	chrome   *browser.Chrome
	maxPages int
	log      logger.Interface
}

// NewRender creates the scripted render strategy.
func NewRender(chrome *browser.Chrome, maxPages int, log logger.Interface) *Render {
	return &Render{chrome: chrome, maxPages: maxPages, log: log.WithComponent("strategy.render")}
}

// Name identifies the strategy in logs.
func (r *Render) Name() string { return "render" }

// Attempt renders the seed page and harvests content anchors from it and
// its pagination pages. Returns an empty set when the site does not require
// script execution.
func (r *Render) Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error) {
	if !cfg.RequiresJS {
		return Set{}, nil
	}

	tabCtx, cancel, err := r.chrome.Tab()
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	defer cancel()

	runCtx, runCancel := mergeDeadline(tabCtx, ctx)
	defer runCancel()

	urls := make(Set)

	if cfg.Interaction == sites.InteractionClickCards {
		if err := r.clickCards(runCtx, seedURL, cfg, urls); err != nil {
			return nil, err
		}
		return urls, nil
	}

	if err := navigate(runCtx, seedURL); err != nil {
		return nil, fmt.Errorf("render: navigate: %w", err)
	}

	r.waitForSelectors(runCtx, cfg)

	if cfg.InfiniteScroll {
		if _, scrollErr := scrollPage(runCtx, cfg.ScrollPause, cfg.MaxScrollAttempts); scrollErr != nil {
			r.log.Debug("infinite scroll interrupted", "url", seedURL, "error", scrollErr)
		}
	}

	if err := harvestAnchors(runCtx, seedURL, cfg, state, urls); err != nil {
		return nil, fmt.Errorf("render: harvest: %w", err)
	}

	for page := 1; ; page++ {
		next, ok := pagination.NextPageURL(seedURL, page, r.maxPages, cfg.PaginationSelectors)
		if !ok {
			break
		}
		if err := navigate(runCtx, next); err != nil {
			r.log.Debug("pagination navigate failed", "url", next, "error", err)
			break
		}
		if err := chromedp.Run(runCtx, chromedp.Sleep(cfg.ScrollPause)); err != nil {
			break
		}
		if err := harvestAnchors(runCtx, next, cfg, state, urls); err != nil {
			r.log.Debug("pagination harvest failed", "url", next, "error", err)
			break
		}
	}

	return urls, nil
}

// waitForSelectors blocks on each configured selector, best effort: a
// selector that never appears is skipped after its timeout.
func (r *Render) waitForSelectors(ctx context.Context, cfg *sites.Config) {
	for _, selector := range cfg.WaitForSelectors {
		waitCtx, cancel := context.WithTimeout(ctx, waitSelectorTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
		cancel()
		if err != nil {
			r.log.Debug("wait selector not found", "selector", selector)
		}
	}
}

// clickCards implements the click_cards site personality: it intercepts
// in-flight request URLs containing the content path hint while rendering,
// clicks each content-preview card capturing the URL the click opens, and
// unions both sources. Best effort throughout.
func (r *Render) clickCards(ctx context.Context, seedURL string, cfg *sites.Config, urls Set) error {
	hint := cfg.ContentPathHint

	var mu sync.Mutex
	intercepted := make(Set)
	chromedp.ListenTarget(ctx, func(ev any) {
		e, ok := ev.(*network.EventRequestWillBeSent)
		if !ok {
			return
		}
		u := e.Request.URL
		if hint != "" && strings.Contains(u, hint) && u != seedURL && u != seedURL+"/" {
			mu.Lock()
			intercepted.Add(u)
			mu.Unlock()
		}
	})

	if err := chromedp.Run(ctx, network.Enable()); err != nil {
		return fmt.Errorf("render: enable network: %w", err)
	}
	if err := navigate(ctx, seedURL); err != nil {
		return fmt.Errorf("render: navigate: %w", err)
	}

	r.waitForSelectors(ctx, cfg)

	if _, err := scrollPage(ctx, cfg.ScrollPause, cfg.MaxScrollAttempts); err != nil {
		r.log.Debug("card scroll interrupted", "error", err)
	}

	var cardCount int
	countJS := fmt.Sprintf(`document.querySelectorAll(%q).length`, cfg.CardSelector)
	if err := chromedp.Run(ctx, chromedp.Evaluate(countJS, &cardCount)); err != nil {
		return fmt.Errorf("render: count cards: %w", err)
	}

	for i := 0; i < cardCount; i++ {
		if u := r.clickCard(ctx, cfg, i); u != "" && u != seedURL && u != seedURL+"/" {
			urls.Add(u)
		}
	}

	mu.Lock()
	urls.Merge(intercepted)
	mu.Unlock()

	return nil
}

// clickCard clicks the i-th card and returns the URL of the page the click
// opened, or empty when nothing navigated.
func (r *Render) clickCard(ctx context.Context, cfg *sites.Config, index int) string {
	hint := cfg.ContentPathHint

	ch := chromedp.WaitNewTarget(ctx, func(info *target.Info) bool {
		return info.URL != "" && (hint == "" || strings.Contains(info.URL, hint))
	})

	clickJS := fmt.Sprintf(
		`(() => {
			const cards = document.querySelectorAll(%q);
			const card = cards[%d];
			if (!card) return false;
			const button = card.querySelector('button, a') || card;
			button.click();
			return true;
		})()`, cfg.CardSelector, index)

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(clickJS, &clicked)); err != nil || !clicked {
		return ""
	}

	select {
	case id := <-ch:
		newCtx, cancel := chromedp.NewContext(ctx, chromedp.WithTargetID(id))
		defer cancel()

		var loc string
		if err := chromedp.Run(newCtx, chromedp.Location(&loc)); err != nil {
			r.log.Debug("card target location failed", "card", index, "error", err)
			loc = ""
		}
		if err := chromedp.Cancel(newCtx); err != nil {
			r.log.Debug("card target close failed", "card", index, "error", err)
		}
		return loc
	case <-time.After(clickNavigateTimeout):
		return ""
	case <-ctx.Done():
		return ""
	}
}

// navigate loads a URL in the tab and waits for the body to be ready.
func navigate(ctx context.Context, pageURL string) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	)
}

// harvestAnchors extracts the href of every element matching the content
// selectors and records those passing the validity check.
func harvestAnchors(ctx context.Context, baseURL string, cfg *sites.Config, state *crawl.State, urls Set) error {
	for _, selector := range cfg.ContentSelectors {
		js := fmt.Sprintf(
			`(() => {
				const els = document.querySelectorAll(%q);
				return Array.from(els)
					.map(el => el.href || el.getAttribute('href') || '')
					.filter(h => h);
			})()`, selector)

		var hrefs []string
		if err := chromedp.Run(ctx, chromedp.Evaluate(js, &hrefs)); err != nil {
			return fmt.Errorf("evaluate selector %q: %w", selector, err)
		}
		for _, href := range hrefs {
			collectValid(urls, state, cfg, baseURL, href)
		}
	}
	return nil
}

// scrollPage drives the shared scroll loop against the current tab,
// measuring document.body.scrollHeight between scrolls.
func scrollPage(ctx context.Context, pause time.Duration, maxAttempts int) (int, error) {
	measure := func(ctx context.Context) (int64, error) {
		var height int64
		err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height))
		return height, err
	}
	scroll := func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		)
	}
	return pagination.RunScroll(ctx, pause, maxAttempts, scroll, measure)
}

// mergeDeadline parents the tab context with the strategy deadline so a
// chain-imposed timeout interrupts browser actions.
func mergeDeadline(tabCtx, strategyCtx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := strategyCtx.Deadline(); ok {
		return context.WithDeadline(tabCtx, deadline)
	}
	return context.WithCancel(tabCtx)
}
