package strategy

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/jonesrussell/godiscover/internal/browser"
	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// Aggressive is the heavy fallback: render the seed, scroll through the
// full attempt budget, and harvest the href of every anchor on the page
// regardless of selector, filtered only by the shared validity check.
type Aggressive struct {
	chrome *browser.Chrome
	log    logger.Interface
}

// NewAggressive creates the aggressive render fallback strategy.
func NewAggressive(chrome *browser.Chrome, log logger.Interface) *Aggressive {
	return &Aggressive{chrome: chrome, log: log.WithComponent("strategy.aggressive")}
}

// Name identifies the strategy in logs.
func (a *Aggressive) Name() string { return "aggressive" }

// Attempt renders the seed, exhausts the scroll budget, and collects every
// anchor passing the validity check.
func (a *Aggressive) Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error) {
	tabCtx, cancel, err := a.chrome.Tab()
	if err != nil {
		return nil, fmt.Errorf("aggressive: %w", err)
	}
	defer cancel()

	runCtx, runCancel := mergeDeadline(tabCtx, ctx)
	defer runCancel()

	if err := navigate(runCtx, seedURL); err != nil {
		return nil, fmt.Errorf("aggressive: navigate: %w", err)
	}

	// Exhaust the budget even if the height stabilizes early; lazy loaders
	// sometimes resume after idle pauses.
	for i := 0; i < cfg.MaxScrollAttempts; i++ {
		err := chromedp.Run(runCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(cfg.ScrollPause),
		)
		if err != nil {
			a.log.Debug("aggressive scroll interrupted", "error", err)
			break
		}
	}

	urls := make(Set)

	var hrefs []string
	js := `(() => {
		return Array.from(document.querySelectorAll('a'))
			.map(a => a.href)
			.filter(h => h);
	})()`
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &hrefs)); err != nil {
		return nil, fmt.Errorf("aggressive: harvest: %w", err)
	}

	for _, href := range hrefs {
		collectValid(urls, state, cfg, seedURL, href)
	}

	return urls, nil
}
