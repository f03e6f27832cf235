package strategy

import (
	"context"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/fetch"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/pagination"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// staticRequestTimeout bounds a single page fetch.
const staticRequestTimeout = 15 * time.Second

// Static fetches pages over plain HTTP with a randomized user agent and
// harvests anchors matching the content selectors, walking synthesized
// pagination URLs up to the crawl's page limit. For card-interaction sites
// it also synthesizes candidate URLs from the listing's heading text.
type Static struct {
	maxPages int
	log      logger.Interface
}

// NewStatic creates the static fetch strategy.
func NewStatic(maxPages int, log logger.Interface) *Static {
	return &Static{maxPages: maxPages, log: log.WithComponent("strategy.static")}
}

// Name identifies the strategy in logs.
func (s *Static) Name() string { return "static" }

// Attempt fetches the seed and its synthesized pagination pages, harvesting
// content anchors from each.
func (s *Static) Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error) {
	urls := make(Set)

	collector := colly.NewCollector(
		colly.UserAgent(fetch.RandomUserAgent()),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(staticRequestTimeout)

	collector.OnRequest(func(r *colly.Request) {
		for k, v := range cfg.CustomHeaders {
			r.Headers.Set(k, v)
		}
	})

	var fetchErr error
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
		s.log.Debug("static fetch failed", "url", r.Request.URL.String(), "error", err)
	})

	for _, selector := range cfg.ContentSelectors {
		collector.OnHTML(selector, func(e *colly.HTMLElement) {
			collectValid(urls, state, cfg, e.Request.URL.String(), e.Attr("href"))
		})
	}

	// Card-interaction sites name their posts in listing headings even when
	// the markup carries no anchors. Synthesize candidate URLs from the
	// heading text; only those matching the content patterns survive.
	if cfg.Interaction == sites.InteractionClickCards && cfg.ContentPathHint != "" {
		root := siteRoot(seedURL)
		collector.OnHTML("h1, h2, h3, h4", func(e *colly.HTMLElement) {
			slug := headingSlug(e.Text)
			if root == "" || slug == "" {
				return
			}
			collectValid(urls, state, cfg, seedURL, root+cfg.ContentPathHint+slug)
		})
	}

	if err := collector.Visit(seedURL); err != nil {
		return nil, err
	}
	collector.Wait()

	if len(urls) == 0 && fetchErr != nil {
		return nil, fetchErr
	}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return urls, err
		}
		next, ok := pagination.NextPageURL(seedURL, page, s.maxPages, cfg.PaginationSelectors)
		if !ok {
			break
		}
		if err := collector.Visit(next); err != nil {
			s.log.Debug("pagination visit failed", "url", next, "error", err)
			break
		}
		collector.Wait()
	}

	return urls, nil
}
