// Package crawler orchestrates the discovery strategies for a single seed
// URL. It resolves the site configuration, runs an ordered strategy chain
// until one returns URLs, and buckets the winning set under the seed's
// content type.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/godiscover/internal/browser"
	"github.com/jonesrussell/godiscover/internal/contenttype"
	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/fetch"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sites"
	"github.com/jonesrussell/godiscover/internal/strategy"
	"github.com/jonesrussell/godiscover/internal/urlutil"
)

const (
	// DefaultMaxPages bounds pagination walks per strategy.
	DefaultMaxPages = 5
	// DefaultStrategyTimeout bounds a single strategy attempt.
	DefaultStrategyTimeout = 90 * time.Second
)

// Result maps discovered content types to their sorted URL lists. Only
// non-empty buckets appear.
type Result map[contenttype.Type][]string

// Crawler discovers content URLs for seed pages. It owns the shared fetch
// client; browser engines are started lazily inside each crawl and released
// before it returns.
type Crawler struct {
	registry        *sites.Registry
	client          *fetch.Client
	maxPages        int
	strategyTimeout time.Duration
	log             logger.Interface
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger.
func WithLogger(log logger.Interface) Option {
	return func(c *Crawler) { c.log = log }
}

// WithMaxPages sets the pagination bound passed to the strategies.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithStrategyTimeout sets the per-strategy attempt timeout.
func WithStrategyTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.strategyTimeout = d
		}
	}
}

// WithRegistry replaces the built-in site registry.
func WithRegistry(r *sites.Registry) Option {
	return func(c *Crawler) { c.registry = r }
}

// WithFetchClient replaces the HTTP fetch client.
func WithFetchClient(client *fetch.Client) Option {
	return func(c *Crawler) { c.client = client }
}

// New creates a Crawler with the default registry.
func New(opts ...Option) *Crawler {
	c := &Crawler{
		registry:        sites.NewRegistry(),
		client:          fetch.New(),
		maxPages:        DefaultMaxPages,
		strategyTimeout: DefaultStrategyTimeout,
		log:             logger.NewNoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("crawler")
	return c
}

// Discover runs the strategy chain for a seed URL and returns the content
// URLs found, bucketed by the seed's content type. Strategies run in order;
// the first one returning a non-empty set wins and later strategies are not
// attempted. A failing strategy is logged and skipped. When every strategy
// comes back empty, the same-domain link sweep runs as a last resort.
func (c *Crawler) Discover(ctx context.Context, seedURL string) (Result, error) {
	if !urlutil.IsHTTP(seedURL) {
		return nil, fmt.Errorf("seed URL must be http or https: %s", seedURL)
	}
	domain, err := urlutil.ExtractDomain(seedURL)
	if err != nil {
		return nil, fmt.Errorf("seed URL: %w", err)
	}

	cfg := c.registry.Resolve(domain)
	state := crawl.NewState()
	log := c.log.With("job_id", uuid.NewString(), "domain", domain, "url", seedURL)

	// Engines start lazily; strategies that never render leave them cold.
	// Either way they are released when this crawl returns.
	chrome := browser.NewChrome(c.log)
	stealthEng := browser.NewStealth(c.log)
	defer chrome.Close()
	defer stealthEng.Close()

	urls := c.runChain(ctx, log, seedURL, cfg, state, c.chain(cfg, chrome, stealthEng))
	if len(urls) == 0 {
		log.Info("all strategies empty, sweeping same-domain links")
		urls = c.attempt(ctx, log, strategy.NewAllLinks(c.client, c.log), seedURL, cfg, state)
	}
	if len(urls) == 0 {
		log.Warn("no content URLs discovered")
		return Result{}, nil
	}

	seedType := c.registry.Classify(seedURL)
	state.Add(seedType, urls)
	log.Info("discovery complete", "content_type", string(seedType), "count", len(urls))
	return state.Result(), nil
}

// runChain tries each strategy in order and returns the first non-empty set.
func (c *Crawler) runChain(ctx context.Context, log logger.Interface, seedURL string, cfg *sites.Config, state *crawl.State, chain []strategy.Strategy) strategy.Set {
	for _, s := range chain {
		if err := ctx.Err(); err != nil {
			log.Warn("crawl cancelled", "error", err)
			return nil
		}
		if urls := c.attempt(ctx, log, s, seedURL, cfg, state); len(urls) > 0 {
			return urls
		}
	}
	return nil
}

// attempt runs a single strategy under the per-strategy timeout.
func (c *Crawler) attempt(ctx context.Context, log logger.Interface, s strategy.Strategy, seedURL string, cfg *sites.Config, state *crawl.State) strategy.Set {
	attemptCtx, cancel := context.WithTimeout(ctx, c.strategyTimeout)
	defer cancel()

	log.Debug("trying strategy", "strategy", s.Name())
	urls, err := s.Attempt(attemptCtx, seedURL, cfg, state)
	if err != nil {
		log.Warn("strategy failed", "strategy", s.Name(), "error", err)
		return nil
	}
	if len(urls) == 0 {
		log.Debug("strategy found nothing", "strategy", s.Name())
		return nil
	}
	log.Info("strategy succeeded", "strategy", s.Name(), "count", len(urls))
	return urls
}

// chain builds the ordered strategy list for a site. Sites whose listings
// only materialize through card interactions probe their API first, then
// render, then fall back to static markup and finally the feed and sitemap
// probes. Everything else starts cheap and escalates toward the browser
// engines.
func (c *Crawler) chain(cfg *sites.Config, chrome *browser.Chrome, stealthEng *browser.Stealth) []strategy.Strategy {
	if cfg.Interaction == sites.InteractionClickCards {
		return []strategy.Strategy{
			strategy.NewAPI(c.client, c.log),
			strategy.NewRender(chrome, c.maxPages, c.log),
			strategy.NewStatic(c.maxPages, c.log),
			strategy.NewFeed(c.client, c.log),
		}
	}

	chain := []strategy.Strategy{strategy.NewFeed(c.client, c.log)}
	if cfg.RequiresJS {
		chain = append(chain, strategy.NewRender(chrome, c.maxPages, c.log))
	}
	if cfg.UseStealth {
		chain = append(chain, strategy.NewStealthRender(stealthEng, c.maxPages, c.log))
	}
	chain = append(chain, strategy.NewStatic(c.maxPages, c.log))
	if cfg.UseCloudflareBypass {
		chain = append(chain, strategy.NewCloudflareBypass(stealthEng, c.maxPages, c.log))
	}
	chain = append(chain,
		strategy.NewAPI(c.client, c.log),
		strategy.NewAggressive(chrome, c.log),
	)
	return chain
}
