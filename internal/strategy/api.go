package strategy

import (
	"context"
	"encoding/json"

	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/fetch"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// API probes the site's configured API endpoints and recursively walks each
// JSON body, collecting every string value that passes the content-validity
// check. No fixed response schema is assumed.
type API struct {
	client *fetch.Client
	log    logger.Interface
}

// NewAPI creates the API probing strategy.
func NewAPI(client *fetch.Client, log logger.Interface) *API {
	return &API{client: client, log: log.WithComponent("strategy.api")}
}

// Name identifies the strategy in logs.
func (a *API) Name() string { return "api" }

// Attempt GETs each configured endpoint. With no endpoints configured it
// returns an empty set, not an error.
func (a *API) Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error) {
	urls := make(Set)

	if len(cfg.APIEndpoints) == 0 {
		return urls, nil
	}

	root := siteRoot(seedURL)
	if root == "" {
		return urls, nil
	}

	for _, endpoint := range cfg.APIEndpoints {
		apiURL := absoluteURL(root+"/", endpoint)
		if apiURL == "" {
			continue
		}

		resp, err := a.client.Get(ctx, apiURL, cfg.CustomHeaders)
		if err != nil {
			a.log.Debug("api probe failed", "url", apiURL, "error", err)
			continue
		}
		if !resp.OK() {
			continue
		}

		var body any
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			a.log.Debug("api response is not JSON", "url", apiURL, "error", err)
			continue
		}

		walkJSON(body, func(value string) {
			collectValid(urls, state, cfg, root+"/", value)
		})
	}

	return urls, nil
}

// walkJSON visits every string value in an arbitrarily shaped JSON document.
func walkJSON(node any, visit func(string)) {
	switch v := node.(type) {
	case string:
		visit(v)
	case []any:
		for _, item := range v {
			walkJSON(item, visit)
		}
	case map[string]any:
		for _, item := range v {
			walkJSON(item, visit)
		}
	}
}
