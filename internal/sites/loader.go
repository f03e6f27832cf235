package sites

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/godiscover/internal/contenttype"
)

var (
	// ErrNoSites indicates no sites were found in the configuration file.
	ErrNoSites = errors.New("no sites found in configuration")
	// ErrMissingDomain indicates a site entry without a domain key.
	ErrMissingDomain = errors.New("site entry missing domain")
)

// fileConfig is the YAML shape of one site entry.
type fileConfig struct {
	Domain              string            `mapstructure:"domain"`
	ContentSelectors    []string          `mapstructure:"content_selectors"`
	PaginationSelectors []string          `mapstructure:"pagination_selectors"`
	ContentPatterns     []filePattern     `mapstructure:"content_patterns"`
	RequiresJS          bool              `mapstructure:"requires_js"`
	InfiniteScroll      bool              `mapstructure:"infinite_scroll"`
	UseStealth          bool              `mapstructure:"use_stealth"`
	UseCloudflareBypass bool              `mapstructure:"use_cloudflare_bypass"`
	ScrollPause         string            `mapstructure:"scroll_pause"`
	MaxScrollAttempts   int               `mapstructure:"max_scroll_attempts"`
	WaitForSelectors    []string          `mapstructure:"wait_for_selectors"`
	APIEndpoints        []string          `mapstructure:"api_endpoints"`
	CustomHeaders       map[string]string `mapstructure:"custom_headers"`
	FeedURLs            []string          `mapstructure:"feed_urls"`
	Interaction         string            `mapstructure:"interaction"`
	ContentPathHint     string            `mapstructure:"content_path_hint"`
	CardSelector        string            `mapstructure:"card_selector"`
}

// filePattern is the YAML shape of one content pattern.
type filePattern struct {
	Pattern string `mapstructure:"pattern"`
	Type    string `mapstructure:"type"`
}

// fileRoot is the YAML document root.
type fileRoot struct {
	Sites []map[string]any `yaml:"sites"`
}

// LoadFile reads additional site configurations from a YAML file. Loaded
// configs are resolved after the builtin table, so builtins win on
// overlapping domains.
func LoadFile(path string) ([]*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}

	var root fileRoot
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse site config: %w", err)
	}

	if len(root.Sites) == 0 {
		return nil, ErrNoSites
	}

	configs := make([]*Config, 0, len(root.Sites))
	for i, raw := range root.Sites {
		cfg, convErr := convertFileConfig(raw)
		if convErr != nil {
			return nil, fmt.Errorf("site entry %d: %w", i, convErr)
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

// convertFileConfig decodes one YAML site entry into a Config.
func convertFileConfig(raw map[string]any) (*Config, error) {
	var fc fileConfig
	if err := mapstructure.Decode(raw, &fc); err != nil {
		return nil, fmt.Errorf("decode site entry: %w", err)
	}

	if fc.Domain == "" {
		return nil, ErrMissingDomain
	}

	patterns := make([]ContentPattern, 0, len(fc.ContentPatterns))
	for _, fp := range fc.ContentPatterns {
		re, err := regexp.Compile(fp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", fp.Pattern, err)
		}
		ct := contenttype.Type(fp.Type)
		if fp.Type == "" {
			ct = contenttype.Blog
		}
		patterns = append(patterns, ContentPattern{Pattern: re, Type: ct})
	}

	var scrollPause time.Duration
	if fc.ScrollPause != "" {
		d, err := time.ParseDuration(fc.ScrollPause)
		if err != nil {
			return nil, fmt.Errorf("parse scroll_pause %q: %w", fc.ScrollPause, err)
		}
		scrollPause = d
	}

	cfg := &Config{
		Domain:              fc.Domain,
		ContentSelectors:    fc.ContentSelectors,
		PaginationSelectors: fc.PaginationSelectors,
		ContentPatterns:     patterns,
		RequiresJS:          fc.RequiresJS,
		InfiniteScroll:      fc.InfiniteScroll,
		UseStealth:          fc.UseStealth,
		UseCloudflareBypass: fc.UseCloudflareBypass,
		ScrollPause:         scrollPause,
		MaxScrollAttempts:   fc.MaxScrollAttempts,
		WaitForSelectors:    fc.WaitForSelectors,
		APIEndpoints:        fc.APIEndpoints,
		CustomHeaders:       fc.CustomHeaders,
		FeedURLs:            fc.FeedURLs,
		Interaction:         Interaction(fc.Interaction),
		ContentPathHint:     fc.ContentPathHint,
		CardSelector:        fc.CardSelector,
	}
	cfg.normalize()

	return cfg, nil
}
