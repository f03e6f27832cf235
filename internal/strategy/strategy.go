// Package strategy implements the independent retrieval strategies the
// crawl chain tries in order against a seed URL. Each strategy encapsulates
// one retrieval technology and is safe to call when its preconditions are
// unmet, returning an empty set rather than an error.
package strategy

import (
	"context"

	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// Set is a set of absolute content URL strings. An empty set is a valid
// "found nothing" result, distinct from a strategy failure.
type Set map[string]struct{}

// NewSet builds a Set from the given URLs.
func NewSet(urls ...string) Set {
	s := make(Set, len(urls))
	for _, u := range urls {
		s[u] = struct{}{}
	}
	return s
}

// Add inserts a URL into the set.
func (s Set) Add(rawURL string) {
	s[rawURL] = struct{}{}
}

// Merge inserts every URL of other into the set.
func (s Set) Merge(other Set) {
	for u := range other {
		s[u] = struct{}{}
	}
}

// Strategy is one self-contained technique for retrieving candidate content
// URLs from a seed page.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Attempt tries to produce content URLs for the seed. An empty set
	// means the strategy found nothing or did not apply; an error means it
	// genuinely failed (network error, parse error, timeout, browser
	// crash). Attempt must never panic.
	Attempt(ctx context.Context, seedURL string, cfg *sites.Config, state *crawl.State) (Set, error)
}

// collectValid adds href (resolved against base) to the set when it passes
// the shared content-validity check.
func collectValid(set Set, state *crawl.State, cfg *sites.Config, base, href string) {
	abs := absoluteURL(base, href)
	if abs == "" {
		return
	}
	if state.CheckContent(abs, cfg) {
		set.Add(abs)
	}
}
