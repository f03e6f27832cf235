// Package crawl holds the per-invocation crawl state: the set of URLs
// already judged and the content URLs discovered so far, bucketed by type.
package crawl

import (
	"sort"
	"sync"

	"github.com/jonesrussell/godiscover/internal/contenttype"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// State records visited URLs and discovered content URLs for one crawl
// invocation. It is created at the start of a crawl and discarded at the
// end; nothing persists across crawls.
type State struct {
	mu      sync.Mutex
	visited map[string]struct{}
	byType  map[contenttype.Type]map[string]struct{}
}

// NewState creates an empty crawl state.
func NewState() *State {
	return &State{
		visited: make(map[string]struct{}),
		byType:  make(map[contenttype.Type]map[string]struct{}),
	}
}

// Visit marks a URL as judged and reports whether this was the first time.
func (s *State) Visit(rawURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.visited[rawURL]; seen {
		return false
	}
	s.visited[rawURL] = struct{}{}
	return true
}

// Visited reports whether a URL has already been judged in this crawl.
func (s *State) Visited(rawURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, seen := s.visited[rawURL]
	return seen
}

// VisitedCount returns the number of URLs judged so far.
func (s *State) VisitedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visited)
}

// CheckContent is the shared URL-validity check: a URL is content-valid iff
// it has not already been judged in this crawl and it matches at least one
// of the config's content patterns. The URL is marked as judged either way,
// so re-evaluating the same URL always returns false.
func (s *State) CheckContent(rawURL string, cfg *sites.Config) bool {
	if rawURL == "" {
		return false
	}
	if !s.Visit(rawURL) {
		return false
	}
	return cfg.MatchesContent(rawURL)
}

// Add merges a set of URLs into the bucket for the given content type.
func (s *State) Add(t contenttype.Type, urls map[string]struct{}) {
	if len(urls) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.byType[t]
	if !ok {
		bucket = make(map[string]struct{}, len(urls))
		s.byType[t] = bucket
	}
	for u := range urls {
		bucket[u] = struct{}{}
	}
}

// Result returns the non-empty buckets as sorted URL lists.
func (s *State) Result() map[contenttype.Type][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[contenttype.Type][]string, len(s.byType))
	for t, bucket := range s.byType {
		if len(bucket) == 0 {
			continue
		}
		urls := make([]string, 0, len(bucket))
		for u := range bucket {
			urls = append(urls, u)
		}
		sort.Strings(urls)
		result[t] = urls
	}
	return result
}
