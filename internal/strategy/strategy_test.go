package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/godiscover/internal/strategy"
)

func TestSet(t *testing.T) {
	t.Parallel()

	s := strategy.NewSet("https://example.com/blog/a", "https://example.com/blog/b")
	assert.Len(t, s, 2)

	s.Add("https://example.com/blog/c")
	s.Add("https://example.com/blog/c")
	assert.Len(t, s, 3)

	s.Merge(strategy.NewSet("https://example.com/blog/b", "https://example.com/blog/d"))
	assert.Len(t, s, 4)
	assert.Contains(t, s, "https://example.com/blog/d")
}
