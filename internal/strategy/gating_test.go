package strategy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godiscover/internal/browser"
	"github.com/jonesrussell/godiscover/internal/crawl"
	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/strategy"
)

// The browser engines start lazily, so the flag gates can be exercised
// without a Chrome binary present.

func TestRender_SkipsWithoutJSFlag(t *testing.T) {
	t.Parallel()

	render := strategy.NewRender(browser.NewChrome(logger.NewNoOp()), 1, logger.NewNoOp())

	cfg := testConfig("example.com")
	urls, err := render.Attempt(context.Background(), "https://example.com/blog", cfg, crawl.NewState())
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestStealthRender_SkipsWithoutStealthFlag(t *testing.T) {
	t.Parallel()

	stealth := strategy.NewStealthRender(browser.NewStealth(logger.NewNoOp()), 1, logger.NewNoOp())

	cfg := testConfig("example.com")
	urls, err := stealth.Attempt(context.Background(), "https://example.com/blog", cfg, crawl.NewState())
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestCloudflareBypass_SkipsWithoutBypassFlag(t *testing.T) {
	t.Parallel()

	bypass := strategy.NewCloudflareBypass(browser.NewStealth(logger.NewNoOp()), 1, logger.NewNoOp())

	cfg := testConfig("example.com")
	urls, err := bypass.Attempt(context.Background(), "https://example.com/blog", cfg, crawl.NewState())
	require.NoError(t, err)
	assert.Empty(t, urls)
}
