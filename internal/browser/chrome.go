// Package browser manages the rendering engines used by the browser-based
// strategies. Engines are acquired lazily on first use and closed
// unconditionally at the end of a crawl invocation.
package browser

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/jonesrussell/godiscover/internal/logger"
)

// Chrome manages a headless Chrome instance driven over the DevTools
// protocol. The browser context is shared across tabs within one crawl.
type Chrome struct {
	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	closed        bool
	log           logger.Interface
}

// NewChrome creates a Chrome engine. The browser process is not started
// until the first Tab call.
func NewChrome(log logger.Interface) *Chrome {
	return &Chrome{log: log}
}

// start launches the browser allocator. Callers must hold mu.
func (c *Chrome) start() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	c.browserCtx = browserCtx
	c.browserCancel = browserCancel
	c.allocCancel = allocCancel
	c.log.Debug("chrome engine started")
}

// Tab returns a fresh tab context parented to the shared browser, starting
// the browser on first use. The returned cancel closes only the tab.
func (c *Chrome) Tab() (context.Context, context.CancelFunc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, nil, ErrEngineClosed
	}
	if c.browserCtx == nil {
		c.start()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	return tabCtx, tabCancel, nil
}

// Close shuts the browser down. Safe to call when the engine was never
// started, and safe to call more than once.
func (c *Chrome) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.browserCancel != nil {
		c.browserCancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
	c.browserCtx = nil
}
