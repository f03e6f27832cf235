package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/jonesrussell/godiscover/internal/logger"
)

// ErrEngineClosed indicates a tab/page request after the engine was closed.
var ErrEngineClosed = errors.New("browser: engine is closed")

// navigateTimeout bounds navigation plus initial load of a stealth page.
const navigateTimeout = 30 * time.Second

// Stealth manages a Rod-driven Chrome configured to evade bot detection.
// The browser is launched lazily on the first page request.
type Stealth struct {
	mu      sync.Mutex
	lnch    *launcher.Launcher
	browser *rod.Browser
	closed  bool
	log     logger.Interface
}

// NewStealth creates a Stealth engine without launching a browser.
func NewStealth(log logger.Interface) *Stealth {
	return &Stealth{log: log}
}

// ensureBrowser launches and connects the browser if needed. Callers must
// hold mu.
func (s *Stealth) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	lnch := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check")

	controlURL, err := lnch.Launch()
	if err != nil {
		return fmt.Errorf("browser: launch: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		lnch.Kill()
		return fmt.Errorf("browser: connect: %w", err)
	}

	s.lnch = lnch
	s.browser = b
	s.log.Debug("stealth engine started")
	return nil
}

// Page opens a stealth page and navigates it to the URL, waiting for the
// load event. The caller owns the page and must close it.
func (s *Stealth) Page(ctx context.Context, pageURL string) (*rod.Page, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrEngineClosed
	}
	if err := s.ensureBrowser(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	b := s.browser
	s.mu.Unlock()

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create stealth page: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		s.log.Warn("stealth page load wait timed out", "url", pageURL, "error", err)
	}

	return page, nil
}

// Close shuts the browser and its launcher down. Safe to call when the
// engine was never started, and safe to call more than once.
func (s *Stealth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.Warn("stealth browser close failed", "error", err)
		}
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
}
