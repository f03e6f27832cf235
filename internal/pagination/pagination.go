// Package pagination implements the shared next-page synthesis and
// infinite-scroll logic used by the browser-based strategies.
package pagination

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/godiscover/internal/urlutil"
)

// pagePlaceholder is the substitution marker in pagination URL templates.
const pagePlaceholder = "{page}"

// NextPageURL synthesizes the URL for the given page index by substituting
// it into the first template containing a page placeholder, resolved against
// the base URL. It returns false when no template applies or the page index
// has reached the page-count ceiling, which terminates the pagination loop.
func NextPageURL(baseURL string, page, maxPages int, templates []string) (string, bool) {
	if page >= maxPages {
		return "", false
	}
	for _, tmpl := range templates {
		if !strings.Contains(tmpl, pagePlaceholder) {
			continue
		}
		next := strings.ReplaceAll(tmpl, pagePlaceholder, strconv.Itoa(page))
		resolved, err := urlutil.Resolve(baseURL, next)
		if err != nil {
			return "", false
		}
		return resolved, true
	}
	return "", false
}

// ScrollFunc triggers one full-page scroll.
type ScrollFunc func(ctx context.Context) error

// MeasureFunc reports the current page height or content length.
type MeasureFunc func(ctx context.Context) (int64, error)

// RunScroll repeatedly triggers a scroll and pauses, comparing consecutive
// measurements. It stops when the measurement is unchanged (content has
// stabilized) or maxAttempts is reached, whichever comes first, and returns
// the number of scrolls performed.
func RunScroll(
	ctx context.Context,
	pause time.Duration,
	maxAttempts int,
	scroll ScrollFunc,
	measure MeasureFunc,
) (int, error) {
	last, err := measure(ctx)
	if err != nil {
		return 0, err
	}

	attempts := 0
	for attempts < maxAttempts {
		if err := scroll(ctx); err != nil {
			return attempts, err
		}
		attempts++

		if err := sleep(ctx, pause); err != nil {
			return attempts, err
		}

		current, err := measure(ctx)
		if err != nil {
			return attempts, err
		}
		if current == last {
			break
		}
		last = current
	}

	return attempts, nil
}

// sleep waits for the given duration or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
