package strategy

import (
	"net/url"
	"strings"

	"github.com/jonesrussell/godiscover/internal/urlutil"
)

// absoluteURL resolves href against base and returns it, or empty when the
// href is unusable (empty, fragment-only, javascript/mailto scheme, or
// unparseable).
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") {
		return ""
	}

	abs, err := urlutil.Resolve(base, href)
	if err != nil {
		return ""
	}
	if !urlutil.IsHTTP(abs) {
		return ""
	}
	return abs
}

// headingSlug converts a heading title to the slug most blog platforms
// derive from it: lowercased, spaces to hyphens, light punctuation dropped.
var slugReplacer = strings.NewReplacer(" ", "-", "?", "", ".", "", ",", "", "'", "")

func headingSlug(title string) string {
	return slugReplacer.Replace(strings.ToLower(strings.TrimSpace(title)))
}

// siteRoot returns "scheme://host" for the given URL, defaulting the scheme
// to https when absent.
func siteRoot(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + u.Host
}
