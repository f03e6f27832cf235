package urlutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godiscover/internal/urlutil"
)

func TestExtractDomain(t *testing.T) {
	t.Parallel()

	domain, err := urlutil.ExtractDomain("https://example.com/blog/post-1")
	require.NoError(t, err)
	assert.Equal(t, "example.com", domain)

	domain, err = urlutil.ExtractDomain("http://sub.example.com:8080/path")
	require.NoError(t, err)
	assert.Equal(t, "sub.example.com:8080", domain)
}

func TestExtractDomain_NoHost(t *testing.T) {
	t.Parallel()

	_, err := urlutil.ExtractDomain("/relative/path")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"relative path", "https://example.com/blog", "/blog/post-1", "https://example.com/blog/post-1"},
		{"absolute href", "https://example.com/blog", "https://other.com/p/x", "https://other.com/p/x"},
		{"sibling path", "https://example.com/blog/", "post-1", "https://example.com/blog/post-1"},
		{"whitespace trimmed", "https://example.com", "  /feed.xml ", "https://example.com/feed.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := urlutil.Resolve(tt.base, tt.href)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSameDomain(t *testing.T) {
	t.Parallel()

	assert.True(t, urlutil.SameDomain("https://example.com/blog/post-1", "example.com"))
	assert.False(t, urlutil.SameDomain("https://other.com/blog/post-1", "example.com"))
	assert.False(t, urlutil.SameDomain("://bad", "example.com"))
}

func TestIsHTTP(t *testing.T) {
	t.Parallel()

	assert.True(t, urlutil.IsHTTP("https://example.com"))
	assert.True(t, urlutil.IsHTTP("http://example.com"))
	assert.False(t, urlutil.IsHTTP("ftp://example.com"))
	assert.False(t, urlutil.IsHTTP("mailto:someone@example.com"))
}
