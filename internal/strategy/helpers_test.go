package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSiteRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "https seed", in: "https://example.com/blog/post", want: "https://example.com"},
		{name: "http seed", in: "http://example.com/blog", want: "http://example.com"},
		{name: "uppercase scheme", in: "HTTP://example.com/blog", want: "http://example.com"},
		{name: "port preserved", in: "http://localhost:8080/docs", want: "http://localhost:8080"},
		{name: "missing scheme defaults https", in: "//example.com/blog", want: "https://example.com"},
		{name: "unparseable", in: "://", want: ""},
		{name: "no host", in: "/blog/post", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, siteRoot(tt.in))
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	base := "https://example.com/blog"
	assert.Equal(t, "https://example.com/blog/post", absoluteURL(base, "/blog/post"))
	assert.Empty(t, absoluteURL(base, "#section"))
	assert.Empty(t, absoluteURL(base, "javascript:void(0)"))
	assert.Empty(t, absoluteURL(base, "mailto:hi@example.com"))
	assert.Empty(t, absoluteURL(base, "  "))
}
