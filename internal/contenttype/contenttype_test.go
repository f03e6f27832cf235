package contenttype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/godiscover/internal/contenttype"
)

func TestAll(t *testing.T) {
	t.Parallel()

	all := contenttype.All()
	assert.Len(t, all, 6)
	assert.Contains(t, all, contenttype.Blog)
	assert.Contains(t, all, contenttype.NewsletterPost)
	assert.Contains(t, all, contenttype.Unknown)
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "newsletter_post", contenttype.NewsletterPost.String())
	assert.Equal(t, "blog", contenttype.Blog.String())
}
