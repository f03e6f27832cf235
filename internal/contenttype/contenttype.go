// Package contenttype defines the coarse content categories assigned to
// discovered URLs.
package contenttype

// Type identifies the coarse category of a content URL. It is always
// derived from the URL by classification, never stored independently.
type Type string

const (
	// Blog is a blog post or article.
	Blog Type = "blog"
	// Guide is a long-form instructional page.
	Guide Type = "guide"
	// Topic is a topic or hub page.
	Topic Type = "topic"
	// NewsletterPost is a newsletter-platform post (e.g. a Substack "/p/" URL).
	NewsletterPost Type = "newsletter_post"
	// Category is a category or archive listing page.
	Category Type = "category"
	// Unknown is the fallback when no pattern matches.
	Unknown Type = "unknown"
)

// All returns every defined content type.
func All() []Type {
	return []Type{Blog, Guide, Topic, NewsletterPost, Category, Unknown}
}

// String returns the string form of the type.
func (t Type) String() string {
	return string(t)
}
