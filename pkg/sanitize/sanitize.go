// Package sanitize strips dangerous markup from admin-supplied content
// before it is stored. Lesson markdown is rendered client-side, so anything
// that survives here ends up in learners' browsers.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var (
	// markdownPolicy allows the markup a lesson body legitimately produces.
	markdownPolicy = newMarkdownPolicy(true)
	// descriptionPolicy is the stricter variant for course descriptions
	// (no images, no horizontal rules).
	descriptionPolicy = newMarkdownPolicy(false)
)

func newMarkdownPolicy(allowMedia bool) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "p", "br", "code", "pre",
		"ul", "ol", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	if allowMedia {
		p.AllowElements("hr")
		p.AllowAttrs("src", "alt", "title").OnElements("img")
	}
	return p
}

// Markdown sanitizes lesson markdown content.
func Markdown(content string) string {
	if content == "" {
		return ""
	}
	return markdownPolicy.Sanitize(content)
}

// Description sanitizes course descriptions.
func Description(content string) string {
	if content == "" {
		return ""
	}
	return descriptionPolicy.Sanitize(content)
}
