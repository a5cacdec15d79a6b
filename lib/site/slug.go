package site

import (
	"regexp"
	"strings"
)

var newsIDPattern = regexp.MustCompile(`k10(\d+)`)
var slugStrip = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
var slugDashes = regexp.MustCompile(`[-\s]+`)

// Slug builds a stable page filename stem for an article. The news id
// is preferred because titles get edited after publication; the title
// fallback only exists for articles scraped before ids were recorded.
func Slug(title, id string) string {
	if m := newsIDPattern.FindStringSubmatch(id); m != nil {
		return "article-" + m[1]
	}

	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if runes := []rune(slug); len(runes) > 50 {
		slug = string(runes[:50])
	}
	if slug == "" {
		slug = "article"
	}
	return slug
}
