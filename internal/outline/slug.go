package outline

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Slug converts heading text into the anchor id used by the rendered page.
// The result only contains a-z, 0-9 and '-'. Two headings with the same text
// produce the same slug.
func Slug(text string) string {
	s := strings.ToLower(text)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return whitespaceRe.ReplaceAllString(s, "-")
}
