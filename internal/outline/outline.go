package outline

import (
	"regexp"
	"strings"
)

// HeadingInfo is one entry of the document outline.
type HeadingInfo struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Outline is the ordered list of level 1 and level 2 headings of a document.
type Outline []HeadingInfo

// headingLine matches "# Title" and "## Title". Deeper headings are not indexed.
var headingLine = regexp.MustCompile(`^(#{1,2})[ \t]+(.+)$`)

// ParseHeadingLine reports whether line is an outline heading and returns its
// level and trimmed text.
func ParseHeadingLine(line string) (level int, text string, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	m := headingLine.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	text = strings.TrimSpace(m[2])
	if text == "" {
		return 0, "", false
	}
	return len(m[1]), text, true
}

// Extract scans doc line by line and returns its outline in document order.
// An empty document yields an empty, non-nil outline.
func Extract(doc string) Outline {
	out := Outline{}
	for _, line := range strings.Split(doc, "\n") {
		level, text, ok := ParseHeadingLine(line)
		if !ok {
			continue
		}
		out = append(out, HeadingInfo{
			ID:    Slug(text),
			Text:  text,
			Level: level,
		})
	}
	return out
}

// IDs returns the heading ids in outline order.
func (o Outline) IDs() []string {
	ids := make([]string, len(o))
	for i, h := range o {
		ids[i] = h.ID
	}
	return ids
}

// Find returns the first heading with the given id.
func (o Outline) Find(id string) (HeadingInfo, bool) {
	for _, h := range o {
		if h.ID == id {
			return h, true
		}
	}
	return HeadingInfo{}, false
}

// Equal reports whether two outlines have the same entries in the same order.
func (o Outline) Equal(other Outline) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}
