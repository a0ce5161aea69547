// Package checklist finds and toggles markdown checklist lines.
//
// A checklist item has no identity other than its position: the Nth line in
// the document that matches the checklist pattern is item N. Inserting or
// removing a checklist line shifts the index of every item below it.
package checklist

import (
	"regexp"
	"strings"
)

// itemLine matches "- [ ] text" and "- [x] text" with optional indentation.
// Group 2 is the single state byte.
var itemLine = regexp.MustCompile(`^(\s*)-\s+\[( |x)\]\s+(.*)$`)

// Item is a checklist line found by Scan.
type Item struct {
	Index   int    `json:"index"`
	Line    int    `json:"line"` // zero-based line number in the document
	Checked bool   `json:"checked"`
	Text    string `json:"text"`
}

// Match reports whether line is a checklist line and, if so, whether it is checked.
func Match(line string) (checked bool, ok bool) {
	m := itemLine.FindStringSubmatch(line)
	if m == nil {
		return false, false
	}
	return m[2] == "x", true
}

// Scan returns every checklist item in doc in top-to-bottom order.
func Scan(doc string) []Item {
	var items []Item
	for i, line := range strings.Split(doc, "\n") {
		m := itemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, Item{
			Index:   len(items),
			Line:    i,
			Checked: m[2] == "x",
			Text:    strings.TrimRight(m[3], "\r"),
		})
	}
	return items
}

// LineIndex maps a zero-based line number to the checklist index of that line.
func LineIndex(doc string) map[int]int {
	idx := make(map[int]int)
	for _, it := range Scan(doc) {
		idx[it.Line] = it.Index
	}
	return idx
}

// Toggle flips the checked state of checklist item index and returns the new
// document. Only the state byte of that one line changes. An index outside the
// range of items returns doc unchanged.
func Toggle(doc string, index int) string {
	if index < 0 {
		return doc
	}
	lines := strings.Split(doc, "\n")
	counter := 0
	for i, line := range lines {
		loc := itemLine.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		if counter == index {
			start, end := loc[4], loc[5]
			state := "x"
			if line[start:end] == "x" {
				state = " "
			}
			lines[i] = line[:start] + state + line[end:]
			return strings.Join(lines, "\n")
		}
		counter++
	}
	return doc
}
