// Package nav renders the table of contents for a document outline.
package nav

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ziadkadry99/missionview/internal/outline"
)

const tocTemplate = `<nav class="toc" aria-label="{{.Title}}">
<div class="toc-header"><span class="toc-title">{{.Title}}</span><span class="toc-count">{{.Count}}</span></div>
<ul class="toc-list">
{{- range .Entries}}
<li class="toc-item level-{{.Level}}{{if .Active}} active{{end}}"><button type="button" class="toc-link" data-target="{{.ID}}"{{if .Active}} aria-current="location"{{end}}>{{if eq .Level 2}}<span class="toc-chevron" aria-hidden="true">&rsaquo;</span>{{end}}{{.Text}}</button></li>
{{- end}}
</ul>
</nav>`

var toc = template.Must(template.New("toc").Parse(tocTemplate))

// Panel renders outlines as a clickable navigation list.
type Panel struct {
	Title string
}

// NewPanel returns a Panel with the default title.
func NewPanel() *Panel {
	return &Panel{Title: "Contents"}
}

type entry struct {
	outline.HeadingInfo
	Active bool
}

// HTML renders o with the entry whose id equals activeID highlighted. An empty
// outline renders nothing at all.
func (p *Panel) HTML(o outline.Outline, activeID string) (template.HTML, error) {
	if len(o) == 0 {
		return "", nil
	}

	title := p.Title
	if title == "" {
		title = "Contents"
	}
	entries := make([]entry, len(o))
	for i, h := range o {
		entries[i] = entry{HeadingInfo: h, Active: activeID != "" && h.ID == activeID}
	}

	var buf bytes.Buffer
	err := toc.Execute(&buf, struct {
		Title   string
		Count   string
		Entries []entry
	}{title, sectionCount(len(o)), entries})
	if err != nil {
		return "", fmt.Errorf("rendering table of contents: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Target resolves a click on id to the heading to scroll to. Unknown ids
// resolve to nothing and the click is dropped.
func (p *Panel) Target(o outline.Outline, id string) (outline.HeadingInfo, bool) {
	if id == "" {
		return outline.HeadingInfo{}, false
	}
	return o.Find(id)
}

func sectionCount(n int) string {
	if n == 1 {
		return "1 section"
	}
	return fmt.Sprintf("%d sections", n)
}
