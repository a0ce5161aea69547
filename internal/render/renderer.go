package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/missionview/internal/checklist"
	"github.com/ziadkadry99/missionview/internal/outline"
)

// DefaultStyle is the chroma style used for fenced code blocks.
const DefaultStyle = "github"

// Result is everything a view needs to show one version of a document.
type Result struct {
	HTML       string           `json:"html"`
	Outline    outline.Outline  `json:"outline"`
	Checklist  []checklist.Item `json:"checklist"`
	CodeBlocks []CodeSnippet    `json:"code_blocks"`
}

// Renderer converts markdown into interactive HTML.
type Renderer struct {
	md       goldmark.Markdown
	outlines *outline.Extractor
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	style    string
	outlines *outline.Extractor
}

// WithStyle selects the chroma highlighting style.
func WithStyle(style string) Option {
	return func(o *options) { o.style = style }
}

// WithOutlineExtractor shares an outline cache between renderers.
func WithOutlineExtractor(e *outline.Extractor) Option {
	return func(o *options) { o.outlines = e }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	o := options{style: DefaultStyle}
	for _, opt := range opts {
		opt(&o)
	}
	if o.style == "" {
		o.style = DefaultStyle
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(o.style),
				highlighting.WithWrapperRenderer(codeWrapper),
			),
			&interactive{},
		),
	)

	return &Renderer{md: md, outlines: o.outlines}
}

// Render parses doc and returns its HTML together with the outline, the
// checklist items and the code blocks it contains.
func (r *Renderer) Render(doc string) (*Result, error) {
	var buf bytes.Buffer
	pc := parser.NewContext()
	if err := r.md.Convert([]byte(doc), &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	snippets, _ := pc.Get(snippetsKey).([]CodeSnippet)
	if snippets == nil {
		snippets = []CodeSnippet{}
	}
	items := checklist.Scan(doc)
	if items == nil {
		items = []checklist.Item{}
	}

	return &Result{
		HTML:       buf.String(),
		Outline:    r.outlines.Extract(doc),
		Checklist:  items,
		CodeBlocks: snippets,
	}, nil
}
