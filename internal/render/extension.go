package render

import (
	"bytes"
	"html"
	"sort"
	"strconv"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/ziadkadry99/missionview/internal/checklist"
	"github.com/ziadkadry99/missionview/internal/outline"
)

const (
	attrChecklistIndex = "data-index"
	attrCopy           = "data-copy"
)

var snippetsKey = parser.NewContextKey()

// interactive is the goldmark extension adding heading anchors, checklist
// toggles and copy buttons.
type interactive struct{}

func (e *interactive) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&interactiveTransformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&interactiveRenderer{}, 100),
	))
}

type interactiveTransformer struct{}

func (t *interactiveTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()
	starts := lineStarts(src)
	items := checklist.LineIndex(string(src))
	var snippets []CodeSnippet

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level <= 2 {
				node.SetAttributeString("id", headingID(node, src, starts))
			}
		case *extast.TaskCheckBox:
			line, ok := nodeLine(node.Parent(), starts)
			if !ok {
				break
			}
			if idx, ok := items[line]; ok {
				node.SetAttributeString(attrChecklistIndex, strconv.Itoa(idx))
			}
		case *ast.FencedCodeBlock:
			content := blockContent(node, src)
			var lang string
			if l := node.Language(src); l != nil {
				lang = string(l)
			}
			node.SetAttributeString(attrCopy, CopyText(content))
			snippets = append(snippets, CodeSnippet{
				Index:    len(snippets),
				Language: lang,
				Kind:     ClassifyCode(HintBlock, content),
				Text:     CopyText(content),
			})
		case *ast.CodeBlock:
			content := blockContent(node, src)
			node.SetAttributeString(attrCopy, CopyText(content))
			snippets = append(snippets, CodeSnippet{
				Index: len(snippets),
				Kind:  ClassifyCode(HintBlock, content),
				Text:  CopyText(content),
			})
		}
		return ast.WalkContinue, nil
	})

	pc.Set(snippetsKey, snippets)
}

// headingID derives the anchor for a level 1 or 2 heading from its own source
// line, using the same matcher as the outline so both always agree. Headings
// the outline cannot see (setext, nested in containers) fall back to their
// rendered text.
func headingID(h *ast.Heading, src []byte, starts []int) string {
	if line, ok := nodeLine(h, starts); ok {
		raw := string(lineAt(src, starts, line))
		if level, txt, ok := outline.ParseHeadingLine(raw); ok && level == h.Level {
			return outline.Slug(txt)
		}
	}
	return outline.Slug(plainText(h, src))
}

// nodeLine returns the zero-based source line where block n starts.
func nodeLine(n ast.Node, starts []int) (int, bool) {
	if n == nil || n.Type() != ast.TypeBlock || n.Lines().Len() == 0 {
		return 0, false
	}
	offset := n.Lines().At(0).Start
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1, true
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineAt(src []byte, starts []int, line int) []byte {
	if line < 0 || line >= len(starts) {
		return nil
	}
	end := len(src)
	if line+1 < len(starts) {
		end = starts[line+1] - 1
	}
	return src[starts[line]:end]
}

func blockContent(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(plainText(c, src))
		}
	}
	return buf.String()
}

// interactiveRenderer overrides the GFM task checkbox and indented code block
// renderers. Fenced blocks go through goldmark-highlighting with codeWrapper.
type interactiveRenderer struct{}

func (r *interactiveRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(extast.KindTaskCheckBox, r.renderTaskCheckBox)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *interactiveRenderer) renderTaskCheckBox(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*extast.TaskCheckBox)

	checked := ""
	if n.IsChecked {
		checked = ` checked=""`
	}
	if idx, ok := n.AttributeString(attrChecklistIndex); ok {
		_, _ = w.WriteString(`<input type="checkbox" class="task-toggle" data-index="` + idx.(string) + `"` + checked + `> `)
	} else {
		_, _ = w.WriteString(`<input type="checkbox" disabled=""` + checked + `> `)
	}
	return ast.WalkContinue, nil
}

func (r *interactiveRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		copyText, _ := node.AttributeString(attrCopy)
		writeCodeOpen(w, copyText)
		_, _ = w.WriteString("<pre><code>")
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
		}
	} else {
		_, _ = w.WriteString("</code></pre>")
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}

// codeWrapper frames every fenced code block with a copy button. When the
// block was not highlighted the wrapper also owns the pre/code tags.
func codeWrapper(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		var copyText interface{}
		if attrs := c.Attributes(); attrs != nil {
			copyText, _ = attrs.GetString(attrCopy)
		}
		writeCodeOpen(w, copyText)
		if !c.Highlighted() {
			_, _ = w.WriteString("<pre><code")
			if lang, ok := c.Language(); ok {
				_, _ = w.WriteString(` class="language-` + html.EscapeString(string(lang)) + `"`)
			}
			_ = w.WriteByte('>')
		}
		return
	}
	if !c.Highlighted() {
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
}

func writeCodeOpen(w util.BufWriter, copyText interface{}) {
	_, _ = w.WriteString(`<div class="code-block">`)
	if s, ok := copyText.(string); ok {
		_, _ = w.WriteString(`<button type="button" class="copy-btn" data-copy="` + html.EscapeString(s) + `">Copy</button>`)
	}
}
