package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTML extracts the visible text of a saved web page, one block per line.
type HTML struct{}

func (HTML) Extract(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var lines []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre, td").Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
	}
	return strings.Join(lines, "\n"), nil
}
