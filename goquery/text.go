// Package goquery extracts plain text from Sitefinity rich-text fields.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitefinity"
)

// Ensure TextConverter implements sitefinity.Converter at compile time.
var _ sitefinity.Converter = (*TextConverter)(nil)

// blockSelector matches elements that end a line of text.
const blockSelector = "p, div, li, h1, h2, h3, h4, h5, h6, blockquote, pre, tr, dt, dd, figcaption, section, article"

// TextConverter reduces an HTML fragment to readable plain text: one line
// per block element, whitespace collapsed, scripts and styles dropped.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert extracts the text of an HTML fragment.
func (c *TextConverter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sitefinity.Errorf(sitefinity.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", sitefinity.Errorf(sitefinity.ETRANSFORM, "failed to parse HTML: %v", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
