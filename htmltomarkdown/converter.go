// Package htmltomarkdown converts Sitefinity rich-text fields to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sitefinity"
)

// Ensure Converter implements sitefinity.Converter at compile time.
var _ sitefinity.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML fields to Markdown.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*options)

type options struct {
	domain string
}

// WithDomain resolves relative links and image sources against domain,
// usually the site URL. Sitefinity stores library links as site-relative
// paths.
func WithDomain(domain string) Option {
	return func(o *options) {
		o.domain = domain
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv, domain: o.domain}
}

// Convert transforms an HTML fragment into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sitefinity.Errorf(sitefinity.EINVALID, "empty HTML input")
	}

	var result string
	var err error
	if c.domain != "" {
		result, err = c.conv.ConvertString(html, converter.WithDomain(c.domain))
	} else {
		result, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", sitefinity.Errorf(sitefinity.ETRANSFORM, "converting HTML to markdown: %v", err)
	}

	return strings.TrimSpace(result), nil
}
