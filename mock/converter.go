package mock

import "github.com/fwojciec/sitefinity"

var _ sitefinity.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitefinity.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
