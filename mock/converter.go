package mock

import "github.com/fwojciec/ftml"

var (
	_ ftml.Converter     = (*Converter)(nil)
	_ ftml.TextExtractor = (*TextExtractor)(nil)
)

// Converter is a mock implementation of ftml.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// TextExtractor is a mock implementation of ftml.TextExtractor.
type TextExtractor struct {
	TextFn func(html string) (string, error)
}

func (t *TextExtractor) Text(html string) (string, error) {
	return t.TextFn(html)
}
