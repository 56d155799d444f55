// Package readability reads page titles with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/ftml"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements ftml.MetadataExtractor at compile time.
var _ ftml.MetadataExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to read the metadata of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractMetadata returns the title and excerpt readability finds in html.
func (e *Extractor) ExtractMetadata(html string) (*ftml.Metadata, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ftml.Errorf(ftml.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return nil, err
	}

	return &ftml.Metadata{
		Title:       strings.TrimSpace(article.Title),
		Description: strings.TrimSpace(article.Excerpt),
	}, nil
}
