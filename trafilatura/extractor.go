// Package trafilatura reads page metadata with go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/ftml"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements ftml.MetadataExtractor at compile time.
var _ ftml.MetadataExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to read the metadata of a page. Titles
// come from meta tags when present, falling back to the title element and
// the first heading.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractMetadata returns the metadata trafilatura finds in html.
func (e *Extractor) ExtractMetadata(html string) (*ftml.Metadata, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ftml.Errorf(ftml.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(html), opts)
	if err != nil {
		return nil, err
	}

	return &ftml.Metadata{
		Title:       strings.TrimSpace(result.Metadata.Title),
		Description: strings.TrimSpace(result.Metadata.Description),
	}, nil
}
