package mock

import (
	"context"
	"io"

	"github.com/fwojciec/ftml"
)

var (
	_ ftml.Extractor         = (*Extractor)(nil)
	_ ftml.MetadataExtractor = (*MetadataExtractor)(nil)
	_ ftml.Harvester         = (*Harvester)(nil)
)

// Extractor is a mock implementation of ftml.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, uri ftml.DocumentURI, html string) (*ftml.Result, error)
}

func (e *Extractor) Extract(ctx context.Context, uri ftml.DocumentURI, html string) (*ftml.Result, error) {
	return e.ExtractFn(ctx, uri, html)
}

// MetadataExtractor is a mock implementation of ftml.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(html string) (*ftml.Metadata, error)
}

func (e *MetadataExtractor) ExtractMetadata(html string) (*ftml.Metadata, error) {
	return e.ExtractMetadataFn(html)
}

// Harvester is a mock implementation of ftml.Harvester.
type Harvester struct {
	HarvestFn func(w io.Writer, results ...*ftml.Result) error
}

func (h *Harvester) Harvest(w io.Writer, results ...*ftml.Result) error {
	return h.HarvestFn(w, results...)
}
