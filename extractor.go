package ftml

import (
	"context"
	"io"
)

// Extractor extracts the semantic structure of one FTML document.
type Extractor interface {
	// Extract parses html as the document identified by uri.
	// Problems in the markup are reported as Result.Diagnostics; the
	// returned error is only set when no result could be produced at all
	// or the document was structurally unbalanced (EINTERNAL, with a
	// best-effort result).
	Extract(ctx context.Context, uri DocumentURI, html string) (*Result, error)
}

// Backend gives an extraction run read access to archives and to modules
// extracted earlier. Implementations must be safe for concurrent use.
type Backend interface {
	// ArchiveOf returns the archive containing the file at path and the
	// path relative to the archive root.
	// Returns ENOTFOUND if path is not in a known archive.
	ArchiveOf(ctx context.Context, path string) (ArchiveURI, string, error)

	// FindModule retrieves a previously extracted module.
	// Returns ENOTFOUND if the module is unknown.
	FindModule(ctx context.Context, uri ModuleURI) (*Module, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown.
	Convert(html string) (string, error)
}

// TextExtractor extracts the plain text of an HTML fragment.
type TextExtractor interface {
	Text(html string) (string, error)
}

// Metadata holds descriptive data found in a document's markup.
type Metadata struct {
	Title       string
	Description string
}

// MetadataExtractor reads metadata from a full HTML page. It is used for
// titles of documents that carry no doctitle annotation.
type MetadataExtractor interface {
	ExtractMetadata(html string) (*Metadata, error)
}

// Harvester writes formula search indexes.
type Harvester interface {
	// Harvest writes one harvest document covering the top-level terms
	// of all results.
	Harvest(w io.Writer, results ...*Result) error
}
