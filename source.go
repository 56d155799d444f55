package ftml

import "context"

// Source is one document file of an archive.
type Source struct {
	URI  DocumentURI
	Path string
}

// SourceReader reads the HTML of document sources.
type SourceReader interface {
	// ReadSource returns the content of src.
	// Returns ENOTFOUND if the source does not exist.
	ReadSource(ctx context.Context, src Source) (string, error)
}

// ResultWriter writes the outputs of one extraction.
type ResultWriter interface {
	WriteResult(ctx context.Context, res *Result) error
}
