package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/fs"
	"github.com/fwojciec/ftml/rdf"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies, cli *CLI) error {
	root := c.Root
	if root == "" {
		root = filepath.Dir(c.File)
	}
	src, err := source(root, c.File, cli.Archive(c.Archive))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}
	if deps.Roots != nil {
		deps.Roots[root] = src.URI.Archive
	}

	res, err := extractSource(deps, src)
	if res == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintln(deps.Stderr, d.String())
	}

	switch c.Format {
	case "html":
		_, werr := fmt.Fprint(deps.Stdout, res.HTML)
		if werr != nil {
			return werr
		}
	case "nt", "ttl":
		enc, werr := rdf.NewEncoder(c.Format)
		if werr != nil {
			return werr
		}
		if werr := enc.Encode(deps.Stdout, res.Triples); werr != nil {
			return werr
		}
	default:
		out := json.NewEncoder(deps.Stdout)
		out.SetIndent("", "  ")
		if werr := out.Encode(fs.NewSummary(res)); werr != nil {
			return werr
		}
	}
	return err
}

// source maps the file at path to a document of archive rooted at root.
func source(root, path string, archive ftml.ArchiveURI) (ftml.Source, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ftml.Source{}, ftml.Errorf(ftml.EINVALID, "%s is not inside %s", path, root)
	}
	uri, err := fs.DocumentURI(archive, filepath.ToSlash(rel))
	if err != nil {
		return ftml.Source{}, err
	}
	return ftml.Source{URI: uri, Path: path}, nil
}

// extractSource reads and extracts one source.
func extractSource(deps *Dependencies, src ftml.Source) (*ftml.Result, error) {
	html, err := fs.Reader{}.ReadSource(deps.Ctx, src)
	if err != nil {
		return nil, err
	}
	return deps.Extractor.Extract(deps.Ctx, src.URI, html)
}
