package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/build"
	"github.com/fwojciec/ftml/fs"
	"github.com/fwojciec/ftml/rdf"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies, cli *CLI) error {
	archive := cli.Archive(c.Archive)
	sources, err := fs.Sources(c.Dir, archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}
	if deps.Roots != nil {
		deps.Roots[c.Dir] = archive
	}

	b := &build.Builder{
		Sources:     fs.Reader{},
		Extractor:   deps.Extractor,
		Documents:   deps.Documents,
		Modules:     deps.Modules,
		Triples:     deps.Triples,
		Concurrency: c.Concurrency,
		Force:       c.Force,
	}

	var w *fs.Writer
	if c.Out != "" {
		enc, err := rdf.NewEncoder("nt")
		if err != nil {
			return err
		}
		w = fs.NewWriter(filepath.Dir(c.Out), filepath.Base(c.Out), enc)
		b.Writer = w
	}

	fmt.Fprintf(deps.Stdout, "Building %s (%s)\n", archive, c.Dir)
	progress := func(event build.ProgressEvent) {
		switch event.Type {
		case build.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d documents\n", event.Total)
		case build.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", build.TruncateURI(event.URI, 80), event.Error)
		}
	}

	result, err := b.Build(deps.Ctx, sources, progress)
	if err != nil {
		if w != nil {
			_ = w.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error building: %v\n", err)
		return err
	}
	if w != nil {
		if err := w.Commit(); err != nil {
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "  Built %d documents (%s), %d unchanged, %d failed, %d diagnostics [run %s]\n",
		result.Built, build.FormatBytes(result.Bytes), result.Skipped, result.Failed, result.Diagnostics, result.RunID)
	if result.Duplicates > 0 {
		fmt.Fprintf(deps.Stdout, "  Ignored %d duplicate documents\n", result.Duplicates)
	}
	return nil
}
