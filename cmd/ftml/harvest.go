package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/fs"
)

// Run executes the harvest command.
func (c *HarvestCmd) Run(deps *Dependencies, cli *CLI) error {
	results, err := extractPaths(deps, c.Paths, cli.Archive(c.Archive))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}

	if c.Out == "" {
		return deps.Harvester.Harvest(deps.Stdout, results...)
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	if err := deps.Harvester.Harvest(f, results...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Harvested %d documents into %s\n", len(results), c.Out)
	return nil
}

// extractPaths extracts every HTML file named by paths. Directories are
// archive roots; files are documents at the root of their directory.
// Documents that fail are reported and left out.
func extractPaths(deps *Dependencies, paths []string, archive ftml.ArchiveURI) ([]*ftml.Result, error) {
	var sources []ftml.Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, ftml.Errorf(ftml.ENOTFOUND, "%s not found", p)
		}
		if info.IsDir() {
			srcs, err := fs.Sources(p, archive)
			if err != nil {
				return nil, err
			}
			sources = append(sources, srcs...)
			if deps.Roots != nil {
				deps.Roots[p] = archive
			}
			continue
		}
		src, err := source(filepath.Dir(p), p, archive)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	var results []*ftml.Result
	for _, src := range sources {
		if err := deps.Ctx.Err(); err != nil {
			return nil, err
		}
		res, err := extractSource(deps, src)
		if res == nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", src.Path, err)
			continue
		}
		results = append(results, res)
	}
	return results, nil
}
