package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/expr"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies, cli *CLI) error {
	filter, err := expr.NewFilter(c.Where)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}

	results, err := extractPaths(deps, c.Paths, cli.Archive(c.Archive))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}

	out := json.NewEncoder(deps.Stdout)
	for _, res := range results {
		entries, err := ftml.SearchEntries(res, deps.Converter, deps.Texter)
		if err != nil {
			return err
		}
		for _, e := range entries {
			ok, err := filter.Match(e)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := out.Encode(e); err != nil {
				return err
			}
		}
	}
	return nil
}
