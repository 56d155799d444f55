package main

import (
	"fmt"

	"github.com/fwojciec/ftml"
)

// Run executes the modules command.
func (c *ModulesCmd) Run(deps *Dependencies) error {
	filter := ftml.ModuleFilter{Limit: c.Limit}
	if c.Archive != "" {
		filter.Archive = &c.Archive
	}
	if c.Document != "" {
		doc, err := ftml.ParseDocumentURI(c.Document)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
			return err
		}
		filter.Document = &doc
	}

	modules, err := deps.Modules.FindModules(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}

	if len(modules) == 0 {
		fmt.Fprintln(deps.Stdout, "No modules found. Use 'ftml build' to extract an archive.")
		return nil
	}

	for _, m := range modules {
		var symbols int
		ftml.WalkDeclarations(m.Declarations, func(d ftml.Declaration) {
			if _, ok := d.(*ftml.Symbol); ok {
				symbols++
			}
		})
		fmt.Fprintf(deps.Stdout, "%s  %d declarations  %d symbols\n", m.URI, len(m.Declarations), symbols)
	}

	return nil
}
