package main

import (
	"fmt"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/rdf"
)

// Run executes the triples command.
func (c *TriplesCmd) Run(deps *Dependencies) error {
	doc, err := ftml.ParseDocumentURI(c.Document)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}

	enc, err := rdf.NewEncoder(c.Format)
	if err != nil {
		return err
	}

	if _, err := deps.Documents.FindDocument(deps.Ctx, doc); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}

	triples, err := deps.Triples.FindTriples(deps.Ctx, ftml.TripleFilter{Document: &doc})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ftml.ErrorMessage(err))
		return err
	}

	return enc.Encode(deps.Stdout, triples)
}
