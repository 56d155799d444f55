// Package rdf serializes extracted triples as N-Triples or Turtle using
// github.com/knakk/rdf.
package rdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/ftml"
	"github.com/knakk/rdf"
)

// Ensure Encoder implements ftml.TripleEncoder at compile time.
var _ ftml.TripleEncoder = (*Encoder)(nil)

// Prefixes used for Turtle output.
var namespaces = map[string]string{
	ftml.ULO:  "ulo",
	ftml.DC:   "dc",
	ftml.RDF:  "rdf",
	ftml.RDFS: "rdfs",
}

// Encoder writes triple batches in one serialization format.
type Encoder struct {
	format rdf.Format
}

// NewEncoder returns an Encoder for the named format: "nt" (or "ntriples")
// and "ttl" (or "turtle").
func NewEncoder(format string) (*Encoder, error) {
	switch strings.ToLower(format) {
	case "", "nt", "ntriples", "n-triples":
		return &Encoder{format: rdf.NTriples}, nil
	case "ttl", "turtle":
		return &Encoder{format: rdf.Turtle}, nil
	}
	return nil, ftml.Errorf(ftml.EINVALID, "unsupported rdf format %q", format)
}

// Encode writes triples to w.
func (e *Encoder) Encode(w io.Writer, triples []ftml.Triple) error {
	enc := rdf.NewTripleEncoder(w, e.format)
	if e.format == rdf.Turtle {
		enc.Namespaces = namespaces
	}
	for _, t := range triples {
		rt, err := Triple(t)
		if err != nil {
			return err
		}
		if err := enc.Encode(rt); err != nil {
			return fmt.Errorf("encode triple: %w", err)
		}
	}
	return enc.Close()
}

// Triple converts t to its knakk/rdf representation.
func Triple(t ftml.Triple) (rdf.Triple, error) {
	if t.Subject.Kind == ftml.LiteralNode {
		return rdf.Triple{}, ftml.Errorf(ftml.EINVALID, "invalid triple subject %s", t.Subject)
	}
	subj, err := term(t.Subject)
	if err != nil {
		return rdf.Triple{}, err
	}
	s, ok := subj.(rdf.Subject)
	if !ok {
		return rdf.Triple{}, ftml.Errorf(ftml.EINVALID, "invalid triple subject %s", t.Subject)
	}
	if t.Predicate.Kind != ftml.IRINode {
		return rdf.Triple{}, ftml.Errorf(ftml.EINVALID, "invalid triple predicate %s", t.Predicate)
	}
	p, err := rdf.NewIRI(t.Predicate.Value)
	if err != nil {
		return rdf.Triple{}, ftml.Errorf(ftml.EINVALID, "invalid predicate iri %q", t.Predicate.Value)
	}
	obj, err := term(t.Object)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subj: s, Pred: p, Obj: obj}, nil
}

func term(n ftml.Node) (rdf.Object, error) {
	switch n.Kind {
	case ftml.IRINode:
		iri, err := rdf.NewIRI(n.Value)
		if err != nil {
			return nil, ftml.Errorf(ftml.EINVALID, "invalid iri %q", n.Value)
		}
		return iri, nil
	case ftml.BlankNode:
		b, err := rdf.NewBlank(n.Value)
		if err != nil {
			return nil, ftml.Errorf(ftml.EINVALID, "invalid blank node %q", n.Value)
		}
		return b, nil
	}
	var (
		lit rdf.Literal
		err error
	)
	if n.Lang != "" {
		lit, err = rdf.NewLangLiteral(n.Value, n.Lang)
	} else {
		lit, err = rdf.NewLiteral(n.Value)
	}
	if err != nil {
		return nil, ftml.Errorf(ftml.EINVALID, "invalid literal %q", n.Value)
	}
	return lit, nil
}
