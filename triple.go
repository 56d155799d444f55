package ftml

import (
	"fmt"
	"io"
	"strings"
)

// RDF vocabularies used in extracted triples.
const (
	ULO  = "http://mathhub.info/ulo#"
	DC   = "http://purl.org/dc/elements/1.1/"
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
)

// Predicates and classes.
const (
	RDFType    = RDF + "type"
	RDFSDomain = RDFS + "domain"

	DCLanguage = DC + "language"
	DCHasPart  = DC + "hasPart"
	DCRequires = DC + "requires"

	ULODocument    = ULO + "document"
	ULOTheory      = ULO + "theory"
	ULOStructure   = ULO + "structure"
	ULOMorphism    = ULO + "morphism"
	ULODeclaration = ULO + "declaration"
	ULOVariable    = ULO + "variable"
	ULONotation    = ULO + "notation"
	ULOProblem     = ULO + "problem"
	ULOSubproblem  = ULO + "subproblem"
	ULOSection     = ULO + "section"

	ULOContains     = ULO + "contains"
	ULODeclares     = ULO + "declares"
	ULOImports      = ULO + "imports"
	ULOExtends      = ULO + "extends"
	ULOCrossrefs    = ULO + "crossrefs"
	ULONotationFor  = ULO + "notation-for"
	ULODefines      = ULO + "defines"
	ULOExampleFor   = ULO + "example-for"
	ULOPrecondition = ULO + "precondition"
	ULOObjective    = ULO + "objective"
	ULOCogDim       = ULO + "cognitive-dimension"
	ULOPOSymbol     = ULO + "po-symbol"
)

// NodeKind is the kind of an RDF node.
type NodeKind uint8

// Node kinds.
const (
	IRINode NodeKind = iota
	BlankNode
	LiteralNode
)

// Node is an RDF term. Lang is only set for language-tagged literals.
type Node struct {
	Kind  NodeKind
	Value string
	Lang  string
}

// IRI returns a named node for s with characters that are not allowed in
// IRIs percent-escaped.
func IRI(s string) Node {
	return Node{Kind: IRINode, Value: EscapeIRI(s)}
}

// Blank returns a blank node with the given label.
func Blank(label string) Node {
	return Node{Kind: BlankNode, Value: label}
}

// Literal returns a plain literal.
func Literal(s string) Node {
	return Node{Kind: LiteralNode, Value: s}
}

func (n Node) String() string {
	switch n.Kind {
	case BlankNode:
		return "_:" + n.Value
	case LiteralNode:
		if n.Lang != "" {
			return fmt.Sprintf("%q@%s", n.Value, n.Lang)
		}
		return fmt.Sprintf("%q", n.Value)
	}
	return "<" + n.Value + ">"
}

// Triple is an RDF statement.
type Triple struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// NewTriple returns a triple between two IRIs.
func NewTriple(subject, predicate, object string) Triple {
	return Triple{Subject: IRI(subject), Predicate: IRI(predicate), Object: IRI(object)}
}

func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// TripleFilter narrows FindTriples.
type TripleFilter struct {
	Document  *DocumentURI
	Subject   *string
	Predicate *string
	Object    *string
	Limit     int
}

// EscapeIRI percent-encodes spaces, controls and the characters IRIs may not
// contain verbatim.
func EscapeIRI(s string) string {
	if !strings.ContainsFunc(s, needsEscape) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 && needsEscape(rune(c)) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func needsEscape(r rune) bool {
	return r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r)
}

// TripleEncoder serializes a triple batch.
type TripleEncoder interface {
	Encode(w io.Writer, triples []Triple) error
}
