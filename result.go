package ftml

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// DocumentRange is a byte range [Start, End) of the reconstructed HTML.
type DocumentRange struct {
	Start int
	End   int
}

// Len returns the length of the range.
func (r DocumentRange) Len() int { return r.End - r.Start }

// Slice returns the part of html covered by r, clamped to html.
func (r DocumentRange) Slice(html string) string {
	start, end := max(r.Start, 0), min(r.End, len(html))
	if start >= end {
		return ""
	}
	return html[start:end]
}

// CSS is a stylesheet referenced or embedded by a document.
type CSS struct {
	Link   string
	Inline string
}

// LazyRef points at one encoded value in Result.Resources.
type LazyRef struct {
	Start int
	End   int
}

// SolutionData is one solution of an exercise.
type SolutionData struct {
	HTML        string
	AnswerClass string
}

// Solutions is the resource holding all solutions of an exercise.
type Solutions struct {
	Solutions []SolutionData
}

// GradingNote is a grading note of an exercise.
type GradingNote struct {
	HTML          string
	AnswerClasses []string
}

// Result is the output of extracting one document.
type Result struct {
	Document        Document
	HTML            string
	CSS             []CSS
	Body            DocumentRange
	BodyInnerOffset int
	Resources       []byte
	Modules         []*Module
	Triples         []Triple
	Diagnostics     []Diagnostic
	Hash            string
}

// Errors returns the diagnostics of error severity.
func (r *Result) Errors() []Diagnostic {
	var a []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			a = append(a, d)
		}
	}
	return a
}

// BodyHTML returns the inner HTML of the document body.
func (r *Result) BodyHTML() string {
	inner := DocumentRange{Start: r.Body.Start + r.BodyInnerOffset, End: r.Body.End}
	if r.Body.Len() > 0 && r.BodyInnerOffset > 0 {
		// Strip the closing </body> tag.
		inner.End -= len("</body>")
	}
	return inner.Slice(r.HTML)
}

func init() {
	gob.Register(ModuleURI{})
	gob.Register(SymbolURI{})

	gob.Register(&Symref{})
	gob.Register(&Varref{})
	gob.Register(&Application{})
	gob.Register(&OML{})
	gob.Register(&Field{})
	gob.Register(&Informal{})
	gob.Register(InformalText(""))
	gob.Register(InformalTerm(0))
	gob.Register(&InformalElement{})

	gob.Register(&Symbol{})
	gob.Register(&Import{})
	gob.Register(&NestedModule{})
	gob.Register(&MathStructure{})
	gob.Register(&Extension{})
	gob.Register(&Morphism{})
	gob.Register(&Assignment{})

	gob.Register(&SetSectionLevel{})
	gob.Register(&ImportModule{})
	gob.Register(&UseModule{})
	gob.Register(&SkipSection{})
	gob.Register(&ModuleElement{})
	gob.Register(&StructureElement{})
	gob.Register(&ExtensionElement{})
	gob.Register(&MorphismElement{})
	gob.Register(&Section{})
	gob.Register(&Paragraph{})
	gob.Register(&Exercise{})
	gob.Register(&SymbolDeclaration{})
	gob.Register(&Variable{})
	gob.Register(&NotationElement{})
	gob.Register(&VariableNotation{})
	gob.Register(&Definiendum{})
	gob.Register(&TopTerm{})
	gob.Register(&DocumentReference{})
}

// EncodeResource appends the encoding of v to buf and returns a reference
// to it.
func EncodeResource(buf *bytes.Buffer, v any) (LazyRef, error) {
	start := buf.Len()
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		buf.Truncate(start)
		return LazyRef{}, fmt.Errorf("encode resource: %w", err)
	}
	return LazyRef{Start: start, End: buf.Len()}, nil
}

// DecodeResource decodes the value ref points at.
func DecodeResource[T any](resources []byte, ref LazyRef) (T, error) {
	var v T
	if ref.Start < 0 || ref.End > len(resources) || ref.Start > ref.End {
		return v, Errorf(EINVALID, "resource reference %d-%d out of range", ref.Start, ref.End)
	}
	if err := gob.NewDecoder(bytes.NewReader(resources[ref.Start:ref.End])).Decode(&v); err != nil {
		return v, fmt.Errorf("decode resource: %w", err)
	}
	return v, nil
}

// EncodeModule encodes a module for storage.
func EncodeModule(m *Module) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("encode module: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeModule decodes a module encoded by EncodeModule.
func DecodeModule(data []byte) (*Module, error) {
	var m Module
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	return &m, nil
}

// EncodeDocument encodes a narrative document for storage.
func EncodeDocument(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDocument decodes a document encoded by EncodeDocument.
func DecodeDocument(data []byte) (*Document, error) {
	var d Document
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &d, nil
}
