package ftml

import "strings"

// Document is the narrative tree of one extracted document.
type Document struct {
	URI      DocumentURI
	Title    string
	Elements []DocumentElement
}

// DocumentElement is a node of the narrative tree.
type DocumentElement interface {
	isDocumentElement()
}

// Parent is implemented by document elements with children.
type Parent interface {
	DocumentElement
	ChildElements() []DocumentElement
}

// SetSectionLevel adjusts the level of the next sections.
type SetSectionLevel struct {
	Level SectionLevel
}

// ImportModule records a module import in the narrative.
type ImportModule struct {
	Module ModuleURI
}

// UseModule records a module that is used but not imported.
type UseModule struct {
	Module ModuleURI
}

// SkipSection groups the elements of a section that is left out of the
// section numbering and the table of contents.
type SkipSection struct {
	Range    DocumentRange
	Children []DocumentElement
}

// ModuleElement is the narrative rendering of a module.
type ModuleElement struct {
	Range    DocumentRange
	Module   ModuleURI
	Children []DocumentElement
}

// StructureElement is the narrative rendering of a mathematical structure.
type StructureElement struct {
	Range     DocumentRange
	Structure SymbolURI
	Children  []DocumentElement
}

// ExtensionElement is the narrative rendering of a structure extension.
type ExtensionElement struct {
	Range     DocumentRange
	Extension SymbolURI
	Target    SymbolURI
	Children  []DocumentElement
}

// MorphismElement is the narrative rendering of a morphism.
type MorphismElement struct {
	Range    DocumentRange
	Morphism SymbolURI
	Domain   ModuleURI
	Total    bool
	Children []DocumentElement
}

// Section is a titled, levelled part of a document.
type Section struct {
	Range    DocumentRange
	URI      DocumentElementURI
	Level    SectionLevel
	Title    *DocumentRange
	Children []DocumentElement
}

// ParagraphFor is a symbol a paragraph talks about, with the definiens
// given for it, if any.
type ParagraphFor struct {
	Symbol    ContentURI
	Definiens Term
}

// Paragraph is a logical paragraph: a definition, assertion, proof, etc.
type Paragraph struct {
	Range    DocumentRange
	URI      DocumentElementURI
	Kind     ParagraphKind
	Inline   bool
	Styles   []string
	Fors     []ParagraphFor
	Title    *DocumentRange
	Children []DocumentElement
}

// Exercise is a problem with its solutions, hints and grading notes.
type Exercise struct {
	Range         DocumentRange
	URI           DocumentElementURI
	SubExercise   bool
	Autogradable  bool
	Points        *float32
	Styles        []string
	Solutions     *LazyRef
	Hints         []DocumentRange
	Notes         []LazyRef
	GradingNotes  []LazyRef
	Title         *DocumentRange
	Preconditions []CognitiveObjective
	Objectives    []CognitiveObjective
	Children      []DocumentElement
}

// CognitiveObjective pairs a symbol with the cognitive dimension it is
// required or taught at.
type CognitiveObjective struct {
	Dimension CognitiveDimension
	Symbol    SymbolURI
}

// SymbolDeclaration marks where a symbol is declared.
type SymbolDeclaration struct {
	Symbol SymbolURI
}

// Variable is a variable declaration in the narrative.
type Variable struct {
	URI        DocumentElementURI
	Arity      ArgSpec
	Macroname  string
	Role       []string
	Type       Term
	Definiens  Term
	Bind       bool
	IsSequence bool
	AssocType  AssocType
	Reordering string
}

// NotationElement declares a notation for a symbol.
type NotationElement struct {
	Symbol   SymbolURI
	ID       DocumentElementURI
	Notation LazyRef
}

// VariableNotation declares a notation for a variable.
type VariableNotation struct {
	Variable DocumentElementURI
	ID       DocumentElementURI
	Notation LazyRef
}

// Definiendum marks the occurrence of a symbol being defined.
type Definiendum struct {
	Range  DocumentRange
	Symbol SymbolURI
}

// TopTerm is a term that occurs in running text rather than inside another
// construct.
type TopTerm struct {
	URI  DocumentElementURI
	Term Term
}

// DocumentReference includes another document.
type DocumentReference struct {
	ID     DocumentElementURI
	Range  DocumentRange
	Target DocumentURI
}

func (*SetSectionLevel) isDocumentElement()   {}
func (*ImportModule) isDocumentElement()      {}
func (*UseModule) isDocumentElement()         {}
func (*SkipSection) isDocumentElement()       {}
func (*ModuleElement) isDocumentElement()     {}
func (*StructureElement) isDocumentElement()  {}
func (*ExtensionElement) isDocumentElement()  {}
func (*MorphismElement) isDocumentElement()   {}
func (*Section) isDocumentElement()           {}
func (*Paragraph) isDocumentElement()         {}
func (*Exercise) isDocumentElement()          {}
func (*SymbolDeclaration) isDocumentElement() {}
func (*Variable) isDocumentElement()          {}
func (*NotationElement) isDocumentElement()   {}
func (*VariableNotation) isDocumentElement()  {}
func (*Definiendum) isDocumentElement()       {}
func (*TopTerm) isDocumentElement()           {}
func (*DocumentReference) isDocumentElement() {}

func (e *SkipSection) ChildElements() []DocumentElement      { return e.Children }
func (e *ModuleElement) ChildElements() []DocumentElement    { return e.Children }
func (e *StructureElement) ChildElements() []DocumentElement { return e.Children }
func (e *ExtensionElement) ChildElements() []DocumentElement { return e.Children }
func (e *MorphismElement) ChildElements() []DocumentElement  { return e.Children }
func (e *Section) ChildElements() []DocumentElement          { return e.Children }
func (e *Paragraph) ChildElements() []DocumentElement        { return e.Children }
func (e *Exercise) ChildElements() []DocumentElement         { return e.Children }

// Walk calls fn for every element of elems and their descendants in
// document order. Returning false from fn skips the element's children.
func Walk(elems []DocumentElement, fn func(DocumentElement) bool) {
	for _, e := range elems {
		if !fn(e) {
			continue
		}
		if p, ok := e.(Parent); ok {
			Walk(p.ChildElements(), fn)
		}
	}
}

// SectionLevel is the depth of a section, from part to subparagraph.
type SectionLevel uint8

// Section levels.
const (
	LevelPart SectionLevel = iota
	LevelChapter
	LevelSection
	LevelSubsection
	LevelSubsubsection
	LevelParagraph
	LevelSubparagraph
)

var sectionLevelNames = [...]string{
	"part", "chapter", "section", "subsection", "subsubsection", "paragraph", "subparagraph",
}

// ParseSectionLevel parses a section level number between 0 and 6.
func ParseSectionLevel(s string) (SectionLevel, error) {
	n, err := parseUint8(s)
	if err != nil || int(n) >= len(sectionLevelNames) {
		return 0, Errorf(EINVALID, "invalid section level %q", s)
	}
	return SectionLevel(n), nil
}

func (l SectionLevel) String() string {
	if int(l) < len(sectionLevelNames) {
		return sectionLevelNames[l]
	}
	return "section"
}

// ParagraphKind is the kind of a logical paragraph.
type ParagraphKind uint8

// Paragraph kinds.
const (
	KindDefinition ParagraphKind = iota
	KindAssertion
	KindParagraph
	KindProof
	KindSubProof
	KindExample
)

var paragraphKindNames = [...]string{
	"definition", "assertion", "paragraph", "proof", "subproof", "example",
}

func (k ParagraphKind) String() string {
	if int(k) < len(paragraphKindNames) {
		return paragraphKindNames[k]
	}
	return "paragraph"
}

// IsDefinitionLike reports whether a paragraph of kind k with the given
// styles defines the symbols it is for.
func (k ParagraphKind) IsDefinitionLike(styles []string) bool {
	if k == KindDefinition || k == KindAssertion {
		return true
	}
	for _, s := range styles {
		if s == "symdoc" || s == "decl" {
			return true
		}
	}
	return false
}

// RDFType returns the ULO class of the paragraph kind.
func (k ParagraphKind) RDFType() string {
	switch k {
	case KindDefinition:
		return ULO + "definition"
	case KindAssertion:
		return ULO + "proposition"
	case KindProof:
		return ULO + "proof"
	case KindSubProof:
		return ULO + "subproof"
	case KindExample:
		return ULO + "example"
	}
	return ULO + "para"
}

// CognitiveDimension is a level of Bloom's taxonomy.
type CognitiveDimension uint8

// Cognitive dimensions.
const (
	Remember CognitiveDimension = iota
	Understand
	Apply
	Analyze
	Evaluate
	Create
)

var dimensionNames = [...]string{"remember", "understand", "apply", "analyze", "evaluate", "create"}

// ParseCognitiveDimension parses a dimension name.
func ParseCognitiveDimension(s string) (CognitiveDimension, error) {
	if s == "analyse" {
		return Analyze, nil
	}
	for i, n := range dimensionNames {
		if strings.EqualFold(n, s) {
			return CognitiveDimension(i), nil
		}
	}
	return 0, Errorf(EINVALID, "invalid cognitive dimension %q", s)
}

func (d CognitiveDimension) String() string {
	if int(d) < len(dimensionNames) {
		return dimensionNames[d]
	}
	return "remember"
}

// IRI returns the ULO node of the dimension.
func (d CognitiveDimension) IRI() string {
	return ULO + d.String()
}
