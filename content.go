package ftml

// Module is a finished top-level module of the content tree.
type Module struct {
	URI          ModuleURI
	Meta         *ModuleURI
	Signature    Language
	Declarations []Declaration
}

// Declaration is a member of a module, structure or morphism.
type Declaration interface {
	isDeclaration()
}

// Symbol declares a symbol.
type Symbol struct {
	URI        SymbolURI
	Arity      ArgSpec
	Macroname  string
	Role       []string
	Type       Term
	Definiens  Term
	AssocType  AssocType
	Reordering string
}

// Import includes all declarations of Module.
type Import struct {
	Module ModuleURI
}

// NestedModule is a module declared inside another.
type NestedModule struct {
	URI          SymbolURI
	Declarations []Declaration
}

// MathStructure is a record-like structure declared as a symbol.
type MathStructure struct {
	URI          SymbolURI
	Macroname    string
	Declarations []Declaration
}

// Extension adds declarations to an existing structure.
type Extension struct {
	URI          SymbolURI
	Target       SymbolURI
	Declarations []Declaration
}

// Morphism maps the symbols of Domain into the enclosing module.
type Morphism struct {
	URI          SymbolURI
	Domain       ModuleURI
	Total        bool
	Declarations []Declaration
}

// Assignment gives a morphism's image of a symbol of its domain.
type Assignment struct {
	Symbol    SymbolURI
	Definiens Term
}

func (*Symbol) isDeclaration()        {}
func (*Import) isDeclaration()        {}
func (*NestedModule) isDeclaration()  {}
func (*MathStructure) isDeclaration() {}
func (*Extension) isDeclaration()     {}
func (*Morphism) isDeclaration()      {}
func (*Assignment) isDeclaration()    {}

// WalkDeclarations calls fn for every declaration in decls and in the
// declarations nested in them.
func WalkDeclarations(decls []Declaration, fn func(Declaration)) {
	for _, d := range decls {
		fn(d)
		switch d := d.(type) {
		case *NestedModule:
			WalkDeclarations(d.Declarations, fn)
		case *MathStructure:
			WalkDeclarations(d.Declarations, fn)
		case *Extension:
			WalkDeclarations(d.Declarations, fn)
		case *Morphism:
			WalkDeclarations(d.Declarations, fn)
		}
	}
}

// AssocType describes how a symbol associates over its sequence arguments.
type AssocType uint8

// Associativity types. AssocNone means the symbol is not associative.
const (
	AssocNone AssocType = iota
	AssocLeftBinary
	AssocRightBinary
	AssocConjunctive
	AssocPairwiseConjunctive
	AssocPrenex
)

// ParseAssocType parses an associativity marker.
func ParseAssocType(s string) (AssocType, error) {
	switch s {
	case "binl", "bin":
		return AssocLeftBinary, nil
	case "binr":
		return AssocRightBinary, nil
	case "conj":
		return AssocConjunctive, nil
	case "pwconj":
		return AssocPairwiseConjunctive, nil
	case "pre":
		return AssocPrenex, nil
	}
	return AssocNone, Errorf(EINVALID, "invalid associativity %q", s)
}

func (a AssocType) String() string {
	switch a {
	case AssocLeftBinary:
		return "binl"
	case AssocRightBinary:
		return "binr"
	case AssocConjunctive:
		return "conj"
	case AssocPairwiseConjunctive:
		return "pwconj"
	case AssocPrenex:
		return "pre"
	}
	return ""
}
