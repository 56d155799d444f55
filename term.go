package ftml

import (
	"strconv"
	"strings"
)

// Term is a structured mathematical expression reconstructed from markup.
type Term interface {
	isTerm()
}

// Symref refers to a symbol or module.
type Symref struct {
	URI      ContentURI
	Notation Name
}

// Varref refers to a variable, resolved to its declaration when one is
// in scope.
type Varref struct {
	Name        Name
	Declaration *DocumentElementURI
	IsSequence  bool
	Notation    Name
}

// Resolved reports whether the variable was matched to a declaration.
func (v *Varref) Resolved() bool { return v.Declaration != nil }

// Application applies Head to Args.
type Application struct {
	Head Term
	Args []Arg
}

// Arg is one argument of an Application.
type Arg struct {
	Term Term
	Mode ArgMode
}

// OML is a local variable with optional type and definiens.
type OML struct {
	Name      Name
	Type      Term
	Definiens Term
}

// Field is a projection of Key out of Record. Owner is the complex term the
// projection was written as, if any.
type Field struct {
	Record Term
	Key    Name
	Owner  Term
}

// Informal captures markup that carries no formal meaning. Subterms are
// lifted into Terms and referenced from Children by index.
type Informal struct {
	Tag        string
	Attributes []Attribute
	Children   []InformalChild
	Terms      []Term
}

func (*Symref) isTerm()      {}
func (*Varref) isTerm()      {}
func (*Application) isTerm() {}
func (*OML) isTerm()         {}
func (*Field) isTerm()       {}
func (*Informal) isTerm()    {}

// Attribute is a single key/value attribute of an HTML element.
type Attribute struct {
	Key   string
	Value string
}

// InformalChild is a child of an Informal term or element.
type InformalChild interface {
	isInformal()
}

// InformalText is literal text.
type InformalText string

// InformalTerm references Informal.Terms by index.
type InformalTerm int

// InformalElement is nested markup.
type InformalElement struct {
	Tag        string
	Attributes []Attribute
	Children   []InformalChild
}

func (InformalText) isInformal()     {}
func (InformalTerm) isInformal()     {}
func (*InformalElement) isInformal() {}

// ArgMode says how an argument position is filled.
type ArgMode byte

// Argument modes, written as their single-letter markers.
const (
	ArgNormal          ArgMode = 'i'
	ArgSequence        ArgMode = 'a'
	ArgBinding         ArgMode = 'b'
	ArgBindingSequence ArgMode = 'B'
)

// ParseArgMode parses an argument mode marker. The empty string is normal.
func ParseArgMode(s string) (ArgMode, error) {
	switch s {
	case "", "i":
		return ArgNormal, nil
	case "a":
		return ArgSequence, nil
	case "b":
		return ArgBinding, nil
	case "B":
		return ArgBindingSequence, nil
	}
	return 0, Errorf(EINVALID, "invalid argument mode %q", s)
}

// IsSequence reports whether the mode takes a list of terms.
func (m ArgMode) IsSequence() bool {
	return m == ArgSequence || m == ArgBindingSequence
}

// IsBinding reports whether the mode binds variables.
func (m ArgMode) IsBinding() bool {
	return m == ArgBinding || m == ArgBindingSequence
}

func (m ArgMode) String() string { return string(rune(m)) }

// ArgSpec is the argument signature of a symbol.
type ArgSpec []ArgMode

// ParseArgSpec parses either an arity ("3") or a mode string ("iab").
func ParseArgSpec(s string) (ArgSpec, error) {
	if s == "" {
		return nil, nil
	}
	if n, err := parseUint8(s); err == nil {
		spec := make(ArgSpec, n)
		for i := range spec {
			spec[i] = ArgNormal
		}
		return spec, nil
	}
	spec := make(ArgSpec, 0, len(s))
	for _, r := range s {
		m, err := ParseArgMode(string(r))
		if err != nil {
			return nil, Errorf(EINVALID, "invalid argument pattern %q", s)
		}
		spec = append(spec, m)
	}
	return spec, nil
}

func (a ArgSpec) String() string {
	var b strings.Builder
	for _, m := range a {
		b.WriteByte(byte(m))
	}
	return b.String()
}

func parseUint8(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, Errorf(EINVALID, "invalid number %q", s)
	}
	return uint8(n), nil
}

// Metatheory symbols the engine treats specially.
var (
	MetatheoryArchive = ArchiveURI{Base: "http://mathhub.info", ID: "sTeX/meta-inf"}
	Metatheory        = ModuleURI{Archive: MetatheoryArchive, Name: "Metatheory", Language: English}

	SequenceExpression = Metatheory.Symbol("sequence expression")
	FieldProjection    = Metatheory.Symbol("record field")
)

// TermList builds a sequence term out of terms.
func TermList(terms []Term) Term {
	args := make([]Arg, len(terms))
	for i, t := range terms {
		args[i] = Arg{Term: t, Mode: ArgNormal}
	}
	return &Application{Head: &Symref{URI: SequenceExpression}, Args: args}
}

// IsSymbol reports whether t is a reference to uri.
func IsSymbol(t Term, uri SymbolURI) bool {
	s, ok := t.(*Symref)
	if !ok {
		return false
	}
	su, ok := s.URI.(SymbolURI)
	return ok && su == uri
}

// AsFieldProjection returns the record and key of an application of the
// record field symbol to a record and an attribute-free OML key.
func AsFieldProjection(t Term) (record Term, key Name, ok bool) {
	app, isApp := t.(*Application)
	if !isApp || !IsSymbol(app.Head, FieldProjection) || len(app.Args) != 2 {
		return nil, "", false
	}
	if app.Args[0].Mode != ArgNormal || app.Args[1].Mode != ArgNormal {
		return nil, "", false
	}
	oml, isOML := app.Args[1].Term.(*OML)
	if !isOML || oml.Type != nil || oml.Definiens != nil {
		return nil, "", false
	}
	return app.Args[0].Term, oml.Name, true
}

// Subterms calls fn for t and every term below it, depth first.
func Subterms(t Term, fn func(Term)) {
	if t == nil {
		return
	}
	fn(t)
	switch t := t.(type) {
	case *Application:
		Subterms(t.Head, fn)
		for _, a := range t.Args {
			Subterms(a.Term, fn)
		}
	case *OML:
		Subterms(t.Type, fn)
		Subterms(t.Definiens, fn)
	case *Field:
		Subterms(t.Record, fn)
		Subterms(t.Owner, fn)
	case *Informal:
		for _, s := range t.Terms {
			Subterms(s, fn)
		}
	}
}
