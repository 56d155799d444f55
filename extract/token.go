package extract

import (
	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/dom"
)

// A token is created by a rule when an element is appended and stays
// pending on the element until it closes. Closing a token either consumes
// it or requeues a token on the element for an ancestor to pick up.
type token interface {
	close(e *Engine, c *closing) transition
}

// transition is the outcome of closing a token.
type transition struct {
	requeue token
}

func consumed() transition       { return transition{} }
func requeue(t token) transition { return transition{requeue: t} }

// closing is the context of one element close.
type closing struct {
	node dom.Node

	// previous holds the tokens of the element that have not been closed
	// yet, in registration order.
	previous []token

	// next holds the tokens requeued so far.
	next []token

	// delete removes the element once all tokens are closed.
	delete bool
}

// takeClosedTerm removes a term closed earlier on the same element.
func (c *closing) takeClosedTerm() (ftml.Term, bool) {
	for i, t := range c.next {
		if ct, ok := t.(*closedTermToken); ok {
			c.next = append(c.next[:i:i], c.next[i+1:]...)
			return ct.term, true
		}
	}
	return nil, false
}

type invisibleToken struct{}

type setSectionLevelToken struct{ level ftml.SectionLevel }

type importModuleToken struct{ uri ftml.ModuleURI }

type useModuleToken struct{ uri ftml.ModuleURI }

type moduleToken struct {
	uri       ftml.ModuleURI
	meta      *ftml.ModuleURI
	signature ftml.Language
}

type structureToken struct {
	uri       ftml.SymbolURI
	macroname string
}

type morphismToken struct {
	uri    ftml.SymbolURI
	domain ftml.ModuleURI
	total  bool
}

type assignToken struct{ symbol ftml.SymbolURI }

type sectionToken struct {
	level ftml.SectionLevel
	uri   ftml.DocumentElementURI
}

type skipSectionToken struct{}

type paragraphToken struct {
	kind   ftml.ParagraphKind
	inline bool
	styles []string
	uri    ftml.DocumentElementURI
}

type exerciseToken struct {
	sub          bool
	uri          ftml.DocumentElementURI
	autogradable bool
	points       *float32
	styles       []string
}

type docTitleToken struct{}

type titleToken struct{}

type problemHintToken struct{}

type problemNoteToken struct{}

type solutionToken struct{ answerClass string }

type gradingNoteToken struct{}

type answerClassToken struct{}

type symdeclToken struct {
	uri        ftml.SymbolURI
	arity      ftml.ArgSpec
	macroname  string
	role       []string
	assocType  ftml.AssocType
	reordering string
}

type vardeclToken struct {
	uri        ftml.DocumentElementURI
	arity      ftml.ArgSpec
	macroname  string
	role       []string
	assocType  ftml.AssocType
	reordering string
	bind       bool
	sequence   bool
}

// notationToken opens a notation for a symbol or a variable; head is a
// *ftml.Symref or *ftml.Varref.
type notationToken struct {
	head       ftml.Term
	id         ftml.Name
	precedence int
	argPrecs   []int
}

type notationCompToken struct{}

type notationOpCompToken struct{}

type definiendumToken struct{ symbol ftml.SymbolURI }

type typeToken struct{}

type conclusionToken struct {
	symbol ftml.SymbolURI
	inTerm bool
}

type definiensToken struct {
	symbol ftml.ContentURI
	inTerm bool
}

type ruleToken struct{}

type argSepToken struct{}

type argMapToken struct{}

type argMapSepToken struct{}

type argToken struct {
	index, sub uint8
	mode       ftml.ArgMode
}

type headTermToken struct{}

type openTermToken struct {
	term openTerm
	top  bool
}

// closedTermToken carries a finished term from a nested term element to
// the slot it fills.
type closedTermToken struct{ term ftml.Term }

type inputrefToken struct {
	target ftml.DocumentURI
	id     ftml.Name
}

type ifInputrefToken struct{}

type compToken struct{}

type mainCompToken struct{}

type defCompToken struct{}

// termKind is the shape of a term under construction.
type termKind uint8

const (
	termSymbol termKind = iota
	termVariable
	termApplication
	termOML
	termComplex
)

// openTerm is a term whose arguments are still being collected. head is
// a *ftml.Symref or *ftml.Varref.
type openTerm struct {
	kind     termKind
	head     ftml.Term
	notation ftml.Name
}
