package extract

import (
	"strconv"

	"github.com/fwojciec/ftml"
)

// Narrative frames collect document elements.
type narrativeFrame interface{ narrative() }

type containerFrame struct {
	uri      ftml.NarrativeURI
	children []ftml.DocumentElement
}

type paragraphFrame struct {
	uri      ftml.DocumentElementURI
	fors     []ftml.ParagraphFor
	title    *ftml.DocumentRange
	children []ftml.DocumentElement
}

type sectionFrame struct {
	uri      ftml.DocumentElementURI
	title    *ftml.DocumentRange
	children []ftml.DocumentElement
}

type exerciseFrame struct {
	uri           ftml.DocumentElementURI
	title         *ftml.DocumentRange
	solutions     []ftml.SolutionData
	hints         []ftml.DocumentRange
	notes         []ftml.LazyRef
	gradingNotes  []ftml.LazyRef
	gnote         *[]string
	preconditions []ftml.CognitiveObjective
	objectives    []ftml.CognitiveObjective
	children      []ftml.DocumentElement
}

type notationFrame struct {
	attributeIndex uint8
	isText         bool
	components     []ftml.NotationComponent
	op             *ftml.OpNotation
}

func (*containerFrame) narrative() {}
func (*paragraphFrame) narrative() {}
func (*sectionFrame) narrative()   {}
func (*exerciseFrame) narrative()  {}
func (*notationFrame) narrative()  {}

// Content frames collect declarations and terms.
type contentFrame interface{ content() }

type moduleFrame struct {
	uri   ftml.ModuleURI
	decls []ftml.Declaration
}

type singleTermFrame struct {
	term ftml.Term
}

type declFrame struct {
	tp, df ftml.Term
}

type argsFrame struct {
	slots []argSlot
	head  ftml.Term
}

// argSlot is one position of an argument list. Sequence arguments fill
// items by their secondary index.
type argSlot struct {
	set   bool
	term  ftml.Term
	items []ftml.Term
	list  bool
	mode  ftml.ArgMode
}

func (*moduleFrame) content()     {}
func (*singleTermFrame) content() {}
func (*declFrame) content()       {}
func (*argsFrame) content()       {}

// state holds the scope stacks of one extraction run. Opening a scope
// pushes a frame; closing pops it only if it has the expected kind.
type state struct {
	narrative []narrativeFrame
	content   []contentFrame
	ids       map[string]int
	modules   []*ftml.Module
	inTerm    bool

	report func(ftml.Diagnostic)
}

func newState(uri ftml.DocumentURI, report func(ftml.Diagnostic)) state {
	return state{
		narrative: []narrativeFrame{&containerFrame{uri: uri}},
		ids:       make(map[string]int),
		report:    report,
	}
}

// newID returns prefix_0, prefix_1, ... on successive calls.
func (s *state) newID(prefix string) ftml.Name {
	n := s.ids[prefix]
	s.ids[prefix] = n + 1
	return ftml.Name(prefix + "_" + strconv.Itoa(n))
}

func (s *state) inNotation() bool {
	for _, f := range s.narrative {
		if _, ok := f.(*notationFrame); ok {
			return true
		}
	}
	return false
}

// contentModule returns the URI of the innermost open module.
func (s *state) contentModule() (ftml.ModuleURI, bool) {
	for i := len(s.content) - 1; i >= 0; i-- {
		if m, ok := s.content[i].(*moduleFrame); ok {
			return m.uri, true
		}
	}
	return ftml.ModuleURI{}, false
}

// narrativeURI returns the URI new document elements are named under.
func (s *state) narrativeURI() ftml.NarrativeURI {
	for i := len(s.narrative) - 1; i >= 0; i-- {
		switch f := s.narrative[i].(type) {
		case *containerFrame:
			return f.uri
		case *paragraphFrame:
			return f.uri
		case *sectionFrame:
			return f.uri
		case *exerciseFrame:
			return f.uri
		}
	}
	return nil
}

func (s *state) openNarrative(uri ftml.NarrativeURI) {
	if uri == nil {
		uri = s.narrativeURI()
	}
	s.narrative = append(s.narrative, &containerFrame{uri: uri})
}

func (s *state) openSection(uri ftml.DocumentElementURI) {
	s.narrative = append(s.narrative, &sectionFrame{uri: uri})
}

func (s *state) openParagraph(uri ftml.DocumentElementURI, fors []ftml.ParagraphFor) {
	s.narrative = append(s.narrative, &paragraphFrame{uri: uri, fors: fors})
}

func (s *state) openExercise(uri ftml.DocumentElementURI) {
	s.narrative = append(s.narrative, &exerciseFrame{uri: uri})
}

func (s *state) openNotation() {
	s.narrative = append(s.narrative, &notationFrame{})
}

// popNarrative pops the top frame if it is a T. The root container is
// never popped.
func popNarrative[T narrativeFrame](s *state) (T, bool) {
	var zero T
	if len(s.narrative) < 2 {
		return zero, false
	}
	f, ok := s.narrative[len(s.narrative)-1].(T)
	if !ok {
		return zero, false
	}
	s.narrative = s.narrative[:len(s.narrative)-1]
	return f, true
}

func (s *state) closeNarrative() (*containerFrame, bool) {
	return popNarrative[*containerFrame](s)
}

func (s *state) closeSection() (*sectionFrame, bool) {
	return popNarrative[*sectionFrame](s)
}

func (s *state) closeParagraph() (*paragraphFrame, bool) {
	return popNarrative[*paragraphFrame](s)
}

func (s *state) closeExercise() (*exerciseFrame, bool) {
	return popNarrative[*exerciseFrame](s)
}

func (s *state) closeNotation() (*notationFrame, bool) {
	return popNarrative[*notationFrame](s)
}

func (s *state) openContent(uri ftml.ModuleURI) {
	s.content = append(s.content, &moduleFrame{uri: uri})
}

func (s *state) openComplexTerm() { s.content = append(s.content, &singleTermFrame{}) }
func (s *state) openDecl()        { s.content = append(s.content, &declFrame{}) }
func (s *state) openArgs()        { s.content = append(s.content, &argsFrame{}) }

func popContent[T contentFrame](s *state) (T, bool) {
	var zero T
	if len(s.content) == 0 {
		return zero, false
	}
	f, ok := s.content[len(s.content)-1].(T)
	if !ok {
		return zero, false
	}
	s.content = s.content[:len(s.content)-1]
	return f, true
}

func (s *state) closeContent() (*moduleFrame, bool) {
	return popContent[*moduleFrame](s)
}

func (s *state) closeComplexTerm() (ftml.Term, bool) {
	f, ok := popContent[*singleTermFrame](s)
	if !ok {
		return nil, false
	}
	return f.term, true
}

func (s *state) closeDecl() (*declFrame, bool) {
	return popContent[*declFrame](s)
}

// closeArgs pops an argument list and returns its populated arguments in
// index order together with an explicit head term. Every gap is reported
// as IncompleteArgs.
func (s *state) closeArgs() ([]ftml.Arg, ftml.Term, bool) {
	f, ok := popContent[*argsFrame](s)
	if !ok {
		return nil, nil, false
	}
	var args []ftml.Arg
	for _, slot := range f.slots {
		if !slot.set {
			s.report(ftml.NewDiagnostic(ftml.IncompleteArgs, "", ""))
			continue
		}
		if !slot.list {
			args = append(args, ftml.Arg{Term: slot.term, Mode: slot.mode})
			continue
		}
		args = append(args, ftml.Arg{Term: ftml.TermList(s.denseItems(slot.items)), Mode: slot.mode})
	}
	return args, f.head, true
}

// denseItems returns the leading run of set items. Items after a gap are
// reported.
func (s *state) denseItems(items []ftml.Term) []ftml.Term {
	for i, t := range items {
		if t != nil {
			continue
		}
		for _, rest := range items[i:] {
			if rest != nil {
				s.report(ftml.NewDiagnostic(ftml.IncompleteArgs, "", ""))
				break
			}
		}
		return items[:i]
	}
	return items
}

// addArg stores t in the innermost argument list at position idx (1-based)
// and, for sequences, sub (1-based).
func (s *state) addArg(idx, sub uint8, t ftml.Term, mode ftml.ArgMode) bool {
	if len(s.content) == 0 || idx == 0 {
		return false
	}
	f, ok := s.content[len(s.content)-1].(*argsFrame)
	if !ok {
		return false
	}
	for len(f.slots) < int(idx) {
		f.slots = append(f.slots, argSlot{})
	}
	slot := &f.slots[idx-1]
	slot.set, slot.mode = true, mode
	if sub == 0 {
		slot.term, slot.list, slot.items = t, false, nil
		return true
	}
	if !slot.list {
		slot.list, slot.term = true, nil
	}
	for len(slot.items) < int(sub) {
		slot.items = append(slot.items, nil)
	}
	slot.items[sub-1] = t
	return true
}

// addTerm routes a finished term to the innermost slot waiting for one:
// a declaration's definiens, an argument list's head, a complex term, or
// the matching symbol of an enclosing paragraph.
func (s *state) addTerm(symbol ftml.ContentURI, t ftml.Term) bool {
	if symbol == nil && len(s.content) > 0 {
		switch f := s.content[len(s.content)-1].(type) {
		case *declFrame:
			f.df = t
			return true
		case *argsFrame:
			f.head = t
			return true
		case *singleTermFrame:
			f.term = t
			return true
		}
	}
	for i := len(s.narrative) - 1; i >= 0; i-- {
		p, ok := s.narrative[i].(*paragraphFrame)
		if !ok {
			continue
		}
		if symbol == nil {
			if len(p.fors) == 1 {
				p.fors[0].Definiens = t
				return true
			}
			continue
		}
		for j := range p.fors {
			if p.fors[j].Symbol == symbol {
				p.fors[j].Definiens = t
				return true
			}
		}
		p.fors = append(p.fors, ftml.ParagraphFor{Symbol: symbol, Definiens: t})
		return true
	}
	return false
}

// addType sets the type of the declaration being built.
func (s *state) addType(t ftml.Term) bool {
	if len(s.content) == 0 {
		return false
	}
	f, ok := s.content[len(s.content)-1].(*declFrame)
	if !ok {
		return false
	}
	f.tp = t
	return true
}

// addDocumentElement appends e to the innermost frame that holds children.
func (s *state) addDocumentElement(e ftml.DocumentElement) {
	for i := len(s.narrative) - 1; i >= 0; i-- {
		switch f := s.narrative[i].(type) {
		case *containerFrame:
			f.children = append(f.children, e)
			return
		case *paragraphFrame:
			f.children = append(f.children, e)
			return
		case *sectionFrame:
			f.children = append(f.children, e)
			return
		case *exerciseFrame:
			f.children = append(f.children, e)
			return
		}
	}
}

// addContentElement appends d to the innermost open module.
func (s *state) addContentElement(d ftml.Declaration) bool {
	for i := len(s.content) - 1; i >= 0; i-- {
		if m, ok := s.content[i].(*moduleFrame); ok {
			m.decls = append(m.decls, d)
			return true
		}
	}
	return false
}

// addTitle sets the title of the innermost titled element.
func (s *state) addTitle(r ftml.DocumentRange) bool {
	for i := len(s.narrative) - 1; i >= 0; i-- {
		switch f := s.narrative[i].(type) {
		case *paragraphFrame:
			f.title = &r
			return true
		case *exerciseFrame:
			f.title = &r
			return true
		case *sectionFrame:
			f.title = &r
			return true
		}
	}
	return false
}

// addDefiniendum records symbol as defined by the innermost paragraph.
func (s *state) addDefiniendum(symbol ftml.SymbolURI) bool {
	for i := len(s.narrative) - 1; i >= 0; i-- {
		p, ok := s.narrative[i].(*paragraphFrame)
		if !ok {
			continue
		}
		for _, f := range p.fors {
			if f.Symbol == ftml.ContentURI(symbol) {
				return true
			}
		}
		p.fors = append(p.fors, ftml.ParagraphFor{Symbol: symbol})
		return true
	}
	return false
}

func (s *state) exercise() (*exerciseFrame, bool) {
	for i := len(s.narrative) - 1; i >= 0; i-- {
		if f, ok := s.narrative[i].(*exerciseFrame); ok {
			return f, true
		}
	}
	return nil, false
}

func (s *state) notation() (*notationFrame, bool) {
	if len(s.narrative) == 0 {
		return nil, false
	}
	f, ok := s.narrative[len(s.narrative)-1].(*notationFrame)
	return f, ok
}

// resolveVariable looks up the innermost variable declared under a name
// ending in name.
func (s *state) resolveVariable(name ftml.Name) (*ftml.Varref, bool) {
	for i := len(s.narrative) - 1; i >= 0; i-- {
		var children []ftml.DocumentElement
		switch f := s.narrative[i].(type) {
		case *containerFrame:
			children = f.children
		case *paragraphFrame:
			children = f.children
		case *sectionFrame:
			children = f.children
		case *exerciseFrame:
			children = f.children
		}
		for j := len(children) - 1; j >= 0; j-- {
			v, ok := children[j].(*ftml.Variable)
			if !ok || !v.URI.Name.HasSuffix(name) {
				continue
			}
			uri := v.URI
			return &ftml.Varref{Name: ftml.Name(uri.Name.Last()), Declaration: &uri, IsSequence: v.IsSequence}, true
		}
	}
	return nil, false
}

// balanced reports whether only the root container is left open.
func (s *state) balanced() bool {
	if len(s.narrative) != 1 || len(s.content) != 0 {
		return false
	}
	_, ok := s.narrative[0].(*containerFrame)
	return ok
}
