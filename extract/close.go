package extract

import (
	"slices"
	"strings"

	"github.com/fwojciec/ftml"
)

func (*invisibleToken) close(e *Engine, c *closing) transition {
	if !e.st.inTerm && !e.st.inNotation() {
		c.delete = true
	}
	return consumed()
}

func (t *setSectionLevelToken) close(e *Engine, c *closing) transition {
	e.st.addDocumentElement(&ftml.SetSectionLevel{Level: t.level})
	return consumed()
}

func (t *importModuleToken) close(e *Engine, c *closing) transition {
	if m, ok := e.st.contentModule(); ok {
		e.triple(m.String(), ftml.ULOImports, t.uri.String())
	}
	e.refs = append(e.refs, moduleRef{tag: "importmodule", uri: t.uri})
	e.st.addDocumentElement(&ftml.ImportModule{Module: t.uri})
	if !e.st.addContentElement(&ftml.Import{Module: t.uri}) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "importmodule", ""))
	}
	return consumed()
}

func (t *useModuleToken) close(e *Engine, c *closing) transition {
	e.triple(e.uri.String(), ftml.DCRequires, t.uri.String())
	e.refs = append(e.refs, moduleRef{tag: "usemodule", uri: t.uri})
	e.st.addDocumentElement(&ftml.UseModule{Module: t.uri})
	return consumed()
}

func (t *moduleToken) close(e *Engine, c *closing) transition {
	nf, ok := e.st.closeNarrative()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "module", ""))
		return consumed()
	}
	cf, ok := e.st.closeContent()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "module", ""))
		return consumed()
	}
	uri := t.uri.String()
	e.triple(uri, ftml.RDFType, ftml.ULOTheory)
	e.triple(e.uri.String(), ftml.ULOContains, uri)
	e.st.addDocumentElement(&ftml.ModuleElement{
		Range:    e.tree.Range(c.node),
		Module:   t.uri,
		Children: nf.children,
	})

	sym, nested := t.uri.AsSymbol()
	if !nested {
		e.st.modules = append(e.st.modules, &ftml.Module{
			URI:          t.uri,
			Meta:         t.meta,
			Signature:    t.signature,
			Declarations: cf.decls,
		})
		return consumed()
	}
	if m, ok := e.st.contentModule(); ok {
		e.triple(m.String(), ftml.ULOContains, sym.String())
	}
	if !e.st.addContentElement(&ftml.NestedModule{URI: sym, Declarations: cf.decls}) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "module", ""))
	}
	return consumed()
}

func (t *structureToken) close(e *Engine, c *closing) transition {
	nf, ok := e.st.closeNarrative()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "mathstructure", ""))
		return consumed()
	}
	cf, ok := e.st.closeContent()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "mathstructure", ""))
		return consumed()
	}
	uri := t.uri.String()
	if m, ok := e.st.contentModule(); ok {
		e.triple(uri, ftml.RDFType, ftml.ULOStructure)
		e.triple(m.String(), ftml.ULOContains, uri)
	}

	if !strings.HasPrefix(t.uri.Name.Last(), "EXTSTRUCT") {
		e.st.addDocumentElement(&ftml.StructureElement{
			Range:     e.tree.Range(c.node),
			Structure: t.uri,
			Children:  nf.children,
		})
		if !e.st.addContentElement(&ftml.MathStructure{URI: t.uri, Macroname: t.macroname, Declarations: cf.decls}) {
			e.Report(ftml.NewDiagnostic(ftml.NotInContent, "mathstructure", ""))
		}
		return consumed()
	}

	target, ok := extensionTarget(cf.decls)
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "mathstructure", ""))
		return consumed()
	}
	e.triple(uri, ftml.ULOExtends, target.String())
	e.st.addDocumentElement(&ftml.ExtensionElement{
		Range:     e.tree.Range(c.node),
		Extension: t.uri,
		Target:    target,
		Children:  nf.children,
	})
	if !e.st.addContentElement(&ftml.Extension{URI: t.uri, Target: target, Declarations: cf.decls}) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "mathstructure", ""))
	}
	return consumed()
}

// extensionTarget returns the structure an extension extends: its first
// import that is not itself an extension.
func extensionTarget(decls []ftml.Declaration) (ftml.SymbolURI, bool) {
	for _, d := range decls {
		imp, ok := d.(*ftml.Import)
		if !ok || strings.HasPrefix(imp.Module.Name.Last(), "EXTSTRUCT") {
			continue
		}
		return imp.Module.AsSymbol()
	}
	return ftml.SymbolURI{}, false
}

func (t *morphismToken) close(e *Engine, c *closing) transition {
	nf, ok := e.st.closeNarrative()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "morphism", ""))
		return consumed()
	}
	cf, ok := e.st.closeContent()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "morphism", ""))
		return consumed()
	}
	uri := t.uri.String()
	e.triple(uri, ftml.RDFType, ftml.ULOMorphism)
	e.triple(uri, ftml.RDFSDomain, t.domain.String())
	if m, ok := e.st.contentModule(); ok {
		e.triple(m.String(), ftml.ULOContains, uri)
	}
	e.st.addDocumentElement(&ftml.MorphismElement{
		Range:    e.tree.Range(c.node),
		Morphism: t.uri,
		Domain:   t.domain,
		Total:    t.total,
		Children: nf.children,
	})
	if !e.st.addContentElement(&ftml.Morphism{URI: t.uri, Domain: t.domain, Total: t.total, Declarations: cf.decls}) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "morphism", ""))
	}
	return consumed()
}

func (t *assignToken) close(e *Engine, c *closing) transition {
	df, ok := e.st.closeComplexTerm()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "assign", ""))
		return consumed()
	}
	if !e.st.addContentElement(&ftml.Assignment{Symbol: t.symbol, Definiens: df}) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "assign", ""))
	}
	return consumed()
}

func (t *sectionToken) close(e *Engine, c *closing) transition {
	sf, ok := e.st.closeSection()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "section", ""))
		return consumed()
	}
	e.triple(t.uri.String(), ftml.RDFType, ftml.ULOSection)
	e.triple(e.uri.String(), ftml.ULOContains, t.uri.String())
	e.st.addDocumentElement(&ftml.Section{
		Range:    e.tree.Range(c.node),
		URI:      t.uri,
		Level:    t.level,
		Title:    sf.title,
		Children: sf.children,
	})
	return consumed()
}

func (*skipSectionToken) close(e *Engine, c *closing) transition {
	sf, ok := e.st.closeSection()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "skipsection", ""))
		return consumed()
	}
	e.st.addDocumentElement(&ftml.SkipSection{
		Range:    e.tree.Range(c.node),
		Children: sf.children,
	})
	return consumed()
}

func (t *paragraphToken) close(e *Engine, c *closing) transition {
	pf, ok := e.st.closeParagraph()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInParagraph, t.kind.String(), ""))
		return consumed()
	}
	uri := t.uri.String()
	switch {
	case t.kind.IsDefinitionLike(t.styles):
		for _, f := range pf.fors {
			e.triple(uri, ftml.ULODefines, f.Symbol.String())
		}
	case t.kind == ftml.KindExample:
		for _, f := range pf.fors {
			e.triple(uri, ftml.ULOExampleFor, f.Symbol.String())
		}
	}
	e.triple(uri, ftml.RDFType, t.kind.RDFType())
	e.triple(e.uri.String(), ftml.ULOContains, uri)
	e.st.addDocumentElement(&ftml.Paragraph{
		Range:    e.tree.Range(c.node),
		URI:      t.uri,
		Kind:     t.kind,
		Inline:   t.inline,
		Styles:   t.styles,
		Fors:     pf.fors,
		Title:    pf.title,
		Children: pf.children,
	})
	return consumed()
}

func (t *exerciseToken) close(e *Engine, c *closing) transition {
	ef, ok := e.st.closeExercise()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInExercise, "", "exercise"))
		return consumed()
	}
	uri := t.uri.String()
	for _, o := range ef.preconditions {
		e.objectiveTriples(uri, ftml.ULOPrecondition, o)
	}
	for _, o := range ef.objectives {
		e.objectiveTriples(uri, ftml.ULOObjective, o)
	}
	if t.sub {
		e.triple(uri, ftml.RDFType, ftml.ULOSubproblem)
	} else {
		e.triple(uri, ftml.RDFType, ftml.ULOProblem)
	}
	e.triple(e.uri.String(), ftml.ULOContains, uri)

	ex := &ftml.Exercise{
		Range:         e.tree.Range(c.node),
		URI:           t.uri,
		SubExercise:   t.sub,
		Autogradable:  t.autogradable,
		Points:        t.points,
		Styles:        t.styles,
		Hints:         ef.hints,
		Notes:         ef.notes,
		GradingNotes:  ef.gradingNotes,
		Title:         ef.title,
		Preconditions: ef.preconditions,
		Objectives:    ef.objectives,
		Children:      ef.children,
	}
	if ref, ok := e.resource(ftml.Solutions{Solutions: ef.solutions}); ok {
		ex.Solutions = &ref
	}
	e.st.addDocumentElement(ex)
	return consumed()
}

func (e *Engine) objectiveTriples(uri, predicate string, o ftml.CognitiveObjective) {
	if !e.opts.RDF {
		return
	}
	b := e.blank()
	e.triples = append(e.triples,
		ftml.Triple{Subject: ftml.IRI(uri), Predicate: ftml.IRI(predicate), Object: b},
		ftml.Triple{Subject: b, Predicate: ftml.IRI(ftml.ULOCogDim), Object: ftml.IRI(o.Dimension.IRI())},
		ftml.Triple{Subject: b, Predicate: ftml.IRI(ftml.ULOPOSymbol), Object: ftml.IRI(o.Symbol.String())},
	)
}

func (*docTitleToken) close(e *Engine, c *closing) transition {
	e.title = e.tree.InnerString(c.node)
	return consumed()
}

func (*titleToken) close(e *Engine, c *closing) transition {
	if !e.st.addTitle(e.tree.InnerRange(c.node)) {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "title", ""))
	}
	return consumed()
}

func (*problemHintToken) close(e *Engine, c *closing) transition {
	ex, ok := e.st.exercise()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInExercise, "", "hint"))
		return consumed()
	}
	ex.hints = append(ex.hints, e.tree.InnerRange(c.node))
	return consumed()
}

func (*problemNoteToken) close(e *Engine, c *closing) transition {
	ex, ok := e.st.exercise()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInExercise, "", "note"))
		return consumed()
	}
	if ref, ok := e.resource(e.tree.InnerString(c.node)); ok {
		ex.notes = append(ex.notes, ref)
	}
	return consumed()
}

func (t *solutionToken) close(e *Engine, c *closing) transition {
	s := e.tree.InnerString(c.node)
	e.tree.DeleteChildren(c.node)
	ex, ok := e.st.exercise()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInExercise, "", "solution"))
		return consumed()
	}
	ex.solutions = append(ex.solutions, ftml.SolutionData{HTML: s, AnswerClass: t.answerClass})
	return consumed()
}

func (*gradingNoteToken) close(e *Engine, c *closing) transition {
	s := e.tree.InnerString(c.node)
	e.tree.DeleteChildren(c.node)
	ex, ok := e.st.exercise()
	if !ok || ex.gnote == nil {
		e.Report(ftml.NewDiagnostic(ftml.NotInExercise, "", "grading note"))
		return consumed()
	}
	classes := *ex.gnote
	ex.gnote = nil
	if ref, ok := e.resource(ftml.GradingNote{HTML: s, AnswerClasses: classes}); ok {
		ex.gradingNotes = append(ex.gradingNotes, ref)
	}
	return consumed()
}

func (*answerClassToken) close(*Engine, *closing) transition { return consumed() }

func (t *symdeclToken) close(e *Engine, c *closing) transition {
	df, ok := e.st.closeDecl()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "symdecl", ""))
		return consumed()
	}
	uri := t.uri.String()
	if m, ok := e.st.contentModule(); ok {
		e.triple(uri, ftml.RDFType, ftml.ULODeclaration)
		e.triple(m.String(), ftml.ULODeclares, uri)
	}
	e.st.addDocumentElement(&ftml.SymbolDeclaration{Symbol: t.uri})
	sym := &ftml.Symbol{
		URI:        t.uri,
		Arity:      t.arity,
		Macroname:  t.macroname,
		Role:       t.role,
		Type:       df.tp,
		Definiens:  df.df,
		AssocType:  t.assocType,
		Reordering: t.reordering,
	}
	if !e.st.addContentElement(sym) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "symdecl", ""))
	}
	return consumed()
}

func (t *vardeclToken) close(e *Engine, c *closing) transition {
	df, ok := e.st.closeDecl()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "vardecl", ""))
		return consumed()
	}
	e.triple(t.uri.String(), ftml.RDFType, ftml.ULOVariable)
	e.triple(e.uri.String(), ftml.ULODeclares, t.uri.String())
	e.st.addDocumentElement(&ftml.Variable{
		URI:        t.uri,
		Arity:      t.arity,
		Macroname:  t.macroname,
		Role:       t.role,
		Type:       df.tp,
		Definiens:  df.df,
		Bind:       t.bind,
		IsSequence: t.sequence,
		AssocType:  t.assocType,
		Reordering: t.reordering,
	})
	return consumed()
}

func (t *notationToken) close(e *Engine, c *closing) transition {
	nf, ok := e.st.closeNotation()
	if !ok || nf.attributeIndex == 0 {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "notation", ""))
		return consumed()
	}
	uri := e.st.narrativeURI().Element(t.id)
	ref, ok := e.resource(ftml.Notation{
		ID:             t.id,
		Precedence:     t.precedence,
		ArgPrecs:       t.argPrecs,
		AttributeIndex: nf.attributeIndex,
		IsText:         nf.isText,
		Components:     nf.components,
		Op:             nf.op,
	})
	if !ok {
		return consumed()
	}

	switch h := t.head.(type) {
	case *ftml.Symref:
		sym, ok := h.URI.(ftml.SymbolURI)
		if !ok {
			e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, "notation", h.URI.String()))
			return consumed()
		}
		e.triple(uri.String(), ftml.RDFType, ftml.ULONotation)
		e.triple(uri.String(), ftml.ULONotationFor, sym.String())
		e.triple(e.uri.String(), ftml.ULODeclares, uri.String())
		e.st.addDocumentElement(&ftml.NotationElement{Symbol: sym, ID: uri, Notation: ref})
	case *ftml.Varref:
		v := h
		if !v.Resolved() {
			r, ok := e.st.resolveVariable(h.Name)
			if !ok {
				e.Report(ftml.NewDiagnostic(ftml.UnresolvedVariable, "", string(h.Name)))
				return consumed()
			}
			v = r
		}
		e.st.addDocumentElement(&ftml.VariableNotation{Variable: *v.Declaration, ID: uri, Notation: ref})
	}
	return consumed()
}

func (*notationCompToken) close(e *Engine, c *closing) transition {
	nf, ok := e.st.notation()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "notationcomp", ""))
		return consumed()
	}
	nf.attributeIndex, nf.isText, nf.components = e.asNotation(c.node)
	return consumed()
}

func (*notationOpCompToken) close(e *Engine, c *closing) transition {
	nf, ok := e.st.notation()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, "notationopcomp", ""))
		return consumed()
	}
	op := e.asOpNotation(c.node)
	nf.op = &op
	return consumed()
}

func (t *definiendumToken) close(e *Engine, c *closing) transition {
	e.st.addDocumentElement(&ftml.Definiendum{Range: e.tree.Range(c.node), Symbol: t.symbol})
	return consumed()
}

func (*typeToken) close(e *Engine, c *closing) transition {
	e.st.inTerm = false
	if !e.st.addType(e.asTerm(c)) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "type", ""))
	}
	return consumed()
}

func (t *conclusionToken) close(e *Engine, c *closing) transition {
	e.st.inTerm = t.inTerm
	if !e.st.addTerm(t.symbol, e.asTerm(c)) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "conclusion", ""))
	}
	return consumed()
}

func (t *definiensToken) close(e *Engine, c *closing) transition {
	e.st.inTerm = t.inTerm
	if !e.st.addTerm(t.symbol, e.asTerm(c)) {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "definiens", ""))
	}
	return consumed()
}

func (*ruleToken) close(e *Engine, c *closing) transition {
	if _, _, ok := e.st.closeArgs(); !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "rule", ""))
	}
	return consumed()
}

// Separators and argument maps are resolved by the notation that
// contains them.
func (t *argSepToken) close(*Engine, *closing) transition    { return requeue(t) }
func (t *argMapToken) close(*Engine, *closing) transition    { return requeue(t) }
func (t *argMapSepToken) close(*Engine, *closing) transition { return requeue(t) }
func (t *closedTermToken) close(*Engine, *closing) transition {
	return requeue(t)
}

func (t *argToken) close(e *Engine, c *closing) transition {
	if e.st.inNotation() {
		return requeue(t)
	}
	if !e.st.addArg(t.index, t.sub, e.asTerm(c), t.mode) {
		e.Report(ftml.NewDiagnostic(ftml.IncompleteArgs, "arg", ""))
	}
	return consumed()
}

func (*headTermToken) close(e *Engine, c *closing) transition {
	if !e.st.addTerm(nil, e.asTerm(c)) {
		e.Report(ftml.NewDiagnostic(ftml.IncompleteArgs, "headterm", ""))
	}
	return consumed()
}

func (t *openTermToken) close(e *Engine, c *closing) transition {
	term := e.closeTerm(t.term)
	if !t.top {
		return requeue(&closedTermToken{term: term})
	}
	e.st.inTerm = false
	switch term.(type) {
	case *ftml.Symref, *ftml.Varref:
		return consumed()
	}
	uri := e.st.narrativeURI().Element(e.st.newID("term"))
	e.st.addDocumentElement(&ftml.TopTerm{URI: uri, Term: term})
	return consumed()
}

func (t *inputrefToken) close(e *Engine, c *closing) transition {
	top := e.st.narrativeURI()
	e.triple(top.String(), ftml.DCHasPart, t.target.String())
	e.st.addDocumentElement(&ftml.DocumentReference{
		ID:     top.Element(t.id),
		Range:  e.tree.Range(c.node),
		Target: t.target,
	})
	c.previous = slices.DeleteFunc(c.previous, func(t token) bool {
		_, ok := t.(*invisibleToken)
		return ok
	})
	return consumed()
}

func (t *compToken) close(e *Engine, c *closing) transition {
	if e.st.inNotation() {
		return requeue(t)
	}
	return consumed()
}

func (t *mainCompToken) close(e *Engine, c *closing) transition {
	if e.st.inNotation() {
		return requeue(t)
	}
	return consumed()
}

func (*defCompToken) close(e *Engine, c *closing) transition {
	if e.st.inNotation() {
		return requeue(&compToken{})
	}
	return consumed()
}
