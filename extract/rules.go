package extract

import (
	"slices"
	"strconv"
	"strings"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/dom"
)

// match is a rule triggered by the attribute key.
type match struct {
	tag tag
	key string
}

// drop removes the pending matches of the given tags.
func drop(pending *[]match, tags ...tag) {
	*pending = slices.DeleteFunc(*pending, func(m match) bool {
		return slices.Contains(tags, m.tag)
	})
}

// classify runs the rules triggered by the annotations of element n and
// returns the tokens they produce, in rule order.
func (e *Engine) classify(n dom.Node) []token {
	a := &attrs{tree: e.tree, node: n, prefix: e.opts.Prefix}
	keys := a.keys()
	if len(keys) == 0 {
		return nil
	}

	byRule := make(map[int]string)
	for _, k := range keys {
		if i, ok := ruleByKey[k]; ok {
			if _, seen := byRule[i]; !seen {
				byRule[i] = k
			}
			continue
		}
		if !isArgumentKey[k] {
			e.Report(ftml.NewDiagnostic(ftml.UnknownAttribute, suggest(k), e.opts.Prefix+k))
		}
	}
	pending := make([]match, 0, len(byRule))
	for i, r := range rules {
		if k, ok := byRule[i]; ok {
			pending = append(pending, match{tag: r.tag, key: k})
		}
	}

	var toks []token
	for len(pending) > 0 {
		m := pending[0]
		pending = pending[1:]
		if t := e.apply(m, a, &pending); t != nil {
			toks = append(toks, t)
		}
	}
	return toks
}

var paragraphKinds = map[tag]ftml.ParagraphKind{
	tagDefinition: ftml.KindDefinition,
	tagParagraph:  ftml.KindParagraph,
	tagAssertion:  ftml.KindAssertion,
	tagExample:    ftml.KindExample,
	tagProof:      ftml.KindProof,
	tagSubProof:   ftml.KindSubProof,
}

func (e *Engine) apply(m match, a *attrs, pending *[]match) token {
	switch m.tag {
	case tagInvisible:
		if a.takeBool(m.key) {
			return &invisibleToken{}
		}
		return nil
	case tagSetSectionLevel:
		if l, ok := e.sectionLevel(a, m.key); ok {
			return &setSectionLevelToken{level: l}
		}
		return nil
	case tagImportModule:
		if uri, ok := e.moduleURI(a, m.key, true); ok {
			return &importModuleToken{uri: uri}
		}
		return nil
	case tagUseModule:
		if uri, ok := e.moduleURI(a, m.key, true); ok {
			return &useModuleToken{uri: uri}
		}
		return nil
	case tagModule:
		return e.ruleModule(m, a)
	case tagMathStructure:
		return e.ruleStructure(m, a)
	case tagMorphism:
		return e.ruleMorphism(m, a)
	case tagAssign:
		sym, ok := e.symbolURI(a, m.key)
		if !ok {
			return nil
		}
		e.st.openComplexTerm()
		return &assignToken{symbol: sym}
	case tagSection:
		l, ok := e.sectionLevel(a, m.key)
		if !ok {
			return nil
		}
		uri := e.st.narrativeURI().Element(e.id(a, "section"))
		e.st.openSection(uri)
		return &sectionToken{level: l, uri: uri}
	case tagSkipSection:
		e.st.openSection(e.st.narrativeURI().Element(e.id(a, "skipsection")))
		return &skipSectionToken{}
	case tagDefinition, tagParagraph, tagAssertion, tagExample, tagProof, tagSubProof:
		return e.ruleParagraph(paragraphKinds[m.tag], a)
	case tagExercise, tagSubExercise:
		return e.ruleExercise(m.tag == tagSubExercise, a)
	case tagProblemHint:
		return &problemHintToken{}
	case tagProblemNote:
		return &problemNoteToken{}
	case tagSolution:
		ac, _ := a.take("answerclass")
		drop(pending, tagAnswerClass)
		return &solutionToken{answerClass: strings.TrimSpace(ac)}
	case tagProblemGradingNote:
		if ex, ok := e.st.exercise(); ok && ex.gnote == nil {
			ex.gnote = new([]string)
		} else {
			e.Report(ftml.NewDiagnostic(ftml.NotInExercise, "", "grading note"))
		}
		return &gradingNoteToken{}
	case tagAnswerClass:
		id := e.id(a, "AC")
		if ex, ok := e.st.exercise(); ok && ex.gnote != nil {
			*ex.gnote = append(*ex.gnote, string(id))
		} else {
			e.Report(ftml.NewDiagnostic(ftml.NotInExercise, "", "answer class"))
		}
		return &answerClassToken{}
	case tagDocTitle:
		return &docTitleToken{}
	case tagTitle:
		return &titleToken{}
	case tagPrecondition, tagObjective:
		e.ruleObjective(m, a)
		return nil
	case tagSymdecl:
		return e.ruleSymdecl(m, a)
	case tagVardecl, tagVarseq:
		return e.ruleVardecl(m, a, m.tag == tagVarseq)
	case tagNotation:
		return e.ruleNotation(m, a)
	case tagNotationComp, tagNotationOpComp:
		a.remove(m.key, "term", "head", "notationid", "invisible")
		drop(pending, tagTerm, tagInvisible)
		if m.tag == tagNotationOpComp {
			return &notationOpCompToken{}
		}
		return &notationCompToken{}
	case tagDefiniendum:
		sym, ok := e.symbolURI(a, m.key)
		if !ok {
			return nil
		}
		if !e.st.addDefiniendum(sym) {
			e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, m.key, ""))
		}
		return &definiendumToken{symbol: sym}
	case tagType:
		if e.st.inTerm {
			e.Report(ftml.NewDiagnostic(ftml.InvalidKey, m.key, ""))
			return nil
		}
		e.st.inTerm = true
		return &typeToken{}
	case tagConclusion:
		sym, ok := e.symbolURI(a, m.key)
		if !ok {
			return nil
		}
		t := &conclusionToken{symbol: sym, inTerm: e.st.inTerm}
		e.st.inTerm = true
		return t
	case tagDefiniens:
		t := &definiensToken{inTerm: e.st.inTerm}
		if v, _ := a.get(m.key); strings.TrimSpace(v) != "" {
			sym, ok := e.symbolURI(a, m.key)
			if !ok {
				return nil
			}
			t.symbol = sym
		}
		e.st.inTerm = true
		return t
	case tagRule:
		e.st.openArgs()
		return &ruleToken{}
	case tagArgSep, tagArgMap, tagArgMapSep:
		a.remove(m.key, "term", "head", "notationid", "invisible")
		drop(pending, tagTerm, tagInvisible, tagArgSep, tagArgMap, tagArgMapSep)
		switch m.tag {
		case tagArgSep:
			return &argSepToken{}
		case tagArgMap:
			return &argMapToken{}
		}
		return &argMapSepToken{}
	case tagArg:
		return e.ruleArg(m, a)
	case tagHeadTerm:
		return &headTermToken{}
	case tagTerm:
		return e.ruleTerm(m, a)
	case tagInputref:
		target, ok := e.documentURI(a, m.key)
		if !ok {
			return nil
		}
		return &inputrefToken{target: target, id: e.id(a, target.Name.Last())}
	case tagIfInputref:
		return nil
	case tagComp, tagVarComp:
		return &compToken{}
	case tagMainComp:
		return &mainCompToken{}
	case tagDefComp:
		return &defCompToken{}
	}
	return nil
}

func (e *Engine) ruleModule(m match, a *attrs) token {
	uri, ok := e.newModuleURI(a, m.key)
	if !ok {
		return nil
	}
	a.take("language")
	t := &moduleToken{uri: uri}
	if _, ok := a.get("metatheory"); ok {
		if meta, ok := e.moduleURI(a, "metatheory", true); ok {
			t.meta = &meta
		}
	}
	if v, ok := a.take("signature"); ok {
		if l, err := ftml.ParseLanguage(v); err == nil {
			t.signature = l
		}
	}
	e.st.openContent(uri)
	e.st.openNarrative(nil)
	return t
}

func (e *Engine) ruleStructure(m match, a *attrs) token {
	v, ok := a.take(m.key)
	if !ok {
		return nil
	}
	uri, ok := e.newSymbolURI(v, m.key)
	if !ok {
		return nil
	}
	macro, _ := a.take("macroname")
	e.st.openContent(uri.AsModule())
	e.st.openNarrative(nil)
	return &structureToken{uri: uri, macroname: macro}
}

func (e *Engine) ruleMorphism(m match, a *attrs) token {
	v, ok := a.take(m.key)
	if !ok {
		return nil
	}
	uri, ok := e.newSymbolURI(v, m.key)
	if !ok {
		return nil
	}
	domain, ok := e.moduleURI(a, "domain", true)
	if !ok {
		return nil
	}
	total := a.takeBool("total")
	e.st.openContent(uri.AsModule())
	e.st.openNarrative(nil)
	return &morphismToken{uri: uri, domain: domain, total: total}
}

func (e *Engine) ruleParagraph(kind ftml.ParagraphKind, a *attrs) token {
	id := e.id(a, kind.String())
	var fors []ftml.ParagraphFor
	if v, ok := a.get("fors"); ok {
		for _, f := range list(v) {
			sym, err := ftml.ParseSymbolURI(f)
			if err != nil {
				e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, "fors", f))
				continue
			}
			if !slices.ContainsFunc(fors, func(p ftml.ParagraphFor) bool { return p.Symbol == ftml.ContentURI(sym) }) {
				fors = append(fors, ftml.ParagraphFor{Symbol: sym})
			}
		}
	}
	styles, _ := a.get("styles")
	uri := e.st.narrativeURI().Element(id)
	e.st.openParagraph(uri, fors)
	return &paragraphToken{kind: kind, inline: a.getBool("inline"), styles: list(styles), uri: uri}
}

func (e *Engine) ruleExercise(sub bool, a *attrs) token {
	styles, _ := a.get("styles")
	uri := e.st.narrativeURI().Element(e.id(a, "exercise"))
	a.take("language")
	t := &exerciseToken{sub: sub, uri: uri, autogradable: a.getBool("autogradable"), styles: list(styles)}
	if v, ok := a.first("points", "problempoints"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 32); err == nil {
			p := float32(f)
			t.points = &p
		}
	}
	e.st.openExercise(uri)
	return t
}

// ruleObjective records a precondition or learning objective of the
// enclosing exercise.
func (e *Engine) ruleObjective(m match, a *attrs) {
	symKey := "preconditionsymbol"
	if m.tag == tagObjective {
		symKey = "objectivesymbol"
	}
	sym, ok := e.symbolURI(a, symKey)
	if !ok {
		return
	}
	v, _ := a.get(m.key)
	dim, err := ftml.ParseCognitiveDimension(strings.TrimSpace(v))
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, m.key, v))
		return
	}
	ex, ok := e.st.exercise()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInNarrative, m.key, ""))
		return
	}
	o := ftml.CognitiveObjective{Dimension: dim, Symbol: sym}
	if m.tag == tagObjective {
		ex.objectives = append(ex.objectives, o)
	} else {
		ex.preconditions = append(ex.preconditions, o)
	}
}

func (e *Engine) ruleSymdecl(m match, a *attrs) token {
	v, _ := a.get(m.key)
	uri, ok := e.newSymbolURI(v, m.key)
	if !ok {
		return nil
	}
	role, _ := a.get("role")
	macro, _ := a.get("macroname")
	t := &symdeclToken{
		uri:        uri,
		arity:      e.argSpec(a),
		macroname:  macro,
		role:       list(role),
		assocType:  e.assocType(a),
		reordering: a.reordering(),
	}
	e.st.openDecl()
	return t
}

func (e *Engine) ruleVardecl(m match, a *attrs, sequence bool) token {
	v, _ := a.get(m.key)
	name, err := ftml.ParseName(strings.TrimSpace(v))
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, m.key, ""))
		return nil
	}
	role, _ := a.get("role")
	macro, _ := a.get("macroname")
	t := &vardeclToken{
		uri:        e.st.narrativeURI().Element(name),
		arity:      e.argSpec(a),
		macroname:  macro,
		role:       list(role),
		assocType:  e.assocType(a),
		reordering: a.reordering(),
		bind:       a.getBool("bind"),
		sequence:   sequence,
	}
	e.st.openDecl()
	return t
}

func (e *Engine) ruleNotation(m match, a *attrs) token {
	v, _ := a.get(m.key)
	head, ok := e.headRef(strings.TrimSpace(v))
	if !ok {
		return nil
	}
	prefix := "notation"
	if f, ok := a.first("fragment", "notationfragment"); ok && strings.TrimSpace(f) != "" {
		prefix = strings.TrimSpace(f)
	}
	t := &notationToken{head: head, id: e.st.newID(prefix)}
	if v, ok := a.get("precedence"); ok {
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, "precedence", v))
			return nil
		}
		t.precedence = p
	}
	if v, ok := a.get("argprecs"); ok {
		for _, s := range list(v) {
			p, err := strconv.Atoi(s)
			if err != nil {
				e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, "argprecs", s))
				return nil
			}
			t.argPrecs = append(t.argPrecs, p)
		}
	}
	e.st.openNotation()
	return t
}

func (e *Engine) ruleArg(m match, a *attrs) token {
	v, _ := a.get(m.key)
	v = strings.TrimSpace(v)
	if v == "" || v[0] < '1' || v[0] > '9' {
		e.Report(ftml.NewDiagnostic(ftml.InvalidArgSpec, m.key, v))
		return nil
	}
	t := &argToken{index: v[0] - '0', mode: ftml.ArgNormal}
	if len(v) > 1 {
		sub, err := strconv.ParseUint(v[1:], 10, 8)
		if err != nil || sub == 0 {
			e.Report(ftml.NewDiagnostic(ftml.InvalidArgSpec, m.key, v))
			return nil
		}
		t.sub = uint8(sub)
	}
	if mv, ok := a.get("argmode"); ok {
		if mode, err := ftml.ParseArgMode(strings.TrimSpace(mv)); err == nil {
			t.mode = mode
		}
	}
	return t
}

// headRef resolves the head of a term or notation: a symbol or module, a
// declared variable, or the name of a variable still to be resolved.
func (e *Engine) headRef(v string) (ftml.Term, bool) {
	if s, err := ftml.ParseSymbolURI(v); err == nil {
		return &ftml.Symref{URI: s}, true
	}
	if m, err := ftml.ParseModuleURI(v); err == nil {
		return &ftml.Symref{URI: m}, true
	}
	if d, err := ftml.ParseDocumentElementURI(v); err == nil {
		return &ftml.Varref{Name: ftml.Name(d.Name.Last()), Declaration: &d}, true
	}
	n, err := ftml.ParseName(v)
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidURI, "", v))
		return nil, false
	}
	return &ftml.Varref{Name: n}, true
}

func (e *Engine) ruleTerm(m match, a *attrs) token {
	if e.st.inNotation() {
		return nil
	}
	var notation ftml.Name
	if v, _ := a.get("notationid"); strings.TrimSpace(v) != "" {
		n, err := ftml.ParseName(strings.TrimSpace(v))
		if err != nil {
			e.Report(ftml.NewDiagnostic(ftml.InvalidURI, "", v))
			n = "ERROR"
		}
		notation = n
	}

	var head ftml.Term
	if v, ok := a.get("head"); ok {
		h, ok := e.headRef(strings.TrimSpace(v))
		if !ok {
			return nil
		}
		head = h
	} else {
		e.Report(ftml.NewDiagnostic(ftml.MissingHeadForTerm, m.key, ""))
		head = &ftml.Varref{Name: "ERROR"}
	}
	switch h := head.(type) {
	case *ftml.Symref:
		h.Notation = notation
	case *ftml.Varref:
		h.Notation = notation
	}

	v, _ := a.get(m.key)
	var kind termKind
	switch strings.TrimSpace(v) {
	case "OMID", "OMMOD":
		kind = termSymbol
	case "OMV":
		kind = termVariable
	case "OMA", "OMBIND":
		kind = termApplication
	case "OML":
		kind = termOML
	case "complex":
		kind = termComplex
	default:
		e.Report(ftml.NewDiagnostic(ftml.InvalidTermKind, m.key, v))
		kind = termApplication
	}

	_, isSym := head.(*ftml.Symref)
	switch {
	case kind == termSymbol || kind == termVariable:
		if isSym {
			kind = termSymbol
		} else {
			kind = termVariable
		}
	case kind == termOML && !isSym && !head.(*ftml.Varref).Resolved():
		e.st.openDecl()
	case kind == termApplication:
		e.st.openArgs()
	case kind == termComplex:
		e.st.openComplexTerm()
	default:
		e.Report(ftml.NewDiagnostic(ftml.InvalidHeadForTermKind, v, termString(head)))
		kind = termApplication
		e.st.openArgs()
	}

	top := !e.st.inTerm
	if top {
		e.st.inTerm = true
	}
	return &openTermToken{term: openTerm{kind: kind, head: head, notation: notation}, top: top}
}

func termString(t ftml.Term) string {
	switch t := t.(type) {
	case *ftml.Symref:
		return t.URI.String()
	case *ftml.Varref:
		if t.Declaration != nil {
			return t.Declaration.String()
		}
		return string(t.Name)
	}
	return ""
}
