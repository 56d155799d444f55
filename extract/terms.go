package extract

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/dom"
)

// closeTerm finishes an open term once all of its arguments are known.
func (e *Engine) closeTerm(t openTerm) ftml.Term {
	switch t.kind {
	case termSymbol, termVariable:
		return e.resolveHead(t.head)
	case termOML:
		v, _ := t.head.(*ftml.Varref)
		oml := &ftml.OML{}
		if v != nil {
			oml.Name = v.Name
		}
		df, ok := e.st.closeDecl()
		if !ok {
			e.Report(ftml.NewDiagnostic(ftml.NotInContent, "term", ""))
			return oml
		}
		oml.Type, oml.Definiens = df.tp, df.df
		return oml
	case termComplex:
		head := e.resolveHead(t.head)
		tm, ok := e.st.closeComplexTerm()
		if !ok || tm == nil {
			e.Report(ftml.NewDiagnostic(ftml.MissingTermForComplex, "", termString(head)))
			return head
		}
		if rec, key, ok := ftml.AsFieldProjection(tm); ok {
			return &ftml.Field{Record: rec, Key: key, Owner: head}
		}
		if f, ok := tm.(*ftml.Field); ok {
			f.Owner = head
			return f
		}
		return tm
	}

	args, headTerm, ok := e.st.closeArgs()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, "term", ""))
	}
	head := e.resolveHead(t.head)
	if headTerm != nil {
		if rec, key, ok := ftml.AsFieldProjection(headTerm); ok {
			return &ftml.Field{Record: rec, Key: key, Owner: head}
		}
		head = headTerm
	}
	app := &ftml.Application{Head: head, Args: args}
	if rec, key, ok := ftml.AsFieldProjection(app); ok {
		return &ftml.Field{Record: rec, Key: key}
	}
	return app
}

// resolveHead records references to symbols and binds variable names to
// their declarations.
func (e *Engine) resolveHead(h ftml.Term) ftml.Term {
	switch h := h.(type) {
	case *ftml.Symref:
		e.triple(e.uri.String(), ftml.ULOCrossrefs, h.URI.String())
	case *ftml.Varref:
		if h.Resolved() {
			return h
		}
		v, ok := e.st.resolveVariable(h.Name)
		if !ok {
			e.Report(ftml.NewDiagnostic(ftml.UnresolvedVariable, "", string(h.Name)))
			return h
		}
		v.Notation = h.Notation
		return v
	}
	return h
}

// asTerm returns the term an element stands for: a term closed on the
// element itself, or the reconstruction of its markup.
func (e *Engine) asTerm(c *closing) ftml.Term {
	if t, ok := c.takeClosedTerm(); ok {
		return t
	}
	return e.nodeTerm(e.filterTerm(c.node))
}

// leftoverTerm removes a closed term from the requeued tokens of n.
func (e *Engine) leftoverTerm(n dom.Node, take bool) (ftml.Term, bool) {
	toks := e.tokens[n]
	for i, t := range toks {
		ct, ok := t.(*closedTermToken)
		if !ok {
			continue
		}
		if take {
			e.tokens[n] = append(toks[:i:i], toks[i+1:]...)
		}
		return ct.term, true
	}
	return nil, false
}

// soleChild returns the only significant child of n: an element or a
// non-blank text node.
func (e *Engine) soleChild(n dom.Node) (dom.Node, bool) {
	var only dom.Node
	count := 0
	for c := e.tree.FirstChild(n); c != 0; c = e.tree.NextSibling(c) {
		switch e.tree.Type(c) {
		case dom.ElementNode:
		case dom.TextNode:
			if strings.TrimSpace(e.tree.Text(c)) == "" {
				continue
			}
		default:
			continue
		}
		count++
		only = c
	}
	return only, count == 1
}

// filterTerm skips wrappers that carry no meaning of their own.
func (e *Engine) filterTerm(n dom.Node) dom.Node {
	for {
		if _, ok := e.leftoverTerm(n, false); ok {
			return n
		}
		child, ok := e.soleChild(n)
		if !ok || e.tree.Type(child) != dom.ElementNode {
			return n
		}
		switch e.tree.Name(n) {
		case "math", "mrow":
		case "span", "div":
			if class, ok := e.tree.Attr(n, "class"); ok && class != "rustex_contents" {
				return n
			}
			if _, ok := e.tree.Attr(n, "style"); ok {
				return n
			}
		default:
			return n
		}
		n = child
	}
}

// nodeTerm reconstructs the term of element n. Markup without semantic
// annotations becomes an Informal term whose embedded terms are listed
// out of line and referenced by index.
func (e *Engine) nodeTerm(n dom.Node) ftml.Term {
	if t, ok := e.leftoverTerm(n, true); ok {
		return t
	}
	if v, ok := e.variableIdentifier(n); ok {
		return v
	}
	inf := &ftml.Informal{Tag: e.tree.Name(n), Attributes: slices.Clone(e.tree.Attrs(n))}
	for c := e.tree.FirstChild(n); c != 0; c = e.tree.NextSibling(c) {
		switch e.tree.Type(c) {
		case dom.TextNode:
			if s := strings.TrimSpace(e.tree.Text(c)); s != "" {
				inf.Children = append(inf.Children, ftml.InformalText(s))
			}
		case dom.ElementNode:
			sub := e.nodeTerm(e.filterTerm(c))
			si, ok := sub.(*ftml.Informal)
			if !ok {
				inf.Children = append(inf.Children, ftml.InformalTerm(len(inf.Terms)))
				inf.Terms = append(inf.Terms, sub)
				continue
			}
			inf.Children = append(inf.Children, &ftml.InformalElement{
				Tag:        si.Tag,
				Attributes: si.Attributes,
				Children:   shiftInformal(si.Children, len(inf.Terms)),
			})
			inf.Terms = append(inf.Terms, si.Terms...)
		}
	}
	return inf
}

// variableIdentifier resolves an <mi> holding a single character that
// names a variable in scope.
func (e *Engine) variableIdentifier(n dom.Node) (*ftml.Varref, bool) {
	if !e.tree.IsElement(n, "mi") {
		return nil, false
	}
	c, ok := e.soleChild(n)
	if !ok || e.tree.Type(c) != dom.TextNode {
		return nil, false
	}
	s := strings.TrimSpace(e.tree.Text(c))
	if utf8.RuneCountInString(s) != 1 {
		return nil, false
	}
	name, err := ftml.ParseName(s)
	if err != nil {
		return nil, false
	}
	return e.st.resolveVariable(name)
}

func shiftInformal(children []ftml.InformalChild, off int) []ftml.InformalChild {
	if off == 0 {
		return children
	}
	out := make([]ftml.InformalChild, len(children))
	for i, c := range children {
		switch c := c.(type) {
		case ftml.InformalTerm:
			out[i] = c + ftml.InformalTerm(off)
		case *ftml.InformalElement:
			out[i] = &ftml.InformalElement{Tag: c.Tag, Attributes: c.Attributes, Children: shiftInformal(c.Children, off)}
		default:
			out[i] = c
		}
	}
	return out
}
