package extract

import (
	"strings"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/dom"
)

// Keys that mark a notation root and are left out of its rendering.
var notationKeys = []string{"notationcomp", "notationopcomp", "notationid", "term", "head"}

// hasVisibleAttrs reports whether n has attributes other than the
// notation markers.
func (e *Engine) hasVisibleAttrs(n dom.Node) bool {
	for _, a := range e.tree.Attrs(n) {
		if !e.isNotationKey(a.Key) {
			return true
		}
	}
	return false
}

func (e *Engine) isNotationKey(key string) bool {
	k, ok := strings.CutPrefix(key, e.opts.Prefix)
	if !ok {
		return false
	}
	for _, nk := range notationKeys {
		if k == nk {
			return true
		}
	}
	return false
}

// filterNotation skips wrappers around the markup of a notation.
func (e *Engine) filterNotation(n dom.Node) dom.Node {
	for {
		if len(e.tokens[n]) > 0 {
			return n
		}
		child, ok := e.soleChild(n)
		if !ok {
			return n
		}
		switch e.tree.Name(n) {
		case "math":
		case "mrow", "span", "div":
			if e.hasVisibleAttrs(n) {
				return n
			}
		default:
			return n
		}
		if e.tree.Type(child) != dom.ElementNode && e.tree.Type(child) != dom.TextNode {
			return n
		}
		n = child
	}
}

// notationShape returns the attribute index and text flag of a notation
// rendered by n.
func (e *Engine) notationShape(n dom.Node) (uint8, bool) {
	if e.tree.Type(n) != dom.ElementNode {
		return uint8(len("span") + 1), true
	}
	name := e.tree.Name(n)
	return uint8(len(name) + 1), name == "span" || name == "div"
}

// startTag renders the start tag of a notation root without the
// notation markers.
func (e *Engine) startTag(n dom.Node) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.tree.Name(n))
	for _, a := range e.tree.Attrs(n) {
		if e.isNotationKey(a.Key) {
			continue
		}
		b.WriteString(" " + a.Key + `="` + dom.EscapeAttr(a.Value) + `"`)
	}
	b.WriteByte('>')
	return b.String()
}

// asNotation splits the markup of n into notation components.
func (e *Engine) asNotation(n dom.Node) (uint8, bool, []ftml.NotationComponent) {
	n = e.filterNotation(n)
	idx, isText := e.notationShape(n)
	if e.tree.Type(n) != dom.ElementNode {
		return idx, isText, []ftml.NotationComponent{{
			Kind: ftml.ComponentText,
			Text: "<span>" + e.tree.String(n) + "</span>",
		}}
	}
	nb := &notationBuilder{e: e}
	nb.walk(n, true)
	nb.flush()
	return idx, isText, nb.comps
}

// asOpNotation renders n as the operator form of a notation.
func (e *Engine) asOpNotation(n dom.Node) ftml.OpNotation {
	n = e.filterNotation(n)
	idx, isText := e.notationShape(n)
	op := ftml.OpNotation{AttributeIndex: idx, IsText: isText}
	if e.tree.Type(n) != dom.ElementNode {
		op.Text = "<span>" + e.tree.String(n) + "</span>"
		return op
	}
	op.Text = e.startTag(n) + e.tree.InnerString(n) + e.tree.EndTag(n)
	return op
}

// notationBuilder accumulates literal markup until a component marker is
// reached.
type notationBuilder struct {
	e     *Engine
	buf   strings.Builder
	comps []ftml.NotationComponent
}

func (nb *notationBuilder) flush() {
	if nb.buf.Len() == 0 {
		return
	}
	nb.comps = append(nb.comps, ftml.NotationComponent{Kind: ftml.ComponentText, Text: nb.buf.String()})
	nb.buf.Reset()
}

// walk appends the components of n and returns the argument found in it.
// The start tag of the root omits the notation markers.
func (nb *notationBuilder) walk(n dom.Node, root bool) (index uint8, mode ftml.ArgMode, found bool) {
	t := nb.e.tree
	for _, tok := range nb.e.tokens[n] {
		switch tok := tok.(type) {
		case *compToken, *mainCompToken:
			nb.flush()
			kind := ftml.ComponentComp
			if _, ok := tok.(*mainCompToken); ok {
				kind = ftml.ComponentMainComp
			}
			nb.comps = append(nb.comps, ftml.NotationComponent{Kind: kind, Text: t.String(n)})
			return 0, ftml.ArgNormal, false
		case *argToken:
			nb.flush()
			nb.comps = append(nb.comps, ftml.NotationComponent{Kind: ftml.ComponentArg, Index: tok.index, Mode: tok.mode})
			return tok.index, tok.mode, true
		case *argSepToken, *argMapToken, *argMapSepToken:
			nb.flush()
			// The separator is indexed by the last argument inside it and
			// hides that argument from enclosing separators.
			sub := &notationBuilder{e: nb.e}
			for c := t.FirstChild(n); c != 0; c = t.NextSibling(c) {
				if i, m, ok := sub.walk(c, false); ok {
					index, mode, found = i, m, true
				}
			}
			sub.flush()
			kind := ftml.ComponentArgSep
			switch tok.(type) {
			case *argMapToken:
				kind = ftml.ComponentArgMap
			case *argMapSepToken:
				kind = ftml.ComponentArgMapSep
			}
			if !found {
				mode = ftml.ArgSequence
			}
			nb.comps = append(nb.comps, ftml.NotationComponent{Kind: kind, Index: index, Mode: mode, Separator: sub.comps})
			return 0, ftml.ArgNormal, false
		}
	}

	if t.Type(n) != dom.ElementNode {
		nb.buf.WriteString(t.String(n))
		return 0, ftml.ArgNormal, false
	}
	if root {
		nb.buf.WriteString(nb.e.startTag(n))
	} else {
		nb.buf.WriteString(t.StartTag(n))
	}
	for c := t.FirstChild(n); c != 0; c = t.NextSibling(c) {
		if i, m, ok := nb.walk(c, false); ok && !found {
			index, mode, found = i, m, true
		}
	}
	nb.buf.WriteString(t.EndTag(n))
	return index, mode, found
}
