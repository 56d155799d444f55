// Package etree writes MathWebSearch harvests of extracted terms using
// github.com/beevik/etree.
package etree

import (
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/ftml"
)

// Ensure Harvester implements ftml.Harvester at compile time.
var _ ftml.Harvester = (*Harvester)(nil)

const (
	namespaceMathML = "http://www.w3.org/1998/Math/MathML"
	namespaceMWS    = "http://search.mathweb.org/ns"
)

// Harvester writes one <mws:harvest> per call. Every document becomes an
// <mws:data> element and every top-level term an <mws:expr> holding its
// content MathML.
type Harvester struct {
	// Indent is the number of spaces per nesting level; 0 writes
	// everything on one line.
	Indent int
}

// Harvest writes the harvest of results to w.
func (h *Harvester) Harvest(w io.Writer, results ...*ftml.Result) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	// <mws:harvest>
	root := doc.CreateElement("mws:harvest")
	root.CreateAttr("xmlns:mws", namespaceMWS)
	root.CreateAttr("xmlns:m", namespaceMathML)

	for i, res := range results {
		id := strconv.Itoa(i)

		// <mws:data mws:data_id={id}>
		data := root.CreateElement("mws:data")
		data.CreateAttr("mws:data_id", id)
		data.CreateElement("id").SetText(res.Document.URI.String())
		data.CreateElement("text").SetText(res.Document.Title)
		data.CreateElement("metadata")

		ftml.Walk(res.Document.Elements, func(e ftml.DocumentElement) bool {
			if t, ok := e.(*ftml.TopTerm); ok {
				// <mws:expr url={term uri} mws:data_id={id}>
				expr := root.CreateElement("mws:expr")
				expr.CreateAttr("url", t.URI.String())
				expr.CreateAttr("mws:data_id", id)
				writeTerm(expr, t.Term)
			}
			return true
		})
	}

	if h.Indent > 0 {
		doc.Indent(h.Indent)
	}
	_, err := doc.WriteTo(w)
	return err
}

// writeTerm appends the content MathML of t to parent.
func writeTerm(parent *etree.Element, t ftml.Term) {
	switch t := t.(type) {
	case *ftml.Symref:
		parent.CreateElement("m:csymbol").SetText(t.URI.String())
	case *ftml.Varref:
		parent.CreateElement("m:ci").SetText(string(t.Name))
	case *ftml.OML:
		parent.CreateElement("m:ci").SetText(string(t.Name))
	case *ftml.Application:
		writeApplication(parent, t)
	case *ftml.Field:
		apply := parent.CreateElement("m:apply")
		apply.CreateElement("m:csymbol").SetText(ftml.FieldProjection.String())
		writeTerm(apply, t.Record)
		apply.CreateElement("m:ci").SetText(string(t.Key))
	case *ftml.Informal:
		writeInformal(parent, t)
	}
}

// writeApplication writes an <m:apply>, or an <m:bind> when an argument
// binds variables.
func writeApplication(parent *etree.Element, a *ftml.Application) {
	binding := false
	for _, arg := range a.Args {
		if arg.Mode.IsBinding() {
			binding = true
			break
		}
	}
	if !binding {
		apply := parent.CreateElement("m:apply")
		writeTerm(apply, a.Head)
		for _, arg := range a.Args {
			writeTerm(apply, arg.Term)
		}
		return
	}

	bind := parent.CreateElement("m:bind")
	writeTerm(bind, a.Head)
	for _, arg := range a.Args {
		if !arg.Mode.IsBinding() {
			continue
		}
		bvar := bind.CreateElement("m:bvar")
		if seq, ok := arg.Term.(*ftml.Application); ok && arg.Mode.IsSequence() && isSequence(seq) {
			for _, v := range seq.Args {
				writeTerm(bvar, v.Term)
			}
			continue
		}
		writeTerm(bvar, arg.Term)
	}
	for _, arg := range a.Args {
		if !arg.Mode.IsBinding() {
			writeTerm(bind, arg.Term)
		}
	}
}

func isSequence(a *ftml.Application) bool {
	s, ok := a.Head.(*ftml.Symref)
	return ok && s.URI == ftml.SequenceExpression
}

// writeInformal writes informal markup as <m:semantics> whose first child
// lists the formal subterms and whose annotation carries the markup.
func writeInformal(parent *etree.Element, t *ftml.Informal) {
	sem := parent.CreateElement("m:semantics")
	list := sem.CreateElement("m:list")
	for _, sub := range t.Terms {
		writeTerm(list, sub)
	}
	var b strings.Builder
	writeInformalHTML(&b, t.Tag, t.Attributes, t.Children)
	ann := sem.CreateElement("m:annotation")
	ann.CreateAttr("encoding", "text/html")
	ann.SetText(b.String())
}

// writeInformalHTML renders informal markup; lifted terms appear as #i.
func writeInformalHTML(b *strings.Builder, tag string, attrs []ftml.Attribute, children []ftml.InformalChild) {
	b.WriteString("<" + tag)
	for _, a := range attrs {
		b.WriteString(" " + a.Key + `="` + a.Value + `"`)
	}
	b.WriteString(">")
	for _, c := range children {
		switch c := c.(type) {
		case ftml.InformalText:
			b.WriteString(string(c))
		case ftml.InformalTerm:
			b.WriteString("#" + strconv.Itoa(int(c)))
		case *ftml.InformalElement:
			writeInformalHTML(b, c.Tag, c.Attributes, c.Children)
		}
	}
	b.WriteString("</" + tag + ">")
}
