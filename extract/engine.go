// Package extract implements the FTML extraction engine. An Engine is fed
// the elements of one document as they are parsed. Annotations are read
// when an element is appended to the tree and resolved when it closes,
// after all of its children, so a single pass over the document produces
// its narrative structure, its modules and their relations.
package extract

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/dom"
)

// Engine extracts one document. It is not safe for concurrent use; run
// one Engine per document.
type Engine struct {
	ctx  context.Context
	opts Options
	uri  ftml.DocumentURI

	tree   *dom.Tree
	tokens map[dom.Node][]token
	st     state

	resources   bytes.Buffer
	triples     []ftml.Triple
	diagnostics []ftml.Diagnostic
	css         []ftml.CSS
	refs        []moduleRef
	body        dom.Node
	title       string
	blanks      int
	err         error
}

// New returns an Engine for the document identified by uri.
func New(ctx context.Context, uri ftml.DocumentURI, opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if uri.Language == "" {
		uri.Language = ftml.English
	}
	e := &Engine{
		ctx:    ctx,
		opts:   opts,
		uri:    uri,
		tree:   dom.New(),
		tokens: make(map[dom.Node][]token),
	}
	e.st = newState(uri, e.Report)

	if opts.RDF {
		doc := uri.String()
		e.triples = append(e.triples,
			ftml.Triple{Subject: ftml.IRI(doc), Predicate: ftml.IRI(ftml.DCLanguage), Object: ftml.Literal(string(uri.Language))},
			ftml.NewTriple(doc, ftml.RDFType, ftml.ULODocument),
			ftml.NewTriple(uri.Archive.String(), ftml.ULOContains, doc),
		)
	}
	return e, nil
}

// Tree returns the document tree under construction.
func (e *Engine) Tree() *dom.Tree { return e.tree }

// Report records a diagnostic.
func (e *Engine) Report(d ftml.Diagnostic) {
	e.diagnostics = append(e.diagnostics, d)
}

// Append appends child to parent. The previous last child of parent is
// closed first. Annotations of an element child are processed before it
// is attached.
func (e *Engine) Append(parent, child dom.Node) {
	if last := e.tree.LastChild(parent); last != 0 {
		e.Close(last)
	}
	if e.tree.Type(child) == dom.ElementNode {
		if e.tree.IsElement(child, "img") {
			e.rewriteImage(child)
		}
		if toks := e.classify(child); len(toks) > 0 {
			e.tokens[child] = toks
		}
	}
	e.tree.Append(parent, child)
}

// AppendText appends text to parent, merging it into a trailing text node.
func (e *Engine) AppendText(parent dom.Node, s string) {
	if last := e.tree.LastChild(parent); last != 0 {
		e.Close(last)
	}
	e.tree.AppendText(parent, s)
}

// Close finishes element n: its children are closed first, then the
// tokens of n in reverse order, then the page frame handling of n.
// Closing a node twice is a no-op.
func (e *Engine) Close(n dom.Node) {
	if e.tree.Type(n) != dom.ElementNode || e.tree.Closed(n) {
		return
	}
	e.tree.SetClosed(n)
	for c := e.tree.FirstChild(n); c != 0; {
		next := e.tree.NextSibling(c)
		e.Close(c)
		c = next
	}

	c := &closing{node: n, previous: e.tokens[n]}
	delete(e.tokens, n)
	for len(c.previous) > 0 {
		t := c.previous[len(c.previous)-1]
		c.previous = c.previous[:len(c.previous)-1]
		if tr := t.close(e, c); tr.requeue != nil {
			c.next = append(c.next, tr.requeue)
		}
	}
	if c.delete {
		e.tree.Delete(n)
		return
	}
	if e.closeHTML(n) {
		return
	}
	if len(c.next) > 0 {
		e.tokens[n] = c.next
	}
}

// closeHTML handles the elements of the page frame. It reports whether n
// was removed from the tree.
func (e *Engine) closeHTML(n dom.Node) bool {
	switch e.tree.Name(n) {
	case "body":
		e.body = n
	case "link":
		if !e.tree.IsElement(e.tree.Parent(n), "head") {
			return false
		}
		if rel, _ := e.tree.Attr(n, "rel"); rel != "stylesheet" {
			return false
		}
		href, ok := e.tree.Attr(n, "href")
		if !ok {
			return false
		}
		if strings.HasPrefix(href, "file://") && strings.HasSuffix(href, "/rustex.css") {
			href = "/rustex.css"
		}
		e.css = append(e.css, ftml.CSS{Link: href})
		e.tree.Delete(n)
		return true
	case "style":
		if !e.tree.IsElement(e.tree.Parent(n), "head") {
			return false
		}
		e.css = append(e.css, ftml.CSS{Inline: e.tree.InnerString(n)})
		e.tree.Delete(n)
		return true
	}
	return false
}

// rewriteImage points local image sources at the image endpoint of the
// archive they belong to.
func (e *Engine) rewriteImage(n dom.Node) {
	src, ok := e.tree.Attr(n, "src")
	if !ok || src == "" || strings.HasPrefix(src, "/img?") || strings.HasPrefix(src, "data:") || strings.Contains(src, "://") {
		return
	}
	if e.opts.Backend != nil {
		if a, rel, err := e.opts.Backend.ArchiveOf(e.ctx, src); err == nil {
			e.tree.SetAttr(n, "src", "/img?a="+a.ID+"&rp="+strings.TrimPrefix(rel, "/"))
			return
		}
	}
	e.tree.SetAttr(n, "src", "/img?file="+src)
}

// Finish closes all open elements and returns the extraction result. If
// the scopes opened by the document are unbalanced, Finish returns the
// best-effort result together with an EINTERNAL error.
func (e *Engine) Finish() (*ftml.Result, error) {
	doc := e.tree.Document()
	for _, c := range e.tree.Children(doc) {
		e.Close(c)
	}
	e.resolveModules()

	res := &ftml.Result{
		Document:  ftml.Document{URI: e.uri, Title: e.title},
		HTML:      e.tree.String(doc),
		CSS:       e.css,
		Body:      e.tree.Range(doc),
		Resources: e.resources.Bytes(),
		Modules:   e.st.modules,
		Triples:   e.triples,
	}
	if e.tree.Valid(e.body) {
		res.Body = e.tree.Range(e.body)
		res.BodyInnerOffset = len(e.tree.StartTag(e.body))
	}
	if root, ok := e.st.narrative[0].(*containerFrame); ok {
		res.Document.Elements = root.children
	}

	var err error
	switch {
	case e.err != nil:
		err = e.err
	case !e.st.balanced():
		e.Report(ftml.NewDiagnostic(ftml.UnbalancedDocument, "", ""))
		err = ftml.Errorf(ftml.EINTERNAL, "unbalanced ftml document")
	}
	res.Diagnostics = e.diagnostics
	return res, err
}

// moduleRef is a module referenced by an element tagged tag.
type moduleRef struct {
	tag string
	uri ftml.ModuleURI
}

// resolveModules looks up the referenced modules that the document does
// not declare itself and reports those the backend does not know. Nested
// modules are looked up through their top-level module.
func (e *Engine) resolveModules() {
	if e.opts.Backend == nil || len(e.refs) == 0 {
		return
	}
	checked := make(map[string]bool, len(e.st.modules)+len(e.refs))
	for _, m := range e.st.modules {
		checked[m.URI.String()] = true
	}
	for _, r := range e.refs {
		top := r.uri
		top.Name = ftml.Name(r.uri.Name.First())
		key := top.String()
		if checked[key] {
			continue
		}
		checked[key] = true
		if _, err := e.opts.Backend.FindModule(e.ctx, top); err != nil {
			e.Report(ftml.NewDiagnostic(ftml.UnresolvedModule, r.tag, r.uri.String()))
		}
	}
}

func (e *Engine) triple(subject, predicate, object string) {
	if e.opts.RDF {
		e.triples = append(e.triples, ftml.NewTriple(subject, predicate, object))
	}
}

func (e *Engine) blank() ftml.Node {
	e.blanks++
	return ftml.Blank("b" + strconv.Itoa(e.blanks))
}

// resource appends v to the resource buffer.
func (e *Engine) resource(v any) (ftml.LazyRef, bool) {
	ref, err := ftml.EncodeResource(&e.resources, v)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		return ftml.LazyRef{}, false
	}
	return ref, true
}
