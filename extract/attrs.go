package extract

import (
	"strconv"
	"strings"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/dom"
)

// attrs gives rules access to the annotations of one element. Taking an
// attribute removes it from the element; getting leaves it in place.
type attrs struct {
	tree   *dom.Tree
	node   dom.Node
	prefix string
}

func (a *attrs) get(key string) (string, bool) {
	return a.tree.Attr(a.node, a.prefix+key)
}

func (a *attrs) take(key string) (string, bool) {
	return a.tree.RemoveAttr(a.node, a.prefix+key)
}

func (a *attrs) remove(keys ...string) {
	for _, k := range keys {
		a.tree.RemoveAttr(a.node, a.prefix+k)
	}
}

func (a *attrs) getBool(key string) bool {
	v, _ := a.get(key)
	b, _ := strconv.ParseBool(strings.TrimSpace(v))
	return b
}

func (a *attrs) takeBool(key string) bool {
	v, _ := a.take(key)
	b, _ := strconv.ParseBool(strings.TrimSpace(v))
	return b
}

// list splits a comma separated value, dropping empty items.
func list(v string) []string {
	var a []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			a = append(a, s)
		}
	}
	return a
}

// keys returns the annotation keys of the element, prefix stripped.
func (a *attrs) keys() []string {
	var ks []string
	for _, at := range a.tree.Attrs(a.node) {
		if k, ok := strings.CutPrefix(at.Key, a.prefix); ok {
			ks = append(ks, k)
		}
	}
	return ks
}

// The typed getters below report a diagnostic and return false when a
// value is missing or malformed.

func (e *Engine) id(a *attrs, prefix string) ftml.Name {
	if v, ok := a.get("id"); ok && v != "" {
		if strings.HasPrefix(v, "http") && strings.Contains(v, "?") {
			v = v[strings.LastIndexByte(v, '?')+1:]
		}
		if n, err := ftml.ParseName(v); err == nil {
			return n
		}
	}
	return e.st.newID(prefix)
}

func (e *Engine) sectionLevel(a *attrs, key string) (ftml.SectionLevel, bool) {
	v, ok := a.get(key)
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, key, ""))
		return 0, false
	}
	l, err := ftml.ParseSectionLevel(strings.TrimSpace(v))
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, key, v))
		return 0, false
	}
	return l, true
}

// moduleURI resolves a reference to an existing module. Values are full
// module URIs or names of modules in the current document.
func (e *Engine) moduleURI(a *attrs, key string, take bool) (ftml.ModuleURI, bool) {
	v, ok := a.get(key)
	if take {
		v, ok = a.take(key)
	}
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, key, ""))
		return ftml.ModuleURI{}, false
	}
	v = strings.TrimSpace(v)
	if m, err := ftml.ParseModuleURI(v); err == nil {
		return m, true
	}
	n, err := ftml.ParseName(v)
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidURI, "", v))
		return ftml.ModuleURI{}, false
	}
	return e.uri.Module(n), true
}

// newModuleURI names a module declared by the element: nested in the open
// module, or a top-level module of the document.
func (e *Engine) newModuleURI(a *attrs, key string) (ftml.ModuleURI, bool) {
	v, ok := a.take(key)
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, key, ""))
		return ftml.ModuleURI{}, false
	}
	v = strings.TrimSpace(v)
	if m, err := ftml.ParseModuleURI(v); err == nil {
		return m, true
	}
	n, err := ftml.ParseName(v)
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidURI, "", v))
		return ftml.ModuleURI{}, false
	}
	if m, ok := e.st.contentModule(); ok {
		return m.Nested(n), true
	}
	return e.uri.Module(n), true
}

// newSymbolURI names a symbol declared in the open module.
func (e *Engine) newSymbolURI(v string, key string) (ftml.SymbolURI, bool) {
	v = strings.TrimSpace(v)
	if s, err := ftml.ParseSymbolURI(v); err == nil {
		return s, true
	}
	n, err := ftml.ParseName(v)
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, key, v))
		return ftml.SymbolURI{}, false
	}
	m, ok := e.st.contentModule()
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.NotInContent, key, ""))
		return ftml.SymbolURI{}, false
	}
	return m.Symbol(n), true
}

// symbolURI resolves a reference to a symbol, which must be a full URI.
func (e *Engine) symbolURI(a *attrs, key string) (ftml.SymbolURI, bool) {
	v, ok := a.get(key)
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, key, ""))
		return ftml.SymbolURI{}, false
	}
	s, err := ftml.ParseSymbolURI(strings.TrimSpace(v))
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidURI, "", v))
		return ftml.SymbolURI{}, false
	}
	return s, true
}

func (e *Engine) documentURI(a *attrs, key string) (ftml.DocumentURI, bool) {
	v, ok := a.get(key)
	if !ok {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, key, ""))
		return ftml.DocumentURI{}, false
	}
	d, err := ftml.ParseDocumentURI(strings.TrimSpace(v))
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidURI, "", v))
		return ftml.DocumentURI{}, false
	}
	return d, true
}

func (e *Engine) argSpec(a *attrs) ftml.ArgSpec {
	v, ok := a.get("args")
	if !ok {
		return nil
	}
	spec, err := ftml.ParseArgSpec(strings.TrimSpace(v))
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, "args", v))
		return nil
	}
	return spec
}

func (e *Engine) assocType(a *attrs) ftml.AssocType {
	v, ok := a.get("assoctype")
	if !ok {
		return ftml.AssocNone
	}
	t, err := ftml.ParseAssocType(strings.TrimSpace(v))
	if err != nil {
		e.Report(ftml.NewDiagnostic(ftml.InvalidKeyFor, "assoctype", v))
	}
	return t
}

func (a *attrs) reordering() string {
	if v, ok := a.get("reordering"); ok {
		return v
	}
	v, _ := a.get("reorderargs")
	return v
}

func (a *attrs) first(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := a.get(k); ok {
			return v, true
		}
	}
	return "", false
}
