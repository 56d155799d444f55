// Package expr selects search entries with expr-lang expressions such as
//
//	kind == "definition" && "http://example.org?a=m&m=M&s=plus" in fors
//
// Entries expose the fields uri, kind, fors, title and body.
package expr

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/fwojciec/ftml"
)

// Ensure Filter implements ftml.SearchEntryFilter at compile time.
var _ ftml.SearchEntryFilter = (*Filter)(nil)

// Filter is a compiled boolean expression over search entries.
type Filter struct {
	src  string
	prog *vm.Program
}

func options() []expr.Option {
	return []expr.Option{
		expr.Env(ftml.SearchEntry{}),
		expr.AsBool(),
		expr.Function("mentions", mentions, new(func([]string, string) bool)),
	}
}

// NewFilter compiles src. An empty expression matches every entry.
func NewFilter(src string) (*Filter, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		src = "true"
	}
	prog, err := expr.Compile(src, options()...)
	if err != nil {
		return nil, ftml.Errorf(ftml.EINVALID, "invalid filter %q: %v", src, err)
	}
	return &Filter{src: src, prog: prog}, nil
}

// Match reports whether e satisfies the expression.
func (f *Filter) Match(e *ftml.SearchEntry) (bool, error) {
	out, err := expr.Run(f.prog, *e)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.src, err)
	}
	return out.(bool), nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.src
}

// mentions reports whether any symbol URI in fors has the given symbol
// name, e.g. mentions(fors, "plus").
func mentions(params ...any) (any, error) {
	fors, _ := params[0].([]string)
	name, _ := params[1].(string)
	for _, f := range fors {
		uri, err := ftml.ParseSymbolURI(f)
		if err != nil {
			continue
		}
		if string(uri.Name) == name || strings.HasSuffix(string(uri.Name), "/"+name) {
			return true, nil
		}
	}
	return false, nil
}
