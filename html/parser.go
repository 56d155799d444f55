// Package html implements ftml.Extractor by streaming a document through
// the golang.org/x/net/html tokenizer into the extraction engine.
package html

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/build"
	"github.com/fwojciec/ftml/dom"
	"github.com/fwojciec/ftml/extract"
	"golang.org/x/net/html"
)

// Ensure Parser implements ftml.Extractor at compile time.
var _ ftml.Extractor = (*Parser)(nil)

// Parser extracts FTML documents.
type Parser struct {
	// Options configure every extraction run.
	Options extract.Options

	// Metadata provides titles for documents without a doctitle
	// annotation. It may be nil.
	Metadata ftml.MetadataExtractor
}

// NewParser creates a Parser with the given engine options.
func NewParser(opts extract.Options) *Parser {
	return &Parser{Options: opts}
}

// Extract parses src as the document identified by uri. The tree is built
// token by token: elements are appended as their start tags arrive and
// closed by their end tags, so annotations are resolved in a single pass.
func (p *Parser) Extract(ctx context.Context, uri ftml.DocumentURI, src string) (*ftml.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := extract.New(ctx, uri, p.Options)
	if err != nil {
		return nil, err
	}
	tree := e.Tree()

	open := []dom.Node{tree.Document()}
	z := html.NewTokenizer(strings.NewReader(src))
loop:
	for {
		tt := z.Next()
		top := open[len(open)-1]
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				e.Report(ftml.NewDiagnostic(ftml.ParseError, "", err.Error()))
			}
			break loop
		case html.TextToken:
			if s := string(z.Text()); s != "" {
				e.AppendText(top, s)
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			n := tree.NewElement(tok.Data, attributes(tok.Attr))
			e.Append(top, n)
			if tt == html.SelfClosingTagToken || dom.IsVoid(tok.Data) {
				e.Close(n)
				continue
			}
			open = append(open, n)
		case html.EndTagToken:
			name, _ := z.TagName()
			i := len(open) - 1
			for ; i > 0; i-- {
				if tree.Name(open[i]) == string(name) {
					break
				}
			}
			if i == 0 {
				e.Report(ftml.NewDiagnostic(ftml.ParseError, "", "unexpected end tag </"+string(name)+">"))
				continue
			}
			e.Close(open[i])
			open = open[:i]
		case html.DoctypeToken:
			if top == tree.Document() {
				e.Append(top, tree.NewDoctype(string(z.Text())))
			}
		}
	}

	res, err := e.Finish()
	if res == nil {
		return nil, err
	}
	res.Hash = build.ComputeHash(src)
	if res.Document.Title == "" && p.Metadata != nil {
		if md, mdErr := p.Metadata.ExtractMetadata(src); mdErr == nil {
			res.Document.Title = md.Title
		}
	}
	return res, err
}

func attributes(attrs []html.Attribute) []ftml.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	a := make([]ftml.Attribute, 0, len(attrs))
	for _, at := range attrs {
		key := at.Key
		if at.Namespace != "" {
			key = at.Namespace + ":" + key
		}
		a = append(a, ftml.Attribute{Key: key, Value: at.Val})
	}
	return a
}
