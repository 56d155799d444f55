// Package htmltomarkdown converts rendered FTML fragments to Markdown using
// github.com/JohannesKaufmann/html-to-markdown/v2.
package htmltomarkdown

import (
	"bytes"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/ftml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Converter implements ftml.Converter at compile time.
var _ ftml.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown. MathML
// formulas become inline $...$ spans of their text.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an HTML fragment into Markdown. Blank input converts
// to the empty string.
func (c *Converter) Convert(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	src, err := inlineMath(src)
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(src)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}

// inlineMath replaces every <math> element of the fragment src with its
// text wrapped in dollar signs.
func inlineMath(src string) (string, error) {
	if !strings.Contains(src, "<math") {
		return src, nil
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return "", ftml.Errorf(ftml.EINVALID, "invalid fragment: %v", err)
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		replaceMath(n)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func replaceMath(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && c.DataAtom == atom.Math {
			var b strings.Builder
			text(&b, c)
			n.InsertBefore(&html.Node{Type: html.TextNode, Data: "$" + strings.TrimSpace(b.String()) + "$"}, c)
			n.RemoveChild(c)
		} else {
			replaceMath(c)
		}
		c = next
	}
}

func text(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text(b, c)
	}
}
