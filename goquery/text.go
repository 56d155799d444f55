// Package goquery reduces FTML fragments to plain text using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ftml"
)

// Ensure TextExtractor implements ftml.TextExtractor at compile time.
var _ ftml.TextExtractor = (*TextExtractor)(nil)

// TextExtractor returns the visible text of an HTML fragment with
// whitespace collapsed. Formulas are replaced by their alttext when they
// carry one.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Text returns the plain text of html.
func (e *TextExtractor) Text(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ftml.Errorf(ftml.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("script, style, template").Remove()

	// Hidden markup such as argument placeholders and invisible terms.
	doc.Find("[style*='display:none'], [style*='display: none'], [hidden]").Remove()

	doc.Find("math").Each(func(_ int, sel *goquery.Selection) {
		if alt, ok := sel.Attr("alttext"); ok && strings.TrimSpace(alt) != "" {
			sel.ReplaceWithHtml(" " + escape(alt) + " ")
			return
		}
		sel.Find("annotation, annotation-xml").Remove()
	})

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return escaper.Replace(s)
}
