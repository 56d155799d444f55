package dom

import (
	"strings"
)

// String returns the HTML serialization of n.
func (t *Tree) String(n Node) string {
	if !t.Valid(n) {
		return ""
	}
	var b strings.Builder
	b.Grow(t.Len(n))
	t.write(&b, n)
	return b.String()
}

// InnerString returns the HTML serialization of the children of n.
func (t *Tree) InnerString(n Node) string {
	if !t.Valid(n) {
		return ""
	}
	var b strings.Builder
	b.Grow(t.InnerRange(n).Len())
	for c := t.nodes[n].firstChild; c != 0; c = t.nodes[c].next {
		t.write(&b, c)
	}
	return b.String()
}

// StartTag returns the serialized start tag of element n.
func (t *Tree) StartTag(n Node) string {
	if t.Type(n) != ElementNode {
		return ""
	}
	var b strings.Builder
	t.writeStartTag(&b, n)
	return b.String()
}

// EndTag returns the serialized end tag of element n, which is empty for
// void elements.
func (t *Tree) EndTag(n Node) string {
	if t.Type(n) != ElementNode || IsVoid(t.nodes[n].data) {
		return ""
	}
	return "</" + t.nodes[n].data + ">"
}

func (t *Tree) write(b *strings.Builder, n Node) {
	nd := &t.nodes[n]
	switch nd.typ {
	case DocumentNode:
		for c := nd.firstChild; c != 0; c = t.nodes[c].next {
			t.write(b, c)
		}
	case ElementNode:
		t.writeStartTag(b, n)
		for c := nd.firstChild; c != 0; c = t.nodes[c].next {
			t.write(b, c)
		}
		b.WriteString(t.EndTag(n))
	case TextNode:
		if nd.raw {
			b.WriteString(nd.data)
		} else {
			b.WriteString(EscapeText(nd.data))
		}
	case DoctypeNode:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(nd.data)
		b.WriteString(">")
	}
}

func (t *Tree) writeStartTag(b *strings.Builder, n Node) {
	nd := &t.nodes[n]
	b.WriteByte('<')
	b.WriteString(nd.data)
	for _, a := range nd.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(EscapeAttr(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "\u00a0", "&nbsp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "\u00a0", "&nbsp;", `"`, "&quot;")
)

// EscapeText escapes s for use as element text.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// EscapeAttr escapes s for use as a double-quoted attribute value.
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }
