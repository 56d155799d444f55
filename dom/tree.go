// Package dom provides the mutable document tree the extraction engine
// builds while parsing. Nodes live in an arena and are addressed by index;
// every node tracks the byte range its serialization occupies in the
// serialization of the whole document, and all mutations keep these ranges
// exact without re-serializing.
package dom

import (
	"unicode/utf8"

	"github.com/fwojciec/ftml"
)

// NodeType is the type of a node.
type NodeType uint8

// Node types.
const (
	DocumentNode NodeType = iota + 1
	ElementNode
	TextNode
	DoctypeNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case DoctypeNode:
		return "doctype"
	}
	return "invalid"
}

// Node is a handle to a node of a Tree. The zero Node refers to no node.
// Handles to removed nodes stay invalid; slots are never reused.
type Node int32

type node struct {
	typ    NodeType
	data   string
	attrs  []ftml.Attribute
	start  int
	end    int
	closed bool
	raw    bool

	parent     Node
	firstChild Node
	lastChild  Node
	prev       Node
	next       Node
}

// Tree is an arena of nodes rooted at a document node.
// A Tree is not safe for concurrent use.
type Tree struct {
	nodes []node
}

// New returns a tree holding an empty document.
func New() *Tree {
	t := &Tree{nodes: make([]node, 2, 64)}
	t.nodes[1] = node{typ: DocumentNode}
	return t
}

// Document returns the root node.
func (t *Tree) Document() Node { return 1 }

func (t *Tree) alloc(n node) Node {
	t.nodes = append(t.nodes, n)
	return Node(len(t.nodes) - 1)
}

// Valid reports whether n refers to a live node.
func (t *Tree) Valid(n Node) bool {
	return n > 0 && int(n) < len(t.nodes) && t.nodes[n].typ != 0
}

// NewElement creates a detached element.
func (t *Tree) NewElement(name string, attrs []ftml.Attribute) Node {
	n := node{typ: ElementNode, data: name, attrs: attrs}
	n.end = tagLen(name, attrs)
	return t.alloc(n)
}

// NewText creates a detached text node.
func (t *Tree) NewText(s string) Node {
	return t.alloc(node{typ: TextNode, data: s, end: textLen(s, false)})
}

// NewDoctype creates a detached doctype.
func (t *Tree) NewDoctype(name string) Node {
	return t.alloc(node{typ: DoctypeNode, data: name, end: len("<!DOCTYPE >") + len(name)})
}

// Type returns the type of n, or 0 for invalid handles.
func (t *Tree) Type(n Node) NodeType {
	if !t.Valid(n) {
		return 0
	}
	return t.nodes[n].typ
}

// Name returns the tag name of an element.
func (t *Tree) Name(n Node) string {
	if t.Type(n) != ElementNode {
		return ""
	}
	return t.nodes[n].data
}

// IsElement reports whether n is an element with the given tag name.
func (t *Tree) IsElement(n Node, name string) bool {
	return t.Type(n) == ElementNode && t.nodes[n].data == name
}

// Text returns the unescaped content of a text node.
func (t *Tree) Text(n Node) string {
	if t.Type(n) != TextNode {
		return ""
	}
	return t.nodes[n].data
}

// Attrs returns the attributes of an element. The slice must not be
// modified.
func (t *Tree) Attrs(n Node) []ftml.Attribute {
	if t.Type(n) != ElementNode {
		return nil
	}
	return t.nodes[n].attrs
}

// Attr returns the value of the attribute key of n.
func (t *Tree) Attr(n Node, key string) (string, bool) {
	for _, a := range t.Attrs(n) {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Parent returns the parent of n.
func (t *Tree) Parent(n Node) Node {
	if !t.Valid(n) {
		return 0
	}
	return t.nodes[n].parent
}

// FirstChild returns the first child of n.
func (t *Tree) FirstChild(n Node) Node {
	if !t.Valid(n) {
		return 0
	}
	return t.nodes[n].firstChild
}

// LastChild returns the last child of n.
func (t *Tree) LastChild(n Node) Node {
	if !t.Valid(n) {
		return 0
	}
	return t.nodes[n].lastChild
}

// NextSibling returns the sibling following n.
func (t *Tree) NextSibling(n Node) Node {
	if !t.Valid(n) {
		return 0
	}
	return t.nodes[n].next
}

// PrevSibling returns the sibling preceding n.
func (t *Tree) PrevSibling(n Node) Node {
	if !t.Valid(n) {
		return 0
	}
	return t.nodes[n].prev
}

// Children returns the children of n in order.
func (t *Tree) Children(n Node) []Node {
	var a []Node
	for c := t.FirstChild(n); c != 0; c = t.nodes[c].next {
		a = append(a, c)
	}
	return a
}

// Closed reports whether the parser finished reading n.
func (t *Tree) Closed(n Node) bool {
	return t.Valid(n) && t.nodes[n].closed
}

// SetClosed marks n as fully read.
func (t *Tree) SetClosed(n Node) {
	if t.Valid(n) {
		t.nodes[n].closed = true
	}
}

// Range returns the byte range n's serialization occupies in the
// serialization of the document.
func (t *Tree) Range(n Node) ftml.DocumentRange {
	if !t.Valid(n) {
		return ftml.DocumentRange{}
	}
	return ftml.DocumentRange{Start: t.nodes[n].start, End: t.nodes[n].end}
}

// InnerRange returns the range of n's children, excluding its tags.
func (t *Tree) InnerRange(n Node) ftml.DocumentRange {
	r := t.Range(n)
	if t.Type(n) != ElementNode {
		return r
	}
	r.Start += t.openTagLen(n)
	r.End -= t.closeTagLen(n)
	return r
}

// Len returns the length of n's serialization.
func (t *Tree) Len(n Node) int {
	return t.Range(n).Len()
}

func (t *Tree) openTagLen(n Node) int {
	nd := &t.nodes[n]
	return len(nd.data) + 2 + attrsLen(nd.attrs)
}

func (t *Tree) closeTagLen(n Node) int {
	nd := &t.nodes[n]
	if nd.typ != ElementNode || IsVoid(nd.data) {
		return 0
	}
	return len(nd.data) + 3
}

// insertionPoint returns the offset at which a new last child of n starts.
func (t *Tree) insertionPoint(n Node) int {
	return t.nodes[n].end - t.closeTagLen(n)
}

// Append detaches child from its current position, if any, and appends it
// as the last child of parent.
func (t *Tree) Append(parent, child Node) {
	if !t.Valid(parent) || !t.Valid(child) || t.contains(child, parent) {
		return
	}
	if t.nodes[child].parent != 0 {
		t.detach(child)
	}
	if t.nodes[child].typ == TextNode {
		t.setRaw(child, isRawText(t.Name(parent)))
	}

	t.shift(child, t.insertionPoint(parent)-t.nodes[child].start)

	c := &t.nodes[child]
	c.parent = parent
	c.prev = t.nodes[parent].lastChild
	c.next = 0
	if c.prev != 0 {
		t.nodes[c.prev].next = child
	} else {
		t.nodes[parent].firstChild = child
	}
	t.nodes[parent].lastChild = child

	t.grow(parent, t.Len(child))
}

// contains reports whether n is root or one of its descendants.
func (t *Tree) contains(root, n Node) bool {
	for ; n != 0; n = t.nodes[n].parent {
		if n == root {
			return true
		}
	}
	return false
}

// AppendText appends s to parent. If the last child of parent is a text
// node, s is merged into it and that node is returned.
func (t *Tree) AppendText(parent Node, s string) Node {
	if !t.Valid(parent) {
		return 0
	}
	if last := t.nodes[parent].lastChild; last != 0 && t.nodes[last].typ == TextNode {
		before := t.Len(last)
		t.nodes[last].data += s
		t.grow(last, textLen(t.nodes[last].data, t.nodes[last].raw)-before)
		return last
	}
	n := t.NewText(s)
	t.Append(parent, n)
	return n
}

// Delete removes n and its subtree from the tree. Deleting a removed node
// is a no-op.
func (t *Tree) Delete(n Node) {
	if !t.Valid(n) || n == t.Document() {
		return
	}
	if t.nodes[n].parent != 0 {
		t.detach(n)
	}
	t.remove(n)
}

// DeleteChildren removes all children of n.
func (t *Tree) DeleteChildren(n Node) {
	for c := t.FirstChild(n); c != 0; c = t.FirstChild(n) {
		t.Delete(c)
	}
}

// SetAttr sets the attribute key of element n.
func (t *Tree) SetAttr(n Node, key, value string) {
	if t.Type(n) != ElementNode {
		return
	}
	before := attrsLen(t.nodes[n].attrs)
	attrs := t.nodes[n].attrs
	found := false
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		t.nodes[n].attrs = append(attrs, ftml.Attribute{Key: key, Value: value})
	}
	t.resizeTag(n, attrsLen(t.nodes[n].attrs)-before)
}

// RemoveAttr removes the attribute key of element n and returns its value.
func (t *Tree) RemoveAttr(n Node, key string) (string, bool) {
	if t.Type(n) != ElementNode {
		return "", false
	}
	attrs := t.nodes[n].attrs
	for i, a := range attrs {
		if a.Key == key {
			before := attrsLen(attrs)
			t.nodes[n].attrs = append(attrs[:i:i], attrs[i+1:]...)
			t.resizeTag(n, attrsLen(t.nodes[n].attrs)-before)
			return a.Value, true
		}
	}
	return "", false
}

// resizeTag accounts for a change of delta bytes in the start tag of n.
func (t *Tree) resizeTag(n Node, delta int) {
	if delta == 0 {
		return
	}
	for c := t.nodes[n].firstChild; c != 0; c = t.nodes[c].next {
		t.shift(c, delta)
	}
	t.grow(n, delta)
}

// grow adds delta to the end of n and of every ancestor of n, and shifts
// every node that follows them.
func (t *Tree) grow(n Node, delta int) {
	if delta == 0 {
		return
	}
	for n != 0 {
		t.nodes[n].end += delta
		for s := t.nodes[n].next; s != 0; s = t.nodes[s].next {
			t.shift(s, delta)
		}
		n = t.nodes[n].parent
	}
}

// shift moves n and its subtree by off bytes.
func (t *Tree) shift(n Node, off int) {
	if off == 0 {
		return
	}
	stack := []Node{n}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t.nodes[n].start += off
		t.nodes[n].end += off
		for c := t.nodes[n].firstChild; c != 0; c = t.nodes[c].next {
			stack = append(stack, c)
		}
	}
}

// detach unlinks n from its parent and closes the gap it leaves.
func (t *Tree) detach(n Node) {
	nd := &t.nodes[n]
	parent, size := nd.parent, nd.end-nd.start
	for s := nd.next; s != 0; s = t.nodes[s].next {
		t.shift(s, -size)
	}
	if nd.prev != 0 {
		t.nodes[nd.prev].next = nd.next
	} else {
		t.nodes[parent].firstChild = nd.next
	}
	if nd.next != 0 {
		t.nodes[nd.next].prev = nd.prev
	} else {
		t.nodes[parent].lastChild = nd.prev
	}
	nd.parent, nd.prev, nd.next = 0, 0, 0
	t.grow(parent, -size)

	// Detached subtrees are positioned at zero.
	t.shift(n, -t.nodes[n].start)
}

// remove clears n and its subtree out of the arena.
func (t *Tree) remove(n Node) {
	stack := []Node{n}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c := t.nodes[n].firstChild; c != 0; c = t.nodes[c].next {
			stack = append(stack, c)
		}
		t.nodes[n] = node{}
	}
}

func (t *Tree) setRaw(n Node, raw bool) {
	nd := &t.nodes[n]
	if nd.raw == raw {
		return
	}
	nd.raw = raw
	nd.end = nd.start + textLen(nd.data, raw)
}

func tagLen(name string, attrs []ftml.Attribute) int {
	if IsVoid(name) {
		return len(name) + 2 + attrsLen(attrs)
	}
	return 2*len(name) + 5 + attrsLen(attrs)
}

// attrsLen returns the length of ` k="v"` for every attribute.
func attrsLen(attrs []ftml.Attribute) int {
	var n int
	for _, a := range attrs {
		n += len(a.Key) + 4 + escapedLen(a.Value, true)
	}
	return n
}

// escapedLen returns the length of s escaped as element text, or as an
// attribute value when attr is set. Invalid UTF-8 bytes are written back
// unchanged and count as one byte each.
func escapedLen(s string, attr bool) int {
	n := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '&':
			n += len("&amp;")
		case r == '\u00a0':
			n += len("&nbsp;")
		case attr && r == '"':
			n += len("&quot;")
		case !attr && (r == '<' || r == '>'):
			n += len("&lt;")
		default:
			n += size
		}
	}
	return n
}

func textLen(s string, raw bool) int {
	if raw {
		return len(s)
	}
	return escapedLen(s, false)
}

var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true, "br": true,
	"col": true, "embed": true, "frame": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoid reports whether elements named name have no end tag.
func IsVoid(name string) bool {
	return voidElements[name]
}

var rawTextElements = map[string]bool{
	"style": true, "script": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true, "noscript": true,
}

func isRawText(name string) bool {
	return rawTextElements[name]
}
