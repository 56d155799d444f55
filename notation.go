package ftml

import (
	"strconv"
	"strings"
)

// Notation is a presentation pattern for a symbol or variable. Components
// interleave literal HTML with argument slots; AttributeIndex is the byte
// offset in the first component where attributes may be patched in.
type Notation struct {
	ID             Name
	Precedence     int
	ArgPrecs       []int
	AttributeIndex uint8
	IsText         bool
	Components     []NotationComponent
	Op             *OpNotation
}

// ComponentKind is the kind of a NotationComponent.
type ComponentKind uint8

// Notation component kinds.
const (
	ComponentText ComponentKind = iota
	ComponentComp
	ComponentMainComp
	ComponentArg
	ComponentArgSep
	ComponentArgMap
	ComponentArgMapSep
)

// NotationComponent is one piece of a Notation. Text holds literal HTML
// for text and comp components; Index and Mode describe argument slots;
// Separator holds the components rendered between the elements of a
// sequence argument.
type NotationComponent struct {
	Kind      ComponentKind
	Text      string
	Index     uint8
	Mode      ArgMode
	Separator []NotationComponent
}

// OpNotation is the rendering of a symbol used as an operator without
// arguments.
type OpNotation struct {
	AttributeIndex uint8
	IsText         bool
	Text           string
}

// Arity returns the highest argument index referenced by the notation.
func (n *Notation) Arity() int {
	var max int
	var visit func([]NotationComponent)
	visit = func(cs []NotationComponent) {
		for _, c := range cs {
			switch c.Kind {
			case ComponentArg, ComponentArgSep, ComponentArgMap, ComponentArgMapSep:
				if int(c.Index) > max {
					max = int(c.Index)
				}
			}
			visit(c.Separator)
		}
	}
	visit(n.Components)
	return max
}

// Plain renders the notation with arguments written as #1, #2, ...
// It is meant for display in listings, not for presentation.
func (n *Notation) Plain() string {
	var b strings.Builder
	var render func([]NotationComponent)
	render = func(cs []NotationComponent) {
		for _, c := range cs {
			switch c.Kind {
			case ComponentText, ComponentComp, ComponentMainComp:
				b.WriteString(c.Text)
			case ComponentArg:
				b.WriteString("#" + strconv.Itoa(int(c.Index)))
			default:
				b.WriteString("#(")
				render(c.Separator)
				b.WriteString(")")
			}
		}
	}
	render(n.Components)
	return b.String()
}
