// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

// Package pyast defines the syntax tree the analyzer works on.
//
// The tree is a deliberately small, tagged-variant view of a Python
// script: only the node kinds the setup.py analysis needs get their
// own variant, everything else lowers to Opaque. Every node keeps the
// exact source text of its span so a call can be re-emitted
// argument-by-argument without a full unparser.
package pyast

import "strings"

// Node is a syntax tree element. Concrete types are Module, Assign,
// Name, Literal, List, Dict, Attribute, Call and Opaque; dispatch on
// them with a type switch.
type Node interface {
	node()
	// Source returns the exact source text of the node's span.
	Source() string
}

// Span carries the source text of a node. Embedded by every variant.
type Span struct {
	Src string
}

// Source returns the exact source text of the node's span.
func (s Span) Source() string { return s.Src }

func (Span) node() {}

// Module is the root of a parsed script.
type Module struct {
	Span
	Body []Node
}

// Assign is an assignment statement. Chained assignments
// (a = b = "x") produce multiple targets.
type Assign struct {
	Span
	Targets []Node
	Value   Node
}

// Name is a bare identifier reference.
type Name struct {
	Span
	ID string
}

// Literal is a scalar constant. Value holds the Python textual form
// of the constant (decoded string content, "True", "42", ...);
// IsString distinguishes string literals, which are the only literals
// the constant table records.
type Literal struct {
	Span
	Value    string
	IsString bool
}

// List is a list display.
type List struct {
	Span
	Elts []Node
}

// DictEntry is one key/value pair of a Dict. A nil Key marks a
// ** expansion entry.
type DictEntry struct {
	Key   Node
	Value Node
}

// Dict is a dictionary display with entries in source order.
type Dict struct {
	Span
	Entries []DictEntry
}

// Attribute is a dotted access; Attr is the final attribute name.
type Attribute struct {
	Span
	Value Node
	Attr  string
}

// Keyword is a named argument of a call. An empty Name marks a
// **kwargs expansion.
type Keyword struct {
	Src   string
	Name  string
	Value Node
}

// Call is a call expression.
type Call struct {
	Span
	Func     Node
	Args     []Node
	Keywords []*Keyword
}

// Opaque is any node the analysis does not interpret. It still
// carries its source text so it survives re-emission, and its lowered
// named children so a walk can reach calls and assignments nested in
// otherwise-unmodeled structure (conditionals, function bodies, ...).
type Opaque struct {
	Span
	Children []Node
}

// CalleeName returns the name a call is made through: the identifier
// for a direct call, the final attribute for a dotted call, or ""
// when the callee is neither.
func (c *Call) CalleeName() string {
	switch fn := c.Func.(type) {
	case *Name:
		return fn.ID
	case *Attribute:
		return fn.Attr
	}
	return ""
}

// IsDirectCallTo reports whether the callee is exactly the bare
// identifier name. Dotted calls do not match.
func (c *Call) IsDirectCallTo(name string) bool {
	fn, ok := c.Func.(*Name)
	return ok && fn.ID == name
}

// IsCallTo reports whether the call is made through name, either
// directly or as the final attribute of a dotted callee.
func (c *Call) IsCallTo(name string) bool {
	return c.CalleeName() == name
}

// Render reconstructs the call from its current argument list, using
// each argument's original source text. It is how the residual call
// is emitted after the rewriter has filtered the keyword list.
func (c *Call) Render() string {
	parts := make([]string, 0, len(c.Args)+len(c.Keywords))
	for _, a := range c.Args {
		parts = append(parts, a.Source())
	}
	for _, k := range c.Keywords {
		parts = append(parts, k.Src)
	}
	return c.Func.Source() + "(" + strings.Join(parts, ", ") + ")"
}
