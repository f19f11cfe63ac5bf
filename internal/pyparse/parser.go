// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

// Package pyparse parses Python source with tree-sitter and lowers
// the concrete syntax tree into the pyast variants the analyzer
// understands.
package pyparse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/henryiii/setuptools-modernize/internal/pyast"
)

// Parse parses a Python script into a pyast.Module. Unparseable
// input is a hard error; expression shapes the analysis does not
// interpret lower to pyast.Opaque instead of failing.
func Parse(ctx context.Context, src []byte) (*pyast.Module, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstErrorNode(root); bad != nil {
			return nil, fmt.Errorf("syntax error at line %d", bad.StartPoint().Row+1)
		}
		return nil, fmt.Errorf("syntax error")
	}

	l := &lowerer{src: src}
	return l.lowerModule(root), nil
}

// firstErrorNode finds the first ERROR or missing node in the tree.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstErrorNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

type lowerer struct {
	src []byte
}

func (l *lowerer) text(n *sitter.Node) string {
	return string(l.src[n.StartByte():n.EndByte()])
}

func (l *lowerer) span(n *sitter.Node) pyast.Span {
	return pyast.Span{Src: l.text(n)}
}

func (l *lowerer) lowerModule(root *sitter.Node) *pyast.Module {
	mod := &pyast.Module{Span: l.span(root)}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		mod.Body = append(mod.Body, l.lower(child))
	}
	return mod
}

// lower converts one tree-sitter node into a pyast node. Unknown
// kinds become Opaque, keeping their lowered named children so the
// analyzer's walk still reaches statements nested in blocks.
func (l *lowerer) lower(n *sitter.Node) pyast.Node {
	switch n.Type() {
	case "expression_statement":
		// Usually a single expression; "a; b" keeps the wrapper.
		if n.NamedChildCount() == 1 {
			return l.lower(n.NamedChild(0))
		}
		return l.opaque(n)

	case "assignment":
		return l.lowerAssign(n)

	case "call":
		return l.lowerCall(n)

	case "identifier":
		return &pyast.Name{Span: l.span(n), ID: l.text(n)}

	case "attribute":
		attr := &pyast.Attribute{Span: l.span(n)}
		if obj := n.ChildByFieldName("object"); obj != nil {
			attr.Value = l.lower(obj)
		} else {
			attr.Value = &pyast.Opaque{Span: l.span(n)}
		}
		if name := n.ChildByFieldName("attribute"); name != nil {
			attr.Attr = l.text(name)
		}
		return attr

	case "string":
		if value, isStr, ok := decodeString(l.text(n)); ok {
			return &pyast.Literal{Span: l.span(n), Value: value, IsString: isStr}
		}
		// f-strings are not constants.
		return l.opaque(n)

	case "concatenated_string":
		return l.lowerConcatenated(n)

	case "integer", "float":
		return &pyast.Literal{Span: l.span(n), Value: l.text(n)}

	case "true":
		return &pyast.Literal{Span: l.span(n), Value: "True"}

	case "false":
		return &pyast.Literal{Span: l.span(n), Value: "False"}

	case "none":
		return &pyast.Literal{Span: l.span(n), Value: "None"}

	case "list":
		list := &pyast.List{Span: l.span(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			list.Elts = append(list.Elts, l.lower(child))
		}
		return list

	case "dictionary":
		return l.lowerDict(n)

	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			inner := l.lower(n.NamedChild(0))
			// Keep the parenthesized span so re-emission is exact.
			if lit, ok := inner.(*pyast.Literal); ok {
				return &pyast.Literal{Span: l.span(n), Value: lit.Value, IsString: lit.IsString}
			}
			return inner
		}
		return l.opaque(n)

	default:
		return l.opaque(n)
	}
}

// opaque lowers a node the analysis does not interpret, descending
// into its named children so nested calls and assignments stay
// reachable.
func (l *lowerer) opaque(n *sitter.Node) *pyast.Opaque {
	op := &pyast.Opaque{Span: l.span(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		op.Children = append(op.Children, l.lower(child))
	}
	return op
}

// lowerAssign flattens chained assignments (a = b = "x") into one
// Assign with multiple targets, matching Python's own tree shape.
func (l *lowerer) lowerAssign(n *sitter.Node) pyast.Node {
	assign := &pyast.Assign{Span: l.span(n)}

	cur := n
	for {
		left := cur.ChildByFieldName("left")
		right := cur.ChildByFieldName("right")
		if left == nil || right == nil {
			// Annotation-only statement (x: int) has no right side.
			return l.opaque(n)
		}
		assign.Targets = append(assign.Targets, l.lower(left))
		if right.Type() == "assignment" {
			cur = right
			continue
		}
		assign.Value = l.lower(right)
		return assign
	}
}

func (l *lowerer) lowerCall(n *sitter.Node) pyast.Node {
	call := &pyast.Call{Span: l.span(n)}
	if fn := n.ChildByFieldName("function"); fn != nil {
		call.Func = l.lower(fn)
	} else {
		call.Func = &pyast.Opaque{Span: l.span(n)}
	}

	args := n.ChildByFieldName("arguments")
	if args == nil || args.Type() != "argument_list" {
		// Generator-expression argument, e.g. f(x for x in y).
		if args != nil {
			call.Args = append(call.Args, l.opaque(args))
		}
		return call
	}

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "comment":
			continue
		case "keyword_argument":
			kw := &pyast.Keyword{Src: l.text(arg)}
			if name := arg.ChildByFieldName("name"); name != nil {
				kw.Name = l.text(name)
			}
			if value := arg.ChildByFieldName("value"); value != nil {
				kw.Value = l.lower(value)
			} else {
				kw.Value = &pyast.Opaque{Span: l.span(arg)}
			}
			call.Keywords = append(call.Keywords, kw)
		case "dictionary_splat":
			kw := &pyast.Keyword{Src: l.text(arg), Value: l.opaque(arg)}
			call.Keywords = append(call.Keywords, kw)
		default:
			call.Args = append(call.Args, l.lower(arg))
		}
	}
	return call
}

func (l *lowerer) lowerDict(n *sitter.Node) pyast.Node {
	dict := &pyast.Dict{Span: l.span(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "comment":
			continue
		case "pair":
			entry := pyast.DictEntry{}
			if key := child.ChildByFieldName("key"); key != nil {
				entry.Key = l.lower(key)
			}
			if value := child.ChildByFieldName("value"); value != nil {
				entry.Value = l.lower(value)
			} else {
				entry.Value = l.opaque(child)
			}
			dict.Entries = append(dict.Entries, entry)
		case "dictionary_splat":
			dict.Entries = append(dict.Entries, pyast.DictEntry{Value: l.opaque(child)})
		default:
			dict.Entries = append(dict.Entries, pyast.DictEntry{Value: l.lower(child)})
		}
	}
	return dict
}

// lowerConcatenated joins adjacent string literals. Any non-constant
// piece (an f-string) makes the whole expression opaque.
func (l *lowerer) lowerConcatenated(n *sitter.Node) pyast.Node {
	var joined string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if child.Type() != "string" {
			return l.opaque(n)
		}
		value, isStr, ok := decodeString(l.text(child))
		if !ok || !isStr {
			return l.opaque(n)
		}
		joined += value
	}
	return &pyast.Literal{Span: l.span(n), Value: joined, IsString: true}
}
