// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package analyzer

import (
	"github.com/henryiii/setuptools-modernize/internal/pyast"
)

// ExtractScalar retrieves the value of a single named keyword
// argument from the script's setup() calls, without rewriting
// anything. Only direct setup(...) calls match; dotted calls like
// setuptools.setup(...) do not. A literal value is returned as is; a
// bare-name value is looked up softly in the constants gathered
// during the walk. Absence of the field, of the call, or of the
// referenced constant all yield ok == false, never an error.
func ExtractScalar(mod *pyast.Module, field string) (value string, ok bool) {
	w := &scalarWalker{
		field:     field,
		constants: make(map[string]string),
	}
	w.walk(mod)
	return w.value, w.found
}

// ExtractRequiresPython is the common narrow extraction: the
// python_requires specifier, feeding the version-matrix outputs.
func ExtractRequiresPython(mod *pyast.Module) (string, bool) {
	return ExtractScalar(mod, "python_requires")
}

type scalarWalker struct {
	field     string
	constants map[string]string
	value     string
	found     bool
}

func (w *scalarWalker) walk(node pyast.Node) {
	switch n := node.(type) {
	case *pyast.Module:
		for _, stmt := range n.Body {
			w.walk(stmt)
		}

	case *pyast.Assign:
		w.record(n)

	case *pyast.Call:
		// Only direct setup(...) calls are inspected; the interior
		// of any other call is not descended into.
		if !n.IsDirectCallTo(EntryPoint) {
			return
		}
		for _, kw := range n.Keywords {
			w.walk(kw.Value)
			if kw.Name == w.field {
				w.inspect(kw.Value)
			}
		}

	case *pyast.Attribute:
		w.walk(n.Value)

	case *pyast.List:
		for _, elt := range n.Elts {
			w.walk(elt)
		}

	case *pyast.Dict:
		for _, entry := range n.Entries {
			if entry.Key != nil {
				w.walk(entry.Key)
			}
			w.walk(entry.Value)
		}

	case *pyast.Opaque:
		for _, child := range n.Children {
			w.walk(child)
		}
	}
}

func (w *scalarWalker) record(n *pyast.Assign) {
	lit, ok := n.Value.(*pyast.Literal)
	if !ok || !lit.IsString {
		return
	}
	for _, target := range n.Targets {
		if name, ok := target.(*pyast.Name); ok {
			w.constants[name.ID] = lit.Value
		}
	}
}

// inspect records the field's value from a literal or a soft
// constant lookup. Other shapes leave the previous state untouched;
// an undefined reference actively resets to unset.
func (w *scalarWalker) inspect(value pyast.Node) {
	switch v := value.(type) {
	case *pyast.Literal:
		w.value = v.Value
		w.found = true
	case *pyast.Name:
		w.value, w.found = w.constants[v.ID]
	}
}
