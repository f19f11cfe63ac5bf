// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

// Package analyzer is the extraction engine: it walks a parsed
// setup.py, resolves the keyword arguments of the setup() call
// against the setup.cfg field catalogs, and rewrites the call to keep
// only the arguments it could not classify.
package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/henryiii/setuptools-modernize/internal/pyast"
	"github.com/henryiii/setuptools-modernize/internal/setupcfg"
)

// EntryPoint is the configuration call the analysis targets.
const EntryPoint = "setup"

var (
	// ErrUnsupportedExpression marks an argument value the resolver
	// cannot interpret. Recoverable: the argument stays in the call.
	ErrUnsupportedExpression = errors.New("unsupported expression")
	// ErrUndefinedReference marks a name with no recorded constant.
	// Recoverable: the argument stays in the call.
	ErrUndefinedReference = errors.New("undefined reference")
	// ErrNoSetupCall means the script contains no setup() call at
	// all. Fatal for the conversion.
	ErrNoSetupCall = errors.New("no setup() call found")
)

// resolveValue turns an expression into its setup.cfg textual value.
// Literals resolve to their textual form; names resolve through the
// constant table; lists and dicts resolve element-wise into
// newline-led blocks so they render as continuation lines.
func resolveValue(node pyast.Node, constants map[string]string) (string, error) {
	switch n := node.(type) {
	case *pyast.Literal:
		return n.Value, nil

	case *pyast.Name:
		value, ok := constants[n.ID]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUndefinedReference, n.ID)
		}
		return value, nil

	case *pyast.List:
		parts := make([]string, len(n.Elts))
		for i, elt := range n.Elts {
			value, err := resolveValue(elt, constants)
			if err != nil {
				return "", err
			}
			parts[i] = value
		}
		return "\n" + strings.Join(parts, "\n"), nil

	case *pyast.Dict:
		lines := make([]string, 0, len(n.Entries))
		for _, entry := range n.Entries {
			key := "*"
			if entry.Key != nil {
				lit, ok := entry.Key.(*pyast.Literal)
				if !ok {
					return "", fmt.Errorf("%w: non-literal dict key", ErrUnsupportedExpression)
				}
				key = lit.Value
			}
			value, err := resolveValue(entry.Value, constants)
			if err != nil {
				return "", err
			}
			lines = append(lines, fmt.Sprintf("%s = %s", key, value))
		}
		return "\n" + strings.Join(lines, "\n"), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExpression, nodeKind(node))
	}
}

func nodeKind(node pyast.Node) string {
	switch node.(type) {
	case *pyast.Call:
		return "call"
	case *pyast.Attribute:
		return "attribute"
	case *pyast.Assign:
		return "assignment"
	case *pyast.Opaque:
		return "expression"
	default:
		return fmt.Sprintf("%T", node)
	}
}

// Result is the outcome of a conversion: the two populated records
// and the residual call carrying only the unclassified arguments.
type Result struct {
	Metadata *setupcfg.Record
	Options  *setupcfg.Record
	// Call is an owned copy of the setup() call whose keyword list
	// keeps only the arguments that were not consumed, in their
	// original relative order. The parsed tree is left untouched.
	Call *pyast.Call
}

// LeftArgs returns the names of the keyword arguments that stayed in
// the residual call. A ** expansion reports as "**".
func (r *Result) LeftArgs() []string {
	names := make([]string, 0, len(r.Call.Keywords))
	for _, kw := range r.Call.Keywords {
		if kw.Name == "" {
			names = append(names, "**")
			continue
		}
		names = append(names, kw.Name)
	}
	return names
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDebugLog installs a hook that receives one line per keyword
// argument that could not be classified.
func WithDebugLog(logf func(format string, args ...any)) Option {
	return func(a *Analyzer) {
		a.debugf = logf
	}
}

// Analyzer performs the single-pass walk over one script. State is
// scoped to one Process call; create a fresh Analyzer per script.
type Analyzer struct {
	constants map[string]string
	metadata  *setupcfg.Record
	options   *setupcfg.Record
	residual  *pyast.Call
	debugf    func(format string, args ...any)
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		constants: make(map[string]string),
		metadata:  setupcfg.NewMetadata(),
		options:   setupcfg.NewOptions(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Process walks the module once in source order, recording string
// constants from top-level assignments, and classifies the keyword
// arguments of the first setup() call it encounters. It fails only
// when no such call exists anywhere in the tree.
func (a *Analyzer) Process(mod *pyast.Module) (*Result, error) {
	a.walk(mod)
	if a.residual == nil {
		return nil, ErrNoSetupCall
	}
	return &Result{
		Metadata: a.metadata,
		Options:  a.options,
		Call:     a.residual,
	}, nil
}

func (a *Analyzer) walk(node pyast.Node) {
	switch n := node.(type) {
	case *pyast.Module:
		for _, stmt := range n.Body {
			a.walk(stmt)
		}

	case *pyast.Assign:
		for _, target := range n.Targets {
			a.walk(target)
		}
		a.walk(n.Value)
		a.recordConstant(n)

	case *pyast.Call:
		if n.IsCallTo(EntryPoint) && a.residual == nil {
			a.classify(n)
		}
		a.walk(n.Func)
		for _, arg := range n.Args {
			a.walk(arg)
		}
		for _, kw := range n.Keywords {
			a.walk(kw.Value)
		}

	case *pyast.Attribute:
		a.walk(n.Value)

	case *pyast.List:
		for _, elt := range n.Elts {
			a.walk(elt)
		}

	case *pyast.Dict:
		for _, entry := range n.Entries {
			if entry.Key != nil {
				a.walk(entry.Key)
			}
			a.walk(entry.Value)
		}

	case *pyast.Opaque:
		for _, child := range n.Children {
			a.walk(child)
		}
	}
}

// recordConstant notes name -> value for assignments of a string
// literal to simple names. Later assignments to the same name win.
// Every other assignment shape is ignored.
func (a *Analyzer) recordConstant(n *pyast.Assign) {
	lit, ok := n.Value.(*pyast.Literal)
	if !ok || !lit.IsString {
		return
	}
	for _, target := range n.Targets {
		if name, ok := target.(*pyast.Name); ok {
			a.constants[name.ID] = lit.Value
		}
	}
}

// classify resolves every keyword argument of the target call and
// stores the ones whose name belongs to a catalog, Options checked
// before Metadata. The residual call keeps the rest in order.
func (a *Analyzer) classify(call *pyast.Call) {
	var left []*pyast.Keyword
	for _, kw := range call.Keywords {
		if !a.store(kw) {
			left = append(left, kw)
		}
	}
	a.residual = &pyast.Call{
		Span:     call.Span,
		Func:     call.Func,
		Args:     call.Args,
		Keywords: left,
	}
}

// store attempts to consume one keyword argument. It reports false
// when the value cannot be resolved or the name matches neither
// catalog, in which case the argument is left in the call.
func (a *Analyzer) store(kw *pyast.Keyword) bool {
	if kw.Name == "" {
		a.debug("leaving ** expansion in place")
		return false
	}

	value, err := resolveValue(kw.Value, a.constants)
	if err != nil {
		a.debug("leaving %s: %v", kw.Name, err)
		return false
	}

	if a.options.Set(kw.Name, value) {
		return true
	}
	if a.metadata.Set(kw.Name, value) {
		return true
	}
	a.debug("leaving %s: not a known metadata or options field", kw.Name)
	return false
}

func (a *Analyzer) debug(format string, args ...any) {
	if a.debugf != nil {
		a.debugf(format, args...)
	}
}
