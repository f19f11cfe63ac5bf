// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package pyparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henryiii/setuptools-modernize/internal/pyast"
)

func mustParse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return mod
}

func TestParse_Assignment(t *testing.T) {
	mod := mustParse(t, `NAME = "my-package"`)
	require.Len(t, mod.Body, 1)

	assign, ok := mod.Body[0].(*pyast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)

	name, ok := assign.Targets[0].(*pyast.Name)
	require.True(t, ok)
	assert.Equal(t, "NAME", name.ID)

	lit, ok := assign.Value.(*pyast.Literal)
	require.True(t, ok)
	assert.True(t, lit.IsString)
	assert.Equal(t, "my-package", lit.Value)
}

func TestParse_ChainedAssignment(t *testing.T) {
	mod := mustParse(t, `a = b = "x"`)
	require.Len(t, mod.Body, 1)

	assign, ok := mod.Body[0].(*pyast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 2)

	lit, ok := assign.Value.(*pyast.Literal)
	require.True(t, ok)
	assert.Equal(t, "x", lit.Value)
}

func TestParse_CallWithKeywords(t *testing.T) {
	mod := mustParse(t, `setup(name="pkg", version=VERSION, packages=find_packages())`)
	require.Len(t, mod.Body, 1)

	call, ok := mod.Body[0].(*pyast.Call)
	require.True(t, ok)
	assert.True(t, call.IsDirectCallTo("setup"))
	require.Len(t, call.Keywords, 3)

	assert.Equal(t, "name", call.Keywords[0].Name)
	assert.Equal(t, `name="pkg"`, call.Keywords[0].Src)

	_, ok = call.Keywords[1].Value.(*pyast.Name)
	assert.True(t, ok)

	nested, ok := call.Keywords[2].Value.(*pyast.Call)
	require.True(t, ok)
	assert.True(t, nested.IsDirectCallTo("find_packages"))
}

func TestParse_AttributeCall(t *testing.T) {
	mod := mustParse(t, `setuptools.setup(name="pkg")`)
	call, ok := mod.Body[0].(*pyast.Call)
	require.True(t, ok)

	assert.False(t, call.IsDirectCallTo("setup"))
	assert.True(t, call.IsCallTo("setup"))
	assert.Equal(t, "setup", call.CalleeName())
}

func TestParse_ListAndDict(t *testing.T) {
	mod := mustParse(t, `setup(classifiers=["a", "b"], package_dir={"": "src"})`)
	call := mod.Body[0].(*pyast.Call)
	require.Len(t, call.Keywords, 2)

	list, ok := call.Keywords[0].Value.(*pyast.List)
	require.True(t, ok)
	require.Len(t, list.Elts, 2)

	dict, ok := call.Keywords[1].Value.(*pyast.Dict)
	require.True(t, ok)
	require.Len(t, dict.Entries, 1)

	key, ok := dict.Entries[0].Key.(*pyast.Literal)
	require.True(t, ok)
	assert.Equal(t, "", key.Value)

	value, ok := dict.Entries[0].Value.(*pyast.Literal)
	require.True(t, ok)
	assert.Equal(t, "src", value.Value)
}

func TestParse_StringDecoding(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"single quotes", `x = 'abc'`, "abc"},
		{"double quotes", `x = "abc"`, "abc"},
		{"triple quotes", `x = """multi
line"""`, "multi\nline"},
		{"escaped newline", `x = "a\nb"`, "a\nb"},
		{"escaped tab", `x = "a\tb"`, "a\tb"},
		{"escaped quote", `x = "say \"hi\""`, `say "hi"`},
		{"escaped backslash", `x = "a\\b"`, `a\b`},
		{"hex escape", `x = "\x41"`, "A"},
		{"unknown escape keeps backslash", `x = "a\db"`, `a\db`},
		{"raw string", `x = r"a\nb"`, `a\nb`},
		{"concatenated", `x = "a" "b" "c"`, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := mustParse(t, tt.src)
			assign, ok := mod.Body[0].(*pyast.Assign)
			require.True(t, ok)
			lit, ok := assign.Value.(*pyast.Literal)
			require.True(t, ok, "expected literal, got %T", assign.Value)
			assert.True(t, lit.IsString)
			assert.Equal(t, tt.expected, lit.Value)
		})
	}
}

func TestParse_FStringIsOpaque(t *testing.T) {
	mod := mustParse(t, `x = f"version {v}"`)
	assign := mod.Body[0].(*pyast.Assign)
	_, ok := assign.Value.(*pyast.Opaque)
	assert.True(t, ok)
}

func TestParse_NumericAndBooleanLiterals(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{`x = 42`, "42"},
		{`x = 1.5`, "1.5"},
		{`x = True`, "True"},
		{`x = False`, "False"},
		{`x = None`, "None"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			mod := mustParse(t, tt.src)
			assign := mod.Body[0].(*pyast.Assign)
			lit, ok := assign.Value.(*pyast.Literal)
			require.True(t, ok)
			assert.False(t, lit.IsString)
			assert.Equal(t, tt.expected, lit.Value)
		})
	}
}

func TestParse_OpaqueKeepsChildren(t *testing.T) {
	mod := mustParse(t, `
if True:
    setup(name="pkg")
`)
	require.Len(t, mod.Body, 1)

	guard, ok := mod.Body[0].(*pyast.Opaque)
	require.True(t, ok)
	assert.NotEmpty(t, guard.Children)

	var call *pyast.Call
	var find func(pyast.Node)
	find = func(n pyast.Node) {
		switch v := n.(type) {
		case *pyast.Call:
			call = v
		case *pyast.Opaque:
			for _, c := range v.Children {
				find(c)
			}
		}
	}
	find(guard)
	require.NotNil(t, call)
	assert.True(t, call.IsDirectCallTo("setup"))
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), []byte(`setup(name=`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestParse_CallRenderRoundTrip(t *testing.T) {
	src := `setup("pos", name="pkg", extras={"dev": ["pytest"]}, **rest)`
	mod := mustParse(t, src)
	call := mod.Body[0].(*pyast.Call)
	assert.Equal(t, src, call.Render())
}

func TestParse_CommentsSkipped(t *testing.T) {
	mod := mustParse(t, `
# a comment
x = "value"  # trailing
`)
	require.Len(t, mod.Body, 1)
	_, ok := mod.Body[0].(*pyast.Assign)
	assert.True(t, ok)
}
