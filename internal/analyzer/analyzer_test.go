// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henryiii/setuptools-modernize/internal/pyast"
	"github.com/henryiii/setuptools-modernize/internal/pyparse"
)

func parse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := pyparse.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return mod
}

func process(t *testing.T, src string) *Result {
	t.Helper()
	result, err := New().Process(parse(t, src))
	require.NoError(t, err)
	return result
}

func TestProcess_BasicFields(t *testing.T) {
	result := process(t, `
from setuptools import setup

setup(
    name="example",
    version="1.2.3",
    author="Jane Doe",
    license="MIT",
)
`)

	name, ok := result.Metadata.Get("name")
	require.True(t, ok)
	assert.Equal(t, "example", name)

	version, ok := result.Metadata.Get("version")
	require.True(t, ok)
	assert.Equal(t, "1.2.3", version)

	author, ok := result.Metadata.Get("author")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", author)

	assert.Equal(t, 0, result.Options.Len())
	assert.Empty(t, result.Call.Keywords)
}

func TestProcess_SpecimenScenario(t *testing.T) {
	// name is classified, install_requires resolves as a list block,
	// and the unresolvable call stays behind.
	result := process(t, `setup(name="pkg", install_requires=["a", "b"], foo=bar())`)

	name, ok := result.Metadata.Get("name")
	require.True(t, ok)
	assert.Equal(t, "pkg", name)

	requires, ok := result.Options.Get("install_requires")
	require.True(t, ok)
	assert.Equal(t, "\na\nb", requires)

	require.Len(t, result.Call.Keywords, 1)
	assert.Equal(t, "foo", result.Call.Keywords[0].Name)
	assert.Equal(t, "foo=bar()", result.Call.Keywords[0].Src)
	assert.Equal(t, `setup(foo=bar())`, result.Call.Render())
}

func TestProcess_ConstantResolution(t *testing.T) {
	result := process(t, `
VERSION = "2.0.0"
PYVER = ">=3.9"

setup(version=VERSION, python_requires=PYVER)
`)

	version, ok := result.Metadata.Get("version")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", version)

	requires, ok := result.Options.Get("python_requires")
	require.True(t, ok)
	assert.Equal(t, ">=3.9", requires)
}

func TestProcess_LastAssignmentWins(t *testing.T) {
	result := process(t, `
X = "a"
X = "b"
setup(name=X)
`)

	name, ok := result.Metadata.Get("name")
	require.True(t, ok)
	assert.Equal(t, "b", name)
}

func TestProcess_UndefinedReferenceLeft(t *testing.T) {
	result := process(t, `setup(name=UNDEFINED)`)

	assert.Equal(t, 0, result.Metadata.Len())
	require.Len(t, result.Call.Keywords, 1)
	assert.Equal(t, "name", result.Call.Keywords[0].Name)
}

func TestProcess_DictValue(t *testing.T) {
	result := process(t, `
setup(
    project_urls={
        "Source": "https://github.com/example/pkg",
        "Tracker": "https://github.com/example/pkg/issues",
    },
)
`)

	urls, ok := result.Metadata.Get("project_urls")
	require.True(t, ok)
	assert.Equal(t, "\nSource = https://github.com/example/pkg\nTracker = https://github.com/example/pkg/issues", urls)
}

func TestProcess_BooleanAndNumericLiterals(t *testing.T) {
	result := process(t, `setup(zip_safe=False, version=1.5)`)

	zipSafe, ok := result.Options.Get("zip_safe")
	require.True(t, ok)
	assert.Equal(t, "False", zipSafe)

	version, ok := result.Metadata.Get("version")
	require.True(t, ok)
	assert.Equal(t, "1.5", version)
}

func TestProcess_QualifiedCallMatches(t *testing.T) {
	result := process(t, `
import setuptools

setuptools.setup(name="pkg")
`)

	name, ok := result.Metadata.Get("name")
	require.True(t, ok)
	assert.Equal(t, "pkg", name)
	assert.Equal(t, "setuptools.setup()", result.Call.Render())
}

func TestProcess_CallInsideMainGuard(t *testing.T) {
	result := process(t, `
if __name__ == "__main__":
    setup(name="pkg")
`)

	name, ok := result.Metadata.Get("name")
	require.True(t, ok)
	assert.Equal(t, "pkg", name)
}

func TestProcess_NoSetupCall(t *testing.T) {
	_, err := New().Process(parse(t, `
x = 1
print("hello")
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSetupCall)
}

func TestProcess_FirstCallWins(t *testing.T) {
	result := process(t, `
setup(name="first")
setup(name="second")
`)

	name, ok := result.Metadata.Get("name")
	require.True(t, ok)
	assert.Equal(t, "first", name)
}

func TestProcess_ClassificationCompleteness(t *testing.T) {
	src := `
DESC = "a package"
setup(
    name="pkg",
    description=DESC,
    install_requires=["x"],
    cmdclass={"build": custom},
    custom_flag=1,
    ext_modules=[mod()],
)
`
	result := process(t, src)

	consumed := result.Metadata.Len() + result.Options.Len()
	left := len(result.Call.Keywords)
	assert.Equal(t, 6, consumed+left)

	// cmdclass and ext_modules fail resolution; custom_flag resolves
	// but matches neither catalog.
	assert.Equal(t, []string{"cmdclass", "custom_flag", "ext_modules"}, result.LeftArgs())
}

func TestProcess_ResidualOrderPreserved(t *testing.T) {
	result := process(t, `setup(zzz=f(), name="pkg", aaa=g(), mmm=h())`)

	assert.Equal(t, []string{"zzz", "aaa", "mmm"}, result.LeftArgs())
	assert.Equal(t, `setup(zzz=f(), aaa=g(), mmm=h())`, result.Call.Render())
}

func TestProcess_EmptyOverlapRoundTrip(t *testing.T) {
	result := process(t, `setup(frobnicate=True, widgets=[1, 2])`)

	assert.Equal(t, 0, result.Metadata.Len())
	assert.Equal(t, 0, result.Options.Len())
	assert.Equal(t, `setup(frobnicate=True, widgets=[1, 2])`, result.Call.Render())
}

func TestProcess_PositionalArgsUntouched(t *testing.T) {
	result := process(t, `setup("positional", name="pkg", keep=f())`)

	assert.Equal(t, `setup("positional", keep=f())`, result.Call.Render())
}

func TestProcess_StarStarExpansionLeft(t *testing.T) {
	result := process(t, `setup(name="pkg", **extra)`)

	assert.Equal(t, []string{"**"}, result.LeftArgs())
	assert.Equal(t, `setup(**extra)`, result.Call.Render())
}

func TestProcess_SourceTreeNotMutated(t *testing.T) {
	mod := parse(t, `setup(name="pkg", keep=f())`)

	var original *pyast.Call
	for _, stmt := range mod.Body {
		if call, ok := stmt.(*pyast.Call); ok {
			original = call
		}
	}
	require.NotNil(t, original)
	require.Len(t, original.Keywords, 2)

	result, err := New().Process(mod)
	require.NoError(t, err)

	// The residual call is an owned copy; the parsed tree keeps all
	// its arguments.
	assert.Len(t, original.Keywords, 2)
	assert.Len(t, result.Call.Keywords, 1)
}

func TestProcess_ResolutionIdempotent(t *testing.T) {
	src := `setup(install_requires=["a", "b"], project_urls={"Home": "https://x"})`

	first := process(t, src)
	second := process(t, src)

	assert.Equal(t, first.Metadata.Fields(), second.Metadata.Fields())
	assert.Equal(t, first.Options.Fields(), second.Options.Fields())
}

func TestProcess_DebugHookReportsLeftArgs(t *testing.T) {
	var lines []string
	logf := func(format string, args ...any) {
		lines = append(lines, format)
	}

	_, err := New(WithDebugLog(logf)).Process(parse(t, `setup(name="pkg", foo=bar())`))
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}

func TestProcess_NestedListResolution(t *testing.T) {
	result := process(t, `
AUTHOR = "Jane"
setup(classifiers=[
    "Programming Language :: Python :: 3",
    AUTHOR,
])
`)

	classifiers, ok := result.Metadata.Get("classifiers")
	require.True(t, ok)
	assert.Equal(t, "\nProgramming Language :: Python :: 3\nJane", classifiers)
}

func TestProcess_ListWithUnresolvableElementLeft(t *testing.T) {
	result := process(t, `setup(classifiers=["ok", compute()])`)

	assert.Equal(t, 0, result.Metadata.Len())
	assert.Equal(t, []string{"classifiers"}, result.LeftArgs())
}
