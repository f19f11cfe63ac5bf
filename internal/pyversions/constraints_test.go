// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package pyversions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstraints(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []Constraint
		shouldError bool
	}{
		{
			name:  "basic >= constraint",
			input: ">=3.10",
			expected: []Constraint{
				{Operator: ">=", Version: "3.10"},
			},
		},
		{
			name:  "both bounds",
			input: ">=3.10,<3.14",
			expected: []Constraint{
				{Operator: ">=", Version: "3.10"},
				{Operator: "<", Version: "3.14"},
			},
		},
		{
			name:  "exact version",
			input: "==3.11",
			expected: []Constraint{
				{Operator: "==", Version: "3.11"},
			},
		},
		{
			name:  "exclusion",
			input: "!=3.11",
			expected: []Constraint{
				{Operator: "!=", Version: "3.11"},
			},
		},
		{
			name:  "compatible release",
			input: "~=3.10",
			expected: []Constraint{
				{Operator: ">=", Version: "3.10"},
				{Operator: "<", Version: "3.11"},
			},
		},
		{
			name:  "poetry caret",
			input: "^3.10",
			expected: []Constraint{
				{Operator: ">=", Version: "3.10"},
				{Operator: "<", Version: "4.0"},
			},
		},
		{
			name:  "wildcard",
			input: "==3.10.*",
			expected: []Constraint{
				{Operator: ">=", Version: "3.10"},
				{Operator: "<", Version: "3.11"},
			},
		},
		{
			name:  "patch version stripped",
			input: ">=3.10.1",
			expected: []Constraint{
				{Operator: ">=", Version: "3.10"},
			},
		},
		{
			name:  "spaces around parts",
			input: ">= 3.10 , < 3.13",
			expected: []Constraint{
				{Operator: ">=", Version: "3.10"},
				{Operator: "<", Version: "3.13"},
			},
		},
		{
			name:        "empty specifier",
			input:       "",
			shouldError: true,
		},
		{
			name:        "invalid specifier",
			input:       "invalid",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseConstraints(tt.input)

			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"^3.10", ">=3.10,<4.0"},
		{"~=3.10", ">=3.10,<3.11"},
		{"==3.10.*", ">=3.10,<3.11"},
		{">=3.10.2", ">=3.10"},
		{">=3.9,<3.13", ">=3.9,<3.13"},
		{"!=3.10.1", "!=3.10"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestConstraint_Matches(t *testing.T) {
	tests := []struct {
		name       string
		constraint Constraint
		version    string
		expected   bool
	}{
		{">= match", Constraint{">=", "3.10"}, "3.10", true},
		{">= above", Constraint{">=", "3.10"}, "3.12", true},
		{">= below", Constraint{">=", "3.10"}, "3.9", false},
		{"< below", Constraint{"<", "3.13"}, "3.12", true},
		{"< equal", Constraint{"<", "3.13"}, "3.13", false},
		{"== match", Constraint{"==", "3.11"}, "3.11", true},
		{"== mismatch", Constraint{"==", "3.11"}, "3.12", false},
		{"!= excluded", Constraint{"!=", "3.11"}, "3.11", false},
		{"!= other", Constraint{"!=", "3.11"}, "3.12", true},
		{"major boundary", Constraint{">=", "3.9"}, "4.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constraint.Matches(tt.version))
		})
	}
}

func TestSatisfies(t *testing.T) {
	constraints := []Constraint{
		{Operator: ">=", Version: "3.10"},
		{Operator: "<", Version: "3.13"},
	}

	assert.True(t, Satisfies("3.10", constraints))
	assert.True(t, Satisfies("3.12", constraints))
	assert.False(t, Satisfies("3.9", constraints))
	assert.False(t, Satisfies("3.13", constraints))
}
