// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

// Package pyversions interprets python_requires specifiers extracted
// from setup.py and turns them into a concrete list of Python
// versions suitable for a CI test matrix.
package pyversions

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Constraint is a single version constraint from a python_requires
// specifier.
type Constraint struct {
	Operator string // >=, >, <=, <, ==, !=, ~=, ^
	Version  string // major.minor, patch stripped
}

var constraintRe = regexp.MustCompile(`^(>=|>|<=|<|==|!=|~=|\^)\s*(\d+\.\d+(?:\.\d+)?)$`)

// ParseConstraints parses a python_requires string into individual
// constraints. Examples: ">=3.9", ">=3.9,<3.13", "~=3.10", "^3.10".
func ParseConstraints(requiresPython string) ([]Constraint, error) {
	if strings.TrimSpace(requiresPython) == "" {
		return nil, fmt.Errorf("empty python_requires specifier")
	}

	normalized := Normalize(requiresPython)

	var constraints []Constraint
	for _, part := range strings.Split(normalized, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		matches := constraintRe.FindStringSubmatch(part)
		if matches == nil {
			return nil, fmt.Errorf("invalid constraint %q in %q", part, requiresPython)
		}
		constraints = append(constraints, Constraint{
			Operator: matches[1],
			Version:  stripPatch(matches[2]),
		})
	}

	if len(constraints) == 0 {
		return nil, fmt.Errorf("no constraints found in %q", requiresPython)
	}
	return constraints, nil
}

var (
	caretRe    = regexp.MustCompile(`^\^(\d+)\.(\d+)(?:\.\d+)?$`)
	tildeRe    = regexp.MustCompile(`^~=(\d+)\.(\d+)(?:\.\d+)?$`)
	wildcardRe = regexp.MustCompile(`^==(\d+)\.(\d+)\.\*$`)
	patchRe    = regexp.MustCompile(`([<>=!~^]+)(\d+\.\d+)\.\d+`)
)

// Normalize rewrites the caret, compatible-release and wildcard
// shorthands into plain bound pairs and strips patch components:
//
//	^3.10    -> >=3.10,<4.0
//	~=3.10   -> >=3.10,<3.11
//	==3.10.* -> >=3.10,<3.11
func Normalize(constraint string) string {
	constraint = strings.TrimSpace(constraint)

	// Exclusions pass through with patch stripped only.
	if strings.HasPrefix(constraint, "!") {
		return patchRe.ReplaceAllString(constraint, "$1$2")
	}

	if m := caretRe.FindStringSubmatch(constraint); m != nil {
		major, _ := strconv.Atoi(m[1])
		return fmt.Sprintf(">=%s.%s,<%d.0", m[1], m[2], major+1)
	}
	if m := tildeRe.FindStringSubmatch(constraint); m != nil {
		minor, _ := strconv.Atoi(m[2])
		return fmt.Sprintf(">=%s.%s,<%s.%d", m[1], m[2], m[1], minor+1)
	}
	if m := wildcardRe.FindStringSubmatch(constraint); m != nil {
		minor, _ := strconv.Atoi(m[2])
		return fmt.Sprintf(">=%s.%s,<%s.%d", m[1], m[2], m[1], minor+1)
	}

	return patchRe.ReplaceAllString(constraint, "$1$2")
}

// Matches reports whether a major.minor version satisfies the
// constraint.
func (c Constraint) Matches(version string) bool {
	cmp := compare(version, c.Version)
	switch c.Operator {
	case ">=":
		return cmp >= 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case "<":
		return cmp < 0
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "~=":
		return cmp == 0
	case "^":
		return cmp >= 0 && sameMajor(version, c.Version)
	}
	return false
}

// Satisfies reports whether a version matches every constraint.
func Satisfies(version string, constraints []Constraint) bool {
	for _, c := range constraints {
		if !c.Matches(version) {
			return false
		}
	}
	return true
}

func stripPatch(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) > 2 {
		return parts[0] + "." + parts[1]
	}
	return version
}

func parseMajorMinor(version string) (major, minor int) {
	fmt.Sscanf(version, "%d.%d", &major, &minor)
	return major, minor
}

// compare orders two major.minor version strings numerically.
func compare(v1, v2 string) int {
	maj1, min1 := parseMajorMinor(v1)
	maj2, min2 := parseMajorMinor(v2)
	switch {
	case maj1 != maj2:
		if maj1 < maj2 {
			return -1
		}
		return 1
	case min1 != min2:
		if min1 < min2 {
			return -1
		}
		return 1
	}
	return 0
}

func sameMajor(v1, v2 string) bool {
	maj1, _ := parseMajorMinor(v1)
	maj2, _ := parseMajorMinor(v2)
	return maj1 == maj2
}
