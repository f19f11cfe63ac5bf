// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package pyversions

import (
	"fmt"
	"strings"
)

// Matrix filters the supported Python versions down to those
// satisfying the python_requires specifier. With an unparseable or
// empty specifier the full supported list comes back, so a missing
// python_requires still yields a usable matrix.
func Matrix(requiresPython string, supported []string) []string {
	if len(supported) == 0 {
		supported = FallbackVersions()
	}

	constraints, err := ParseConstraints(requiresPython)
	if err != nil {
		return supported
	}

	var matrix []string
	for _, version := range supported {
		if Satisfies(version, constraints) {
			matrix = append(matrix, version)
		}
	}
	if len(matrix) == 0 {
		return supported
	}
	return matrix
}

// MatrixJSON renders a version list as the matrix fragment GitHub
// Actions workflows consume.
func MatrixJSON(matrix []string) string {
	quoted := make([]string, len(matrix))
	for i, v := range matrix {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf(`{"python-version": [%s]}`, strings.Join(quoted, ", "))
}

// BuildVersion picks the recommended build interpreter: the newest
// version of the matrix.
func BuildVersion(matrix []string) string {
	if len(matrix) == 0 {
		return ""
	}
	return matrix[len(matrix)-1]
}
