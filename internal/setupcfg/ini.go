// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package setupcfg

import "strings"

// ParseINI parses INI-style configuration text into a map of
// sections. Indented lines continue the previous key's value with a
// newline, matching how configparser reads multi-line values back.
func ParseINI(content string) map[string]map[string]string {
	result := make(map[string]map[string]string)
	var currentSection, currentKey string

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		// Skip blank lines and comments.
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			currentKey = ""
			continue
		}

		// Continuation line for the previous key.
		if currentSection != "" && currentKey != "" &&
			(strings.HasPrefix(raw, "\t") || strings.HasPrefix(raw, " ")) {
			result[currentSection][currentKey] += "\n" + line
			continue
		}

		// Section header.
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.Trim(line, "[]"))
			result[currentSection] = make(map[string]string)
			currentKey = ""
			continue
		}

		// Key-value pair.
		if currentSection != "" && strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[currentSection][key] = value
			currentKey = key
		}
	}

	return result
}
