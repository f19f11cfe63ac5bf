// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package pyparse

import (
	"strings"
)

// decodeString decodes a Python string literal's source text into its
// value. ok is false for literals that are not constants (f-strings).
// Bytes literals stay constants but are not strings: their value is
// the literal's own source text, matching Python's str() rendering of
// a bytes object closely enough for display purposes.
func decodeString(text string) (value string, isString, ok bool) {
	prefix, rest := splitStringPrefix(text)

	lower := strings.ToLower(prefix)
	if strings.Contains(lower, "f") {
		return "", false, false
	}
	if strings.Contains(lower, "b") {
		return text, false, true
	}

	body, ok := stripQuotes(rest)
	if !ok {
		return "", false, false
	}

	if strings.Contains(lower, "r") {
		return body, true, true
	}
	return unescape(body), true, true
}

// splitStringPrefix separates the literal's prefix letters (r, b, u,
// f and combinations) from the quoted remainder.
func splitStringPrefix(text string) (prefix, rest string) {
	for i := 0; i < len(text); i++ {
		if text[i] == '\'' || text[i] == '"' {
			return text[:i], text[i:]
		}
	}
	return "", text
}

// stripQuotes removes the surrounding quotes, recognizing both
// single and triple quoting.
func stripQuotes(text string) (string, bool) {
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			return text[len(q) : len(text)-len(q)], true
		}
	}
	return "", false
}

// unescape processes backslash escapes the way Python does for
// non-raw string literals. Unrecognized escapes keep the backslash,
// as Python itself does.
func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(s[i])
		case '\n':
			// Line continuation: swallow the newline.
		case 'x':
			if i+2 < len(s) {
				if hi, ok1 := hexDigit(s[i+1]); ok1 {
					if lo, ok2 := hexDigit(s[i+2]); ok2 {
						b.WriteByte(hi<<4 | lo)
						i += 2
						continue
					}
				}
			}
			b.WriteString(`\x`)
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
