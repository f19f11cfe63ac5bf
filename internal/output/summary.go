// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package output

import (
	"fmt"
	"strings"
)

// GenerateSummary produces the Markdown step summary for a
// conversion: the new setup.cfg body, the rewritten setup() call and
// the arguments that could not be extracted.
func GenerateSummary(report *Report, setupCfg string) string {
	var b strings.Builder

	b.WriteString("## setup.py ➜ setup.cfg Conversion\n\n")
	fmt.Fprintf(&b, "**Project:** `%s` (%s)\n\n", report.Project.Path, report.Project.Kind)

	fmt.Fprintf(&b, "Extracted **%d** metadata and **%d** options fields.\n\n",
		len(report.Metadata), len(report.Options))

	b.WriteString("### New setup.cfg\n\n")
	b.WriteString("```ini\n")
	b.WriteString(strings.TrimRight(setupCfg, "\n"))
	b.WriteString("\n```\n\n")

	b.WriteString("### New setup() call\n\n")
	b.WriteString("```python\n")
	b.WriteString(report.Residual.Call)
	b.WriteString("\n```\n\n")

	if len(report.Residual.Args) > 0 {
		b.WriteString("### Arguments left in setup.py\n\n")
		b.WriteString("| Argument | Reason |\n")
		b.WriteString("|----------|--------|\n")
		for _, arg := range report.Residual.Args {
			fmt.Fprintf(&b, "| `%s` | could not be extracted statically |\n", arg)
		}
		b.WriteString("\n")
	}

	if report.Python.RequiresPython != "" {
		b.WriteString("### Python versions\n\n")
		fmt.Fprintf(&b, "- `python_requires`: `%s`\n", report.Python.RequiresPython)
		if len(report.Python.Matrix) > 0 {
			fmt.Fprintf(&b, "- Test matrix: %s\n", strings.Join(report.Python.Matrix, ", "))
			fmt.Fprintf(&b, "- Recommended build version: %s\n", report.Python.BuildVersion)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// GenerateConsole renders the conversion result for local terminal
// output.
func GenerateConsole(report *Report, setupCfg string) string {
	var b strings.Builder
	line := strings.Repeat("=", 60)

	b.WriteString(line + "\n")
	b.WriteString("New setup.cfg\n")
	b.WriteString(line + "\n")
	b.WriteString(setupCfg)
	b.WriteString(line + "\n")
	b.WriteString("New setup() in setup.py\n")
	b.WriteString(line + "\n")
	b.WriteString(report.Residual.Call + "\n")

	if len(report.Residual.Args) > 0 {
		fmt.Fprintf(&b, "\nLeft in setup.py: %s\n", strings.Join(report.Residual.Args, ", "))
	}
	return b.String()
}
