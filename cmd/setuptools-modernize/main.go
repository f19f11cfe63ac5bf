// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-githubactions"

	"github.com/henryiii/setuptools-modernize/internal/analyzer"
	"github.com/henryiii/setuptools-modernize/internal/detector"
	"github.com/henryiii/setuptools-modernize/internal/output"
	"github.com/henryiii/setuptools-modernize/internal/pyparse"
	"github.com/henryiii/setuptools-modernize/internal/pyversions"
	"github.com/henryiii/setuptools-modernize/internal/setupcfg"
)

// sentinel printed by the narrow mode when the field is absent,
// matching Python's repr of a missing value.
const unsetSentinel = "None"

// parseMultiSeparatorInput normalizes input that can be comma, space,
// or newline separated into a slice of trimmed strings.
func parseMultiSeparatorInput(input string) []string {
	normalized := strings.ReplaceAll(input, ",", " ")
	normalized = strings.ReplaceAll(normalized, "\n", " ")
	return strings.Fields(normalized)
}

type app struct {
	action  *githubactions.Action
	isCI    bool
	verbose bool
	export  bool
}

func (a *app) infof(format string, args ...any) {
	if a.isCI {
		a.action.Infof(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}

func (a *app) warningf(format string, args ...any) {
	if a.isCI {
		a.action.Warningf(format, args...)
	} else {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}

func (a *app) fatalf(format string, args ...any) {
	if a.isCI {
		a.action.Fatalf(format, args...)
	}
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func (a *app) debugf(format string, args ...any) {
	if a.isCI {
		a.action.Debugf(format, args...)
	} else if a.verbose {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}

// setOutput writes a GitHub Actions output in CI; locally it prints
// key=value when verbose is on.
func (a *app) setOutput(name, value string) {
	if a.isCI {
		a.action.SetOutput(name, value)
		if a.export && value != "" {
			a.action.SetEnv(strings.ToUpper(name), value)
		}
	} else if a.verbose && value != "" {
		fmt.Printf("%s=%s\n", name, value)
	}
}

func main() {
	action := githubactions.New()
	app := &app{
		action: action,
		isCI:   os.Getenv("GITHUB_ACTIONS") == "true" || os.Getenv("CI") == "true",
	}
	app.verbose = action.GetInput("verbose") == "true"
	app.export = action.GetInput("export_env_vars") == "true"

	projectPath := action.GetInput("path_prefix")
	if projectPath == "" {
		projectPath = "."
	}
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		app.fatalf("Failed to resolve project path: %v", err)
	}

	mode := action.GetInput("mode")
	if mode == "" {
		mode = "convert"
	}

	switch mode {
	case "convert":
		runConvert(app, absPath)
	case "python-requires":
		runPythonRequires(app, absPath)
	default:
		app.fatalf("Unknown mode: %s (expected convert or python-requires)", mode)
	}
}

// readSetupPy locates and reads the project's setup.py.
func readSetupPy(projectPath string) (*detector.Layout, []byte, error) {
	layout, err := detector.Detect(projectPath)
	if err != nil {
		return nil, nil, err
	}
	if !layout.Convertible() {
		return nil, nil, fmt.Errorf("no setup.py in %s (detected layout: %s)", projectPath, layout.Kind())
	}

	src, err := os.ReadFile(layout.SetupPyPath(projectPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read setup.py: %w", err)
	}
	return layout, src, nil
}

func runConvert(app *app, projectPath string) {
	action := app.action

	layout, src, err := readSetupPy(projectPath)
	if err != nil {
		app.fatalf("%v", err)
	}
	if layout.Declarative {
		app.warningf("pyproject.toml already carries a [project] table; the generated setup.cfg may duplicate it")
	}
	app.infof("Converting %s (layout: %s)", filepath.Join(projectPath, "setup.py"), layout.Kind())

	mod, err := pyparse.Parse(context.Background(), src)
	if err != nil {
		app.fatalf("Failed to parse setup.py: %v", err)
	}

	an := analyzer.New(analyzer.WithDebugLog(app.debugf))
	result, err := an.Process(mod)
	if err != nil {
		if errors.Is(err, analyzer.ErrNoSetupCall) {
			app.fatalf("Invalid setup.py: %v", err)
		}
		app.fatalf("Conversion failed: %v", err)
	}

	report := output.NewReport(projectPath, layout.Kind(), result)
	cfgText := setupcfg.Render(result.Metadata, result.Options)

	// python_requires drives the version-matrix outputs.
	if requires, ok := result.Options.Get("python_requires"); ok {
		report.Python = pythonInfo(app, requires)
	} else if requires, ok := analyzer.ExtractRequiresPython(mod); ok {
		report.Python = pythonInfo(app, requires)
	}

	app.setOutput("project_path", projectPath)
	app.setOutput("project_type", layout.Kind())
	app.setOutput("setup_cfg", cfgText)
	app.setOutput("residual_call", report.Residual.Call)
	app.setOutput("residual_args", strings.Join(report.Residual.Args, ","))
	for name, value := range report.Metadata {
		app.setOutput("metadata_"+name, value)
	}
	for name, value := range report.Options {
		app.setOutput("options_"+name, value)
	}
	app.setOutput("requires_python", report.Python.RequiresPython)
	app.setOutput("matrix_json", report.Python.MatrixJSON)
	app.setOutput("build_version", report.Python.BuildVersion)

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		app.warningf("Failed to marshal report to JSON: %v", err)
	} else {
		app.setOutput("report_json", string(reportJSON))
	}

	formats := parseMultiSeparatorInput(action.GetInput("output_format"))
	if len(formats) == 0 && action.GetInput("output_format") == "" {
		if app.isCI {
			formats = []string{"summary"}
		} else {
			formats = []string{"console"}
		}
	}
	for _, format := range formats {
		switch strings.ToLower(format) {
		case "summary":
			summary := output.GenerateSummary(report, cfgText)
			action.AddStepSummary(summary)
			if app.verbose {
				fmt.Println(summary)
			}
		case "console":
			fmt.Print(output.GenerateConsole(report, cfgText))
		case "json":
			fmt.Println(string(reportJSON))
		case "cfg":
			fmt.Print(cfgText)
		case "python":
			fmt.Println(report.Residual.Call)
		default:
			app.warningf("Unknown output format: %s", format)
		}
	}

	if action.GetInput("write") == "true" {
		writeConverted(app, projectPath, cfgText, report.Residual.Call)
	}

	if action.GetInput("artifact_upload") == "true" {
		writeArtifacts(app, report, cfgText)
	}

	app.setOutput("success", "true")
	app.infof("Conversion complete: %d metadata, %d options, %d left",
		len(report.Metadata), len(report.Options), len(report.Residual.Args))
}

// pythonInfo derives the matrix outputs from a python_requires
// specifier, asking endoflife.date for the live supported list
// unless offline mode is set.
func pythonInfo(app *app, requires string) output.PythonInfo {
	supported := pyversions.FallbackVersions()
	if app.action.GetInput("offline") != "true" {
		client := pyversions.NewEOLClient(0, 0)
		live, err := client.SupportedVersions(context.Background())
		if err != nil {
			app.warningf("Falling back to built-in Python version list: %v", err)
		} else {
			supported = live
		}
	}

	matrix := pyversions.Matrix(requires, supported)
	return output.PythonInfo{
		RequiresPython: requires,
		Matrix:         matrix,
		MatrixJSON:     pyversions.MatrixJSON(matrix),
		BuildVersion:   pyversions.BuildVersion(matrix),
	}
}

// writeConverted writes setup.cfg and the rewritten call next to the
// source. An existing setup.cfg is never overwritten.
func writeConverted(app *app, projectPath, cfgText, residualCall string) {
	cfgPath := filepath.Join(projectPath, "setup.cfg")
	if _, err := os.Stat(cfgPath); err == nil {
		app.warningf("%s already exists; writing setup.cfg.new instead", cfgPath)
		cfgPath = filepath.Join(projectPath, "setup.cfg.new")
	}
	if err := os.WriteFile(cfgPath, []byte(cfgText), 0o644); err != nil {
		app.fatalf("Failed to write %s: %v", cfgPath, err)
	}
	app.infof("Wrote %s", cfgPath)

	newPyPath := filepath.Join(projectPath, "setup.py.new")
	if err := os.WriteFile(newPyPath, []byte(residualCall+"\n"), 0o644); err != nil {
		app.fatalf("Failed to write %s: %v", newPyPath, err)
	}
	app.infof("Wrote %s", newPyPath)
}

func writeArtifacts(app *app, report *output.Report, cfgText string) {
	action := app.action

	formats := parseMultiSeparatorInput(action.GetInput("artifact_formats"))
	writer := output.NewArtifactWriter(
		action.GetInput("artifact_name_prefix"),
		formats,
		"", // temp dir
		action.GetInput("validate_output") != "false",
		true,
	)

	jobName := os.Getenv("GITHUB_JOB")
	result, err := writer.Write(report, cfgText, report.Residual.Call, jobName)
	if err != nil {
		app.warningf("Failed to write artifacts: %v", err)
		return
	}
	app.infof("Artifacts written to: %s", result.Path)
	app.setOutput("artifact_name", result.Name)
	app.setOutput("artifact_path", result.Path)
	app.setOutput("artifact_files", strings.Join(result.Files, ","))
}

// runPythonRequires is the narrow mode: print one field (default
// python_requires) from setup.py. Absence of the field or of the
// setup() call prints the unset sentinel and exits cleanly.
func runPythonRequires(app *app, projectPath string) {
	field := app.action.GetInput("field")
	if field == "" {
		field = "python_requires"
	}

	setupPy := filepath.Join(projectPath, "setup.py")
	src, err := os.ReadFile(setupPy)
	if err != nil {
		app.fatalf("Failed to read %s: %v", setupPy, err)
	}

	mod, err := pyparse.Parse(context.Background(), src)
	if err != nil {
		app.fatalf("Failed to parse setup.py: %v", err)
	}

	value, ok := analyzer.ExtractScalar(mod, field)
	if !ok {
		fmt.Println(unsetSentinel)
		app.setOutput("requires_python", "")
		return
	}

	fmt.Println(value)
	app.setOutput("requires_python", value)

	if field == "python_requires" {
		info := pythonInfo(app, value)
		app.setOutput("matrix_json", info.MatrixJSON)
		app.setOutput("build_version", info.BuildVersion)
	}
}
