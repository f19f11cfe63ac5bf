// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

// Package output renders and persists the results of a conversion:
// the step summary, the conversion report, and the artifact files.
package output

import (
	"time"

	"github.com/henryiii/setuptools-modernize/internal/analyzer"
	"github.com/henryiii/setuptools-modernize/internal/setupcfg"
)

// Report is the complete, serializable record of one conversion.
type Report struct {
	Project  ProjectInfo       `json:"project" yaml:"project"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Options  map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
	Residual Residual          `json:"residual" yaml:"residual"`
	Python   PythonInfo        `json:"python,omitempty" yaml:"python,omitempty"`
}

// ProjectInfo identifies the converted project.
type ProjectInfo struct {
	Path      string    `json:"path" yaml:"path"`
	Kind      string    `json:"kind" yaml:"kind"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Residual records what stayed behind in the rewritten setup() call.
type Residual struct {
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	Call string   `json:"call" yaml:"call"`
}

// PythonInfo carries the python_requires-derived outputs.
type PythonInfo struct {
	RequiresPython string   `json:"requires_python,omitempty" yaml:"requires_python,omitempty"`
	Matrix         []string `json:"version_matrix,omitempty" yaml:"version_matrix,omitempty"`
	MatrixJSON     string   `json:"matrix_json,omitempty" yaml:"matrix_json,omitempty"`
	BuildVersion   string   `json:"build_version,omitempty" yaml:"build_version,omitempty"`
}

// NewReport assembles a report from an analysis result.
func NewReport(path, kind string, result *analyzer.Result) *Report {
	return &Report{
		Project: ProjectInfo{
			Path:      path,
			Kind:      kind,
			Timestamp: time.Now().UTC(),
		},
		Metadata: result.Metadata.Fields(),
		Options:  result.Options.Fields(),
		Residual: Residual{
			Args: result.LeftArgs(),
			Call: result.Call.Render(),
		},
	}
}

// SetupCfg renders the setup.cfg body for the report's records.
func (r *Report) SetupCfg(result *analyzer.Result) string {
	return setupcfg.Render(result.Metadata, result.Options)
}
