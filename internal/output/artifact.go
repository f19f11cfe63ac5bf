// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package output

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/henryiii/setuptools-modernize/internal/validator"
)

// ArtifactWriter persists the conversion products into a
// uniquely-named artifact directory so a workflow step can upload
// them.
type ArtifactWriter struct {
	NamePrefix     string
	Formats        []string
	OutputDir      string
	ValidateOutput bool
	StrictMode     bool
}

// ArtifactResult describes what was written.
type ArtifactResult struct {
	Name  string
	Path  string
	Files []string
}

// NewArtifactWriter creates a writer. Empty arguments select the
// defaults: prefix "setuptools-modernize", the system temp dir, and
// the json report format.
func NewArtifactWriter(namePrefix string, formats []string, outputDir string, validateOutput, strictMode bool) *ArtifactWriter {
	if namePrefix == "" {
		namePrefix = "setuptools-modernize"
	}
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	if len(formats) == 0 {
		formats = []string{"json"}
	}
	return &ArtifactWriter{
		NamePrefix:     namePrefix,
		Formats:        formats,
		OutputDir:      outputDir,
		ValidateOutput: validateOutput,
		StrictMode:     strictMode,
	}
}

// Write persists the setup.cfg body, the rewritten setup() call and
// the report in the requested formats.
func (a *ArtifactWriter) Write(report *Report, setupCfg, residualCall, jobName string) (*ArtifactResult, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return nil, fmt.Errorf("failed to generate artifact suffix: %w", err)
	}
	if jobName == "" {
		jobName = "convert"
	}

	name := fmt.Sprintf("%s-%s-%s", a.NamePrefix, jobName, suffix)
	path := filepath.Join(a.OutputDir, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	result := &ArtifactResult{Name: name, Path: path}

	if err := a.writeFile(result, "setup.cfg", []byte(setupCfg), "cfg"); err != nil {
		return nil, err
	}
	if err := a.writeFile(result, "setup.py.new", []byte(residualCall+"\n"), ""); err != nil {
		return nil, err
	}

	for _, format := range a.Formats {
		switch format {
		case "json", "yaml", "yml":
			data, err := validator.MarshalAndValidate(format, report, a.StrictMode)
			if err != nil {
				if a.ValidateOutput {
					return nil, fmt.Errorf("%s report validation failed: %w", format, err)
				}
				continue
			}
			if err := a.writeFile(result, "report."+format, data, ""); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported artifact format: %s", format)
		}
	}

	return result, nil
}

// writeFile writes one artifact file, validating it first when a
// validation format is given.
func (a *ArtifactWriter) writeFile(result *ArtifactResult, name string, data []byte, validateAs string) error {
	if a.ValidateOutput && validateAs != "" {
		v, err := validator.ForFormat(validateAs, a.StrictMode)
		if err != nil {
			return err
		}
		if err := v.Validate(data); err != nil {
			return fmt.Errorf("%s validation failed: %w", name, err)
		}
	}

	path := filepath.Join(result.Path, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	result.Files = append(result.Files, name)
	return nil
}

// randomSuffix generates a 4-character alphanumeric suffix.
func randomSuffix() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 4

	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	suffix := make([]byte, length)
	for i := range raw {
		suffix[i] = charset[int(raw[i])%len(charset)]
	}
	return string(suffix), nil
}
