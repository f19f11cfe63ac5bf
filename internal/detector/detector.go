// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

// Package detector inspects a project directory and reports which
// Python packaging layout it uses, so the converter can refuse or
// warn before touching a project that is already declarative.
package detector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Layout describes the packaging files found in one project.
type Layout struct {
	SetupPy   bool
	SetupCfg  bool
	PyProject bool

	// Declarative is true when pyproject.toml carries a [project]
	// table, i.e. the metadata has already been modernized.
	Declarative bool

	// BuildBackend is the [build-system] backend from
	// pyproject.toml, when present.
	BuildBackend string
}

// pyProject is the slice of pyproject.toml the detector cares about.
type pyProject struct {
	Project     map[string]interface{} `toml:"project"`
	BuildSystem struct {
		BuildBackend string `toml:"build-backend"`
	} `toml:"build-system"`
}

// Detect reports the packaging layout of the project at path. It
// fails when none of setup.py, setup.cfg or pyproject.toml exists.
func Detect(projectPath string) (*Layout, error) {
	layout := &Layout{
		SetupPy:   fileExists(projectPath, "setup.py"),
		SetupCfg:  fileExists(projectPath, "setup.cfg"),
		PyProject: fileExists(projectPath, "pyproject.toml"),
	}

	if !layout.SetupPy && !layout.SetupCfg && !layout.PyProject {
		return nil, fmt.Errorf("no Python packaging files found in %s (searched for setup.py, setup.cfg, pyproject.toml)", projectPath)
	}

	if layout.PyProject {
		var pp pyProject
		path := filepath.Join(projectPath, "pyproject.toml")
		if _, err := toml.DecodeFile(path, &pp); err != nil {
			return nil, fmt.Errorf("found pyproject.toml but failed to parse it: %w", err)
		}
		layout.Declarative = len(pp.Project) > 0
		layout.BuildBackend = pp.BuildSystem.BuildBackend
	}

	return layout, nil
}

// Kind returns the project type identifier for the layout, most
// specific source of truth first.
func (l *Layout) Kind() string {
	switch {
	case l.Declarative:
		return "python-modern"
	case l.SetupPy:
		return "python-legacy"
	case l.SetupCfg:
		return "python-setup-cfg"
	case l.PyProject:
		return "python-pyproject"
	}
	return "unknown"
}

// Convertible reports whether there is a setup.py to extract from.
func (l *Layout) Convertible() bool { return l.SetupPy }

// SetupPyPath returns the path of the script to convert.
func (l *Layout) SetupPyPath(projectPath string) string {
	return filepath.Join(projectPath, "setup.py")
}

func fileExists(projectPath, name string) bool {
	info, err := os.Stat(filepath.Join(projectPath, name))
	return err == nil && !info.IsDir()
}
