// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

// Package validator checks the converter's generated files before
// they are written: JSON and YAML reports round-trip cleanly, and
// generated setup.cfg text parses back to the fields it renders.
package validator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/henryiii/setuptools-modernize/internal/setupcfg"
)

// Validator checks one output format.
type Validator interface {
	Validate(data []byte) error
}

// ForFormat returns the validator for a file format name.
func ForFormat(format string, strict bool) (Validator, error) {
	switch format {
	case "json":
		return JSON{Strict: strict}, nil
	case "yaml", "yml":
		return YAML{Strict: strict}, nil
	case "cfg", "ini":
		return SetupCfg{}, nil
	}
	return nil, fmt.Errorf("no validator for format: %s", format)
}

// JSON validates JSON output. In strict mode a round-trip must
// reproduce the same structure.
type JSON struct {
	Strict bool
}

// Validate checks syntax and round-trip stability.
func (v JSON) Validate(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("JSON data is empty")
	}

	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid JSON syntax: %w", err)
	}

	marshaled, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("JSON marshal failed during validation: %w", err)
	}
	var roundTrip interface{}
	if err := json.Unmarshal(marshaled, &roundTrip); err != nil {
		return fmt.Errorf("JSON round-trip validation failed: %w", err)
	}
	if v.Strict && !reflect.DeepEqual(obj, roundTrip) {
		return fmt.Errorf("JSON round-trip produced different structure")
	}
	return nil
}

// YAML validates YAML output. In strict mode a round-trip must
// reproduce the same structure.
type YAML struct {
	Strict bool
}

// Validate checks syntax and round-trip stability.
func (v YAML) Validate(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("YAML data is empty")
	}

	var obj interface{}
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid YAML syntax: %w", err)
	}

	marshaled, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("YAML marshal failed during validation: %w", err)
	}
	var roundTrip interface{}
	if err := yaml.Unmarshal(marshaled, &roundTrip); err != nil {
		return fmt.Errorf("YAML round-trip validation failed: %w", err)
	}
	if v.Strict && !reflect.DeepEqual(obj, roundTrip) {
		return fmt.Errorf("YAML round-trip produced different structure")
	}
	return nil
}

// SetupCfg validates generated setup.cfg text: every line must be
// INI-shaped and every key must survive a read back through the INI
// parser.
type SetupCfg struct{}

// Validate parses the text back and checks its line structure.
func (SetupCfg) Validate(data []byte) error {
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("setup.cfg data is empty")
	}

	sections := setupcfg.ParseINI(text)
	if len(sections) == 0 {
		return fmt.Errorf("setup.cfg has no sections")
	}

	inSection := false
	afterKey := false
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";"):
			afterKey = false
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			inSection = true
			afterKey = false
		case strings.HasPrefix(raw, "\t") || strings.HasPrefix(raw, " "):
			if !afterKey {
				return fmt.Errorf("line %d: continuation without a key", i+1)
			}
		case strings.Contains(line, "="):
			if !inSection {
				return fmt.Errorf("line %d: key outside of a section", i+1)
			}
			afterKey = true
		default:
			return fmt.Errorf("line %d: not valid INI syntax: %q", i+1, line)
		}
	}
	return nil
}

// MarshalAndValidate marshals data with the given format and runs
// the matching validator over the result.
func MarshalAndValidate(format string, data interface{}, strict bool) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case "json":
		out, err = json.MarshalIndent(data, "", "  ")
	case "yaml", "yml":
		out, err = yaml.Marshal(data)
	default:
		return nil, fmt.Errorf("cannot marshal format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s marshal failed: %w", format, err)
	}

	v, err := ForFormat(format, strict)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}
