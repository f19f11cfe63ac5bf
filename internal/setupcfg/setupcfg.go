// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

// Package setupcfg models the declarative setup.cfg form: the fixed
// [metadata] and [options] field catalogs, the records the analyzer
// fills, and their INI serialization.
package setupcfg

import (
	"fmt"
	"strings"
)

// FieldKind describes how a field's value is conventionally shaped in
// setup.cfg. Membership in a catalog is what drives classification;
// the kind is descriptive.
type FieldKind int

const (
	// KindString is a plain single-line string.
	KindString FieldKind = iota
	// KindFileString is a string that may alternatively use the
	// file: directive.
	KindFileString
	// KindCommaList is a list rendered one element per line,
	// comma-joined when inline.
	KindCommaList
	// KindSemiList is a requirements list, semicolon-joined when
	// inline.
	KindSemiList
	// KindDict is a key = value block.
	KindDict
	// KindBool is a boolean rendered as a string.
	KindBool
	// KindSection is a nested section block (e.g. entry_points).
	KindSection
)

// FieldDef is one entry of a field catalog.
type FieldDef struct {
	Name string
	Kind FieldKind
}

// MetadataFields is the catalog of recognized [metadata] fields, in
// rendering order.
var MetadataFields = []FieldDef{
	{"name", KindString},
	{"version", KindString},
	{"url", KindString},
	{"download_url", KindString},
	{"project_urls", KindDict},
	{"author", KindString},
	{"author_email", KindString},
	{"maintainer", KindString},
	{"maintainer_email", KindString},
	{"classifiers", KindCommaList},
	{"license", KindString},
	{"license_file", KindString},
	{"license_files", KindCommaList},
	{"description", KindFileString},
	{"long_description", KindFileString},
	{"long_description_content_type", KindString},
	{"keywords", KindCommaList},
	{"platforms", KindCommaList},
	{"provides", KindCommaList},
	{"requires", KindCommaList},
	{"obsoletes", KindCommaList},
}

// OptionsFields is the catalog of recognized [options] fields, in
// rendering order.
var OptionsFields = []FieldDef{
	{"zip_safe", KindBool},
	{"setup_requires", KindSemiList},
	{"install_requires", KindSemiList},
	{"extras_require", KindSection},
	{"python_requires", KindString},
	{"entry_points", KindSection},
	{"use_2to3", KindCommaList},
	{"use_2to3_fixers", KindCommaList},
	{"use_2to3_exclude_fixers", KindCommaList},
	{"convert_2to3_doctests", KindCommaList},
	{"scripts", KindCommaList},
	{"eager_resources", KindCommaList},
	{"dependency_links", KindCommaList},
	{"tests_require", KindSemiList},
	{"include_package_data", KindBool},
	{"packages", KindCommaList},
	{"package_dir", KindDict},
	{"package_data", KindSection},
	{"exclude_package_data", KindSection},
	{"namespace_packages", KindCommaList},
	{"py_modules", KindCommaList},
	{"data_files", KindDict},
}

// Record is one populated section of the future setup.cfg. Only
// fields present in its catalog may be set; unset fields are omitted
// when the record is externalized.
type Record struct {
	section string
	catalog []FieldDef
	kinds   map[string]FieldKind
	values  map[string]string
}

func newRecord(section string, catalog []FieldDef) *Record {
	kinds := make(map[string]FieldKind, len(catalog))
	for _, f := range catalog {
		kinds[f.Name] = f.Kind
	}
	return &Record{
		section: section,
		catalog: catalog,
		kinds:   kinds,
		values:  make(map[string]string),
	}
}

// NewMetadata returns an empty [metadata] record.
func NewMetadata() *Record { return newRecord("metadata", MetadataFields) }

// NewOptions returns an empty [options] record.
func NewOptions() *Record { return newRecord("options", OptionsFields) }

// Section returns the record's section name.
func (r *Record) Section() string { return r.section }

// Knows reports whether name belongs to the record's catalog.
func (r *Record) Knows(name string) bool {
	_, ok := r.kinds[name]
	return ok
}

// Kind returns the declared kind of a catalog field.
func (r *Record) Kind(name string) (FieldKind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Set stores a value into a catalog field. It reports whether the
// field was accepted; names outside the catalog are rejected.
func (r *Record) Set(name, value string) bool {
	if !r.Knows(name) {
		return false
	}
	r.values[name] = value
	return true
}

// Get returns a field's value and whether it has been set.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of populated fields.
func (r *Record) Len() int { return len(r.values) }

// Fields returns the populated fields as a map, unset omitted.
func (r *Record) Fields() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Names returns the populated field names in catalog order.
func (r *Record) Names() []string {
	names := make([]string, 0, len(r.values))
	for _, f := range r.catalog {
		if _, ok := r.values[f.Name]; ok {
			names = append(names, f.Name)
		}
	}
	return names
}

// Render concatenates records into one setup.cfg body.
func Render(records ...*Record) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.String())
	}
	return b.String()
}

// String renders the record as an INI section the way Python's
// configparser writes one: a [section] header, key = value lines
// with embedded newlines indented as continuation lines, and a blank
// line after the section. An empty record renders only the header.
func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", r.section)
	for _, name := range r.Names() {
		value := r.values[name]
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(strings.ReplaceAll(value, "\n", "\n\t"))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
