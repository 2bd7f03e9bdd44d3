// Package sourcetree describes the directory layout of a split API
// specification.
//
// A source tree lives under one base directory (spec/ by default):
//
//	spec/
//	  swagger.yaml                         main file, the only mandatory part
//	  paths/**/*.yaml                      one file per path item
//	  definitions/**/*.yaml                one file per definition
//	  code_samples/<lang>/<path>/<verb>.*  one file per code sample
//	  plugins/*.yaml                       overlay plugins applied after bundling
//
// Paths inside a Layout are relative to the base directory.
package sourcetree

// DefaultBaseDir is the base directory used when none is configured.
const DefaultBaseDir = "spec"

// Layout names the role of each part of a source tree.
type Layout struct {
	MainFile       string
	PathsDir       string
	DefinitionsDir string
	CodeSamplesDir string
	PluginsDir     string
}

// DefaultLayout returns the standard layout.
func DefaultLayout() Layout {
	return Layout{
		MainFile:       "swagger.yaml",
		PathsDir:       "paths",
		DefinitionsDir: "definitions",
		CodeSamplesDir: "code_samples",
		PluginsDir:     "plugins",
	}
}

// WithDefaults fills empty fields of l from DefaultLayout.
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	if l.MainFile == "" {
		l.MainFile = d.MainFile
	}
	if l.PathsDir == "" {
		l.PathsDir = d.PathsDir
	}
	if l.DefinitionsDir == "" {
		l.DefinitionsDir = d.DefinitionsDir
	}
	if l.CodeSamplesDir == "" {
		l.CodeSamplesDir = d.CodeSamplesDir
	}
	if l.PluginsDir == "" {
		l.PluginsDir = d.PluginsDir
	}
	return l
}
