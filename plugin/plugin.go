package plugin

import (
	"errors"
	"fmt"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/jsonpath"
	"github.com/erraggy/oasrepo/oaserrors"
)

// Plugin transforms the nodes of a bundled document selected by a JSONPath
// expression.
type Plugin interface {
	// PathExpression returns the JSONPath expression selecting the nodes
	// passed to Process.
	PathExpression() string

	// Process is called once per selected node, in document order. parent is
	// the *document.Map or []any holding the node and key is its mapping key
	// (string) or index (int). Process may mutate the node, its parent or
	// doc in place.
	Process(parent any, key any, path document.Path, doc *document.Map) error
}

// Initializer is implemented by plugins that need to see the document before
// any node is processed.
type Initializer interface {
	Init(doc *document.Map) error
}

// Finisher is implemented by plugins that need to run after every node was
// processed.
type Finisher interface {
	Finish(doc *document.Map) error
}

// Func adapts plain functions to the Plugin interface. Nil hooks are skipped.
type Func struct {
	Expression string
	InitFn     func(doc *document.Map) error
	ProcessFn  func(parent any, key any, path document.Path, doc *document.Map) error
	FinishFn   func(doc *document.Map) error
}

// PathExpression implements Plugin.
func (f Func) PathExpression() string { return f.Expression }

// Process implements Plugin.
func (f Func) Process(parent any, key any, path document.Path, doc *document.Map) error {
	if f.ProcessFn == nil {
		return nil
	}
	return f.ProcessFn(parent, key, path, doc)
}

// Init implements Initializer.
func (f Func) Init(doc *document.Map) error {
	if f.InitFn == nil {
		return nil
	}
	return f.InitFn(doc)
}

// Finish implements Finisher.
func (f Func) Finish(doc *document.Map) error {
	if f.FinishFn == nil {
		return nil
	}
	return f.FinishFn(doc)
}

// Entry is a named plugin.
type Entry struct {
	Name   string
	Plugin Plugin
}

// Registry holds plugins in registration order.
type Registry struct {
	entries []Entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends p under name. Names must be unique.
func (r *Registry) Register(name string, p Plugin) error {
	if name == "" {
		return errors.New("plugin: name is required")
	}
	if p == nil {
		return fmt.Errorf("plugin: %s: plugin is nil", name)
	}
	for _, e := range r.entries {
		if e.Name == name {
			return fmt.Errorf("plugin: %s: already registered", name)
		}
	}
	r.entries = append(r.entries, Entry{Name: name, Plugin: p})
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, p Plugin) {
	if err := r.Register(name, p); err != nil {
		panic(err)
	}
}

// Entries returns the registered plugins in registration order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Report summarizes one plugin run.
type Report struct {
	Name    string
	Matches int
}

// Run applies each plugin to doc in order. The expression of each plugin is
// evaluated against the document as left by the previous plugin. The first
// failure aborts the pipeline with an *oaserrors.PluginError.
func Run(doc *document.Map, entries []Entry) ([]Report, error) {
	reports := make([]Report, 0, len(entries))
	for _, e := range entries {
		matches, err := runOne(doc, e)
		if err != nil {
			return reports, err
		}
		reports = append(reports, Report{Name: e.Name, Matches: matches})
	}
	return reports, nil
}

func runOne(doc *document.Map, e Entry) (int, error) {
	fail := func(stage, path string, cause error) error {
		return &oaserrors.PluginError{Plugin: e.Name, Stage: stage, Path: path, Cause: cause}
	}

	if init, ok := e.Plugin.(Initializer); ok {
		if err := init.Init(doc); err != nil {
			return 0, fail("init", "", err)
		}
	}

	expr, err := jsonpath.Parse(e.Plugin.PathExpression())
	if err != nil {
		return 0, fail("match", "", err)
	}

	nodes := expr.Locate(doc)
	for _, n := range nodes {
		if err := e.Plugin.Process(n.Parent, n.Key, n.Path, doc); err != nil {
			return 0, fail("process", n.Path.Pointer(), err)
		}
	}

	if fin, ok := e.Plugin.(Finisher); ok {
		if err := fin.Finish(doc); err != nil {
			return 0, fail("finish", "", err)
		}
	}
	return len(nodes), nil
}
