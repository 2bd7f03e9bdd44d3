package plugin

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/jsonpath"
	"github.com/erraggy/oasrepo/oaserrors"
)

// Overlay is a declarative plugin file. It uses the action format of the
// OpenAPI Overlay specification; the overlay and info headers are optional.
type Overlay struct {
	// Version is the overlay specification version, if given.
	Version string
	// Title names the overlay in logs, if given.
	Title string
	// Actions is the ordered list of transformations.
	Actions []Action
}

// Action updates or removes the nodes selected by Target.
type Action struct {
	// Target is a JSONPath expression selecting nodes to operate on.
	Target string

	// Description is an optional human-readable explanation of the action.
	Description string

	// Update specifies content to merge with selected nodes.
	// For mappings, properties are recursively merged.
	// For sequences, the update value is appended.
	// Any other selected value is replaced.
	Update any

	// Remove, when true, removes the target from its parent.
	// Remove takes precedence over Update when both are specified.
	Remove bool
}

// ParseOverlay parses an overlay document from YAML or JSON bytes.
func ParseOverlay(data []byte) (*Overlay, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	return overlayFromMap(doc)
}

func overlayFromMap(doc *document.Map) (*Overlay, error) {
	o := &Overlay{}
	if v, ok := doc.Get("overlay"); ok {
		o.Version = fmt.Sprint(v)
	}
	if info, ok := document.GetMap(doc, "info"); ok {
		if title, ok := info.Get("title"); ok {
			o.Title = fmt.Sprint(title)
		}
	}

	raw, ok := doc.Get("actions")
	if !ok {
		return nil, &oaserrors.ParseError{Message: "actions is required"}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &oaserrors.ParseError{Message: "actions must be a sequence"}
	}

	for i, item := range list {
		m, ok := item.(*document.Map)
		if !ok {
			return nil, &oaserrors.ParseError{Message: fmt.Sprintf("actions[%d] must be a mapping", i)}
		}
		a, err := actionFromMap(m, i)
		if err != nil {
			return nil, err
		}
		o.Actions = append(o.Actions, a)
	}
	return o, nil
}

func actionFromMap(m *document.Map, index int) (Action, error) {
	var a Action
	target, _ := m.Get("target")
	a.Target, _ = target.(string)
	if a.Target == "" {
		return a, &oaserrors.ParseError{Message: fmt.Sprintf("actions[%d].target is required", index)}
	}
	if _, err := jsonpath.Parse(a.Target); err != nil {
		return a, &oaserrors.ParseError{Message: fmt.Sprintf("actions[%d].target", index), Cause: err}
	}

	if desc, ok := m.Get("description"); ok {
		a.Description = fmt.Sprint(desc)
	}
	a.Update, _ = m.Get("update")
	if remove, ok := m.Get("remove"); ok {
		b, isBool := remove.(bool)
		if !isBool {
			return a, &oaserrors.ParseError{Message: fmt.Sprintf("actions[%d].remove must be a boolean", index)}
		}
		a.Remove = b
	}
	if !a.Remove && a.Update == nil {
		return a, &oaserrors.ParseError{Message: fmt.Sprintf("actions[%d] must have update or remove", index)}
	}
	return a, nil
}

// Plugins returns one plugin per action. name prefixes the entry names.
func (o *Overlay) Plugins(name string) []Entry {
	entries := make([]Entry, 0, len(o.Actions))
	for i, a := range o.Actions {
		entries = append(entries, Entry{
			Name:   fmt.Sprintf("%s#%d", name, i),
			Plugin: &ActionPlugin{Action: a},
		})
	}
	return entries
}

// ActionPlugin applies one overlay action. Removals are collected while
// processing and applied in Finish, deepest and last first, so that the
// paths of the remaining matches stay valid.
type ActionPlugin struct {
	Action Action

	pending []document.Path
}

// PathExpression implements Plugin.
func (p *ActionPlugin) PathExpression() string { return p.Action.Target }

// Init implements Initializer.
func (p *ActionPlugin) Init(*document.Map) error {
	p.pending = nil
	return nil
}

// Process implements Plugin.
func (p *ActionPlugin) Process(parent any, key any, path document.Path, doc *document.Map) error {
	if len(path) == 0 {
		return fmt.Errorf("cannot %s the document root", p.operation())
	}
	if p.Action.Remove {
		p.pending = append(p.pending, path)
		return nil
	}

	current, ok := document.Get(doc, path)
	if !ok {
		return nil
	}
	update := document.Clone(p.Action.Update)

	switch target := current.(type) {
	case *document.Map:
		if src, ok := update.(*document.Map); ok {
			mergeDeep(target, src)
			return nil
		}
		return document.Set(doc, path, update)
	case []any:
		return document.Set(doc, path, append(target, update))
	default:
		return document.Set(doc, path, update)
	}
}

// Finish implements Finisher.
func (p *ActionPlugin) Finish(doc *document.Map) error {
	for _, path := range slices.Backward(p.pending) {
		if err := document.Delete(doc, path); err != nil {
			return err
		}
	}
	p.pending = nil
	return nil
}

func (p *ActionPlugin) operation() string {
	if p.Action.Remove {
		return "remove"
	}
	return "update"
}

// mergeDeep merges source into target. Nested mappings merge recursively,
// everything else in source replaces the target value.
func mergeDeep(target, source *document.Map) {
	for pair := source.Oldest(); pair != nil; pair = pair.Next() {
		if existing, ok := document.GetMap(target, pair.Key); ok {
			if src, ok := pair.Value.(*document.Map); ok {
				mergeDeep(existing, src)
				continue
			}
		}
		target.Set(pair.Key, pair.Value)
	}
}

// LoadDir reads every *.yaml, *.yml and *.json overlay in dir, in file name
// order, and returns their actions as plugins. A missing dir yields none.
func LoadDir(fsys billy.Filesystem, dir string) ([]Entry, error) {
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		if _, statErr := fsys.Stat(dir); statErr != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: reading %s: %w", dir, err)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(info.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, info.Name())
		}
	}
	slices.Sort(names)

	var entries []Entry
	for _, name := range names {
		file := path.Join(dir, name)
		data, err := util.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("plugin: %w", err)
		}
		o, err := ParseOverlay(data)
		if err != nil {
			return nil, fmt.Errorf("plugin: %s: %w", file, err)
		}
		entries = append(entries, o.Plugins(file)...)
	}
	return entries, nil
}
