// Package headers inlines references to the top-level headers section.
//
// Swagger 2.0 has no reusable response headers, so split specs keep them in
// a private "headers" mapping and point at them with $ref. Inline replaces
// every such reference with a copy of its target and then drops the section,
// leaving a document that standard tooling accepts.
package headers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/jsonpath"
	"github.com/erraggy/oasrepo/oaserrors"
)

// Section is the top-level key holding reusable headers.
const Section = "headers"

const refPrefix = "#/" + Section + "/"

var refQuery = jsonpath.MustParse("$..[?(@.$ref)]")

// Warning reports a reference whose sibling keys were dropped by inlining.
type Warning struct {
	Path    string
	Ref     string
	Dropped []string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: $ref %s: dropped sibling keys %s", w.Path, w.Ref, strings.Join(w.Dropped, ", "))
}

// Inline replaces every reference into #/headers with a deep copy of its
// target and deletes the headers section. References to other headers are
// followed; a cycle or a missing target is an *oaserrors.ReferenceError.
func Inline(doc *document.Map) ([]Warning, error) {
	if !document.Has(doc, Section) {
		return nil, nil
	}

	in := &inliner{doc: doc}
	for _, node := range refQuery.Locate(doc) {
		ref, ok := headerRef(node.Value)
		if !ok {
			continue
		}
		location := node.Path.Pointer()
		in.warnSiblings(location, ref, node.Value.(*document.Map))

		value, err := in.resolve(ref, location, nil)
		if err != nil {
			return in.warnings, err
		}
		replace(node, value)
	}

	doc.Delete(Section)
	return in.warnings, nil
}

type inliner struct {
	doc      *document.Map
	warnings []Warning
}

// resolve returns an expanded copy of the value ref points at. seen holds
// the references being expanded on the current chain.
func (in *inliner) resolve(ref, location string, seen []string) (any, error) {
	if slices.Contains(seen, ref) {
		return nil, &oaserrors.ReferenceError{Ref: ref, Location: location, IsCircular: true}
	}
	p, err := document.ParsePointer(ref)
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: ref, Location: location, Message: err.Error()}
	}
	target, ok := document.Get(in.doc, p)
	if !ok {
		return nil, &oaserrors.ReferenceError{Ref: ref, Location: location, Message: "target not found"}
	}
	return in.expand(document.Clone(target), location, append(seen, ref))
}

// expand inlines header references nested anywhere inside v.
func (in *inliner) expand(v any, location string, seen []string) (any, error) {
	if ref, ok := headerRef(v); ok {
		in.warnSiblings(location, ref, v.(*document.Map))
		return in.resolve(ref, location, seen)
	}
	switch val := v.(type) {
	case *document.Map:
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			expanded, err := in.expand(pair.Value, location, seen)
			if err != nil {
				return nil, err
			}
			val.Set(pair.Key, expanded)
		}
	case []any:
		for i, elem := range val {
			expanded, err := in.expand(elem, location, seen)
			if err != nil {
				return nil, err
			}
			val[i] = expanded
		}
	}
	return v, nil
}

func (in *inliner) warnSiblings(location, ref string, m *document.Map) {
	if m.Len() <= 1 {
		return
	}
	var dropped []string
	for _, k := range document.Keys(m) {
		if k != "$ref" {
			dropped = append(dropped, k)
		}
	}
	in.warnings = append(in.warnings, Warning{Path: location, Ref: ref, Dropped: dropped})
}

func headerRef(v any) (string, bool) {
	m, ok := v.(*document.Map)
	if !ok || m == nil {
		return "", false
	}
	raw, ok := m.Get("$ref")
	if !ok {
		return "", false
	}
	ref, ok := raw.(string)
	if !ok || !strings.HasPrefix(ref, refPrefix) {
		return "", false
	}
	return ref, true
}

func replace(node jsonpath.Node, value any) {
	switch parent := node.Parent.(type) {
	case *document.Map:
		parent.Set(node.Key.(string), value)
	case []any:
		parent[node.Key.(int)] = value
	}
}
