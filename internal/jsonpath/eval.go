package jsonpath

import (
	"github.com/erraggy/oasrepo/document"
)

// Node is a value matched by a Path together with its location.
type Node struct {
	// Value is the matched value.
	Value any
	// Path is the location of Value from the document root.
	Path document.Path
	// Parent is the *document.Map or []any holding Value, nil for the root.
	Parent any
	// Key is the mapping key (string) or sequence index (int) of Value in
	// Parent, nil for the root.
	Key any
}

// Get evaluates the path against the document and returns all matching values.
func (p *Path) Get(doc any) []any {
	nodes := p.Locate(doc)
	if len(nodes) == 0 {
		return nil
	}
	values := make([]any, len(nodes))
	for i, n := range nodes {
		values[i] = n.Value
	}
	return values
}

// Locate evaluates the path against the document and returns every match
// with its location, in document order.
func (p *Path) Locate(doc any) []Node {
	if len(p.segments) == 0 {
		return nil
	}

	current := []Node{{Value: doc, Path: document.Path{}}}
	for _, seg := range p.segments[1:] {
		current = applySegment(current, seg)
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

// applySegment applies a segment to the current nodes and returns the results.
func applySegment(current []Node, seg Segment) []Node {
	var results []Node
	for _, node := range current {
		results = append(results, selectFrom(node, seg)...)
	}
	return results
}

func selectFrom(node Node, seg Segment) []Node {
	var results []Node

	switch s := seg.(type) {
	case ChildSegment:
		if m, ok := node.Value.(*document.Map); ok && m != nil {
			if val, exists := m.Get(s.Key); exists {
				results = append(results, childNode(node, s.Key, val))
			}
		}

	case WildcardSegment:
		eachChild(node, func(child Node) {
			results = append(results, child)
		})

	case IndexSegment:
		if arr, ok := node.Value.([]any); ok {
			idx := s.Index
			if idx < 0 {
				idx = len(arr) + idx
			}
			if idx >= 0 && idx < len(arr) {
				results = append(results, childNode(node, idx, arr[idx]))
			}
		}

	case FilterSegment:
		eachChild(node, func(child Node) {
			if evalFilter(child.Value, s.Expr) {
				results = append(results, child)
			}
		})

	case RecursiveSegment:
		results = append(results, selectFrom(node, s.Child)...)
		eachChild(node, func(child Node) {
			results = append(results, selectFrom(child, seg)...)
		})
	}

	return results
}

// eachChild calls fn for every direct child of node in document order.
func eachChild(node Node, fn func(Node)) {
	switch v := node.Value.(type) {
	case *document.Map:
		if v == nil {
			return
		}
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			fn(childNode(node, pair.Key, pair.Value))
		}
	case []any:
		for i, elem := range v {
			fn(childNode(node, i, elem))
		}
	}
}

func childNode(parent Node, key any, value any) Node {
	return Node{
		Value:  value,
		Path:   parent.Path.Child(key),
		Parent: parent.Value,
		Key:    key,
	}
}
