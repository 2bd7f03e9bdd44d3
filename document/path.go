package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Path identifies a location inside a document as an ordered list of
// segments. Mapping keys are strings and sequence indexes are ints.
type Path []any

// pointerEscaper escapes a JSON pointer reference token (RFC 6901).
var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// pointerUnescaper reverses pointerEscaper. Order matters: ~1 before ~0.
var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// Pointer renders p as a JSON pointer, e.g. /paths/~1users/get.
// The root path renders as the empty string.
func (p Path) Pointer() string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			b.WriteString(pointerEscaper.Replace(s))
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			b.WriteString(pointerEscaper.Replace(fmt.Sprint(s)))
		}
	}
	return b.String()
}

// String implements fmt.Stringer.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return p.Pointer()
}

// Child returns a new path with seg appended. p is never modified.
func (p Path) Child(seg any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final segment, or nil for the root path.
func (p Path) Last() any {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// ParsePointer parses a JSON pointer. A leading "#" (URI fragment form, as
// used in $ref values) is accepted. The empty pointer is the root.
func ParsePointer(ptr string) (Path, error) {
	ptr = strings.TrimPrefix(ptr, "#")
	if ptr == "" {
		return Path{}, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, fmt.Errorf("document: invalid JSON pointer %q: must start with '/'", ptr)
	}
	tokens := strings.Split(ptr[1:], "/")
	path := make(Path, len(tokens))
	for i, tok := range tokens {
		path[i] = pointerUnescaper.Replace(tok)
	}
	return path, nil
}

// Get resolves path against root.
func Get(root any, path Path) (any, bool) {
	current := root
	for _, seg := range path {
		next, ok := child(current, seg)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Set replaces the value at path. The parent container must exist; a missing
// final mapping key is created. Setting an index one past the end of a
// sequence appends to it.
func Set(root *Map, path Path, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("document: cannot set the root")
	}
	parentPath := path.Parent()
	parent, ok := Get(root, parentPath)
	if !ok {
		return fmt.Errorf("document: no parent at %s", parentPath)
	}
	switch container := parent.(type) {
	case *Map:
		container.Set(keyString(path.Last()), value)
		return nil
	case []any:
		idx, ok := index(path.Last())
		if !ok || idx < 0 || idx > len(container) {
			return fmt.Errorf("document: index %v out of range at %s", path.Last(), parentPath)
		}
		if idx < len(container) {
			container[idx] = value
			return nil
		}
		return Set(root, parentPath, append(container, value))
	default:
		return fmt.Errorf("document: cannot set %v on a scalar at %s", path.Last(), parentPath)
	}
}

// Delete removes the value at path. Removing a sequence element shifts the
// following elements down. Deleting a missing location is not an error.
func Delete(root *Map, path Path) error {
	if len(path) == 0 {
		return fmt.Errorf("document: cannot delete the root")
	}
	parentPath := path.Parent()
	parent, ok := Get(root, parentPath)
	if !ok {
		return nil
	}
	switch container := parent.(type) {
	case *Map:
		container.Delete(keyString(path.Last()))
		return nil
	case []any:
		idx, ok := index(path.Last())
		if !ok || idx < 0 || idx >= len(container) {
			return nil
		}
		shrunk := make([]any, 0, len(container)-1)
		shrunk = append(shrunk, container[:idx]...)
		shrunk = append(shrunk, container[idx+1:]...)
		return Set(root, parentPath, shrunk)
	default:
		return nil
	}
}

func child(node any, seg any) (any, bool) {
	switch container := node.(type) {
	case *Map:
		if container == nil {
			return nil, false
		}
		return container.Get(keyString(seg))
	case []any:
		idx, ok := index(seg)
		if !ok || idx < 0 || idx >= len(container) {
			return nil, false
		}
		return container[idx], true
	default:
		return nil, false
	}
}

func keyString(seg any) string {
	switch s := seg.(type) {
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	default:
		return fmt.Sprint(s)
	}
}

func index(seg any) (int, bool) {
	switch s := seg.(type) {
	case int:
		return s, true
	case string:
		n, err := strconv.Atoi(s)
		return n, err == nil
	default:
		return 0, false
	}
}
