// Package aggregate maps the files of a fragment directory onto nested
// document keys.
package aggregate

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/fragment"
	"github.com/erraggy/oasrepo/internal/pathcodec"
	"github.com/erraggy/oasrepo/oaserrors"
)

// KeyFunc computes the nested document keys for a file path relative to the
// aggregated directory.
type KeyFunc func(rel string) ([]string, error)

// Aggregate walks dir, keeps the files whose relative path matches pattern
// and places each file's location (dir-relative to the store root) at the
// key path returned by keyFn. Hidden files and directories are skipped.
// Files are visited in lexical order. Two files
// producing the same key path yield an *oaserrors.DuplicateError.
func Aggregate(store *fragment.Store, dir, pattern string, keyFn KeyFunc) (*document.Map, error) {
	files, err := store.List(dir)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	result := document.NewMap()
	for _, rel := range files {
		if hidden(rel) {
			continue
		}
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return nil, fmt.Errorf("aggregate: bad pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}

		keys, err := keyFn(rel)
		if err != nil {
			return nil, fmt.Errorf("aggregate: %s: %w", rel, err)
		}
		if err := place(result, keys, path.Join(dir, rel)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// hidden reports whether any segment of rel is a dotfile, such as .DS_Store
// or an editor lock file.
func hidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func place(root *document.Map, keys []string, location string) error {
	node := root
	for i, key := range keys {
		existing, exists := node.Get(key)
		if i == len(keys)-1 {
			if exists {
				return &oaserrors.DuplicateError{
					Path:  strings.Join(keys, "/"),
					Files: []string{fmt.Sprint(firstLeaf(existing)), location},
				}
			}
			node.Set(key, location)
			return nil
		}
		if !exists {
			child := document.NewMap()
			node.Set(key, child)
			node = child
			continue
		}
		child, ok := existing.(*document.Map)
		if !ok {
			return &oaserrors.DuplicateError{
				Path:  strings.Join(keys[:i+1], "/"),
				Files: []string{fmt.Sprint(existing), location},
			}
		}
		node = child
	}
	return nil
}

// firstLeaf finds a file location below v, for naming the earlier file in a
// collision.
func firstLeaf(v any) any {
	m, ok := v.(*document.Map)
	if !ok || m.Len() == 0 {
		return v
	}
	return firstLeaf(m.Oldest().Value)
}

// AggregateAndLoad is Aggregate for single-key layouts with every location
// replaced by the parsed fragment content.
func AggregateAndLoad(store *fragment.Store, dir, pattern string, keyFn KeyFunc) (*document.Map, error) {
	locations, err := Aggregate(store, dir, pattern, keyFn)
	if err != nil {
		return nil, err
	}
	result := document.NewMap()
	for pair := locations.Oldest(); pair != nil; pair = pair.Next() {
		loc, ok := pair.Value.(string)
		if !ok {
			return nil, fmt.Errorf("aggregate: %s: expected a single-level layout", pair.Key)
		}
		value, err := store.Read(loc)
		if err != nil {
			return nil, fmt.Errorf("aggregate: %w", err)
		}
		result.Set(pair.Key, value)
	}
	return result, nil
}

// PathsKey maps "v1/users@{id}.yaml" to the paths key "/users/{id}". The
// directory part is ignored so fragments can be grouped freely.
func PathsKey(rel string) ([]string, error) {
	return []string{pathcodec.FilenameToPath(pathcodec.BaseName(rel))}, nil
}

// DefinitionsKey maps "models/User.yaml" to the definitions key "User".
func DefinitionsKey(rel string) ([]string, error) {
	return []string{pathcodec.BaseName(rel)}, nil
}

// CodeSampleKey maps "<lang>/<encodedPath>/<verb>.<ext>" to
// [path, verb, lang].
func CodeSampleKey(rel string) ([]string, error) {
	parts := strings.Split(rel, "/")
	if len(parts) != 3 {
		return nil, fmt.Errorf("code sample must be <lang>/<path>/<verb>.<ext>, got %q", rel)
	}
	lang, encoded, file := parts[0], parts[1], parts[2]
	return []string{pathcodec.FilenameToPath(encoded), pathcodec.BaseName(file), lang}, nil
}
