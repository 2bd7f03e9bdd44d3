// Package pathcodec converts between document path segments and the file
// names used for fragments on disk.
//
// A path such as "/users/{id}" cannot be a file name because of the slashes,
// so every "/" is written as "@": the fragment for "/users/{id}" is stored as
// "users@{id}.yaml".
package pathcodec

import (
	"path"
	"strings"

	"github.com/erraggy/oasrepo/oaserrors"
)

// EscapeToken stands in for "/" in fragment file names.
const EscapeToken = "@"

// SegmentToFilename encodes a path segment as a file name (without extension).
// A segment that already contains the escape token cannot be decoded back
// unambiguously and is rejected.
func SegmentToFilename(segment string) (string, error) {
	if strings.Contains(segment, EscapeToken) {
		return "", &oaserrors.CodecError{
			Segment: segment,
			Message: "contains the reserved escape token '" + EscapeToken + "'",
		}
	}
	return strings.ReplaceAll(segment, "/", EscapeToken), nil
}

// FilenameToSegment is the inverse of SegmentToFilename.
func FilenameToSegment(name string) string {
	return strings.ReplaceAll(name, EscapeToken, "/")
}

// FilenameToPath decodes a file name into a paths key, e.g. "users@{id}"
// becomes "/users/{id}".
func FilenameToPath(name string) string {
	return "/" + FilenameToSegment(name)
}

// PathToFilename encodes a paths key as a file name. Keys that do not start
// with "/" (extensions such as x-tagGroups) have no file representation.
func PathToFilename(p string) (string, error) {
	if !strings.HasPrefix(p, "/") {
		return "", &oaserrors.CodecError{Segment: p, Message: "path must start with '/'"}
	}
	return SegmentToFilename(strings.TrimPrefix(p, "/"))
}

// DefinitionToFilename returns the file name for a definitions key.
// Definitions are stored under their plain name, so "@" is kept as is; a
// name containing "/" cannot be a single file name and is rejected.
func DefinitionToFilename(name string) (string, error) {
	if name == "" || strings.Contains(name, "/") {
		return "", &oaserrors.CodecError{Segment: name, Message: "definition name must be a single file name"}
	}
	return name, nil
}

// BaseName returns the file name of a slash-separated path without its
// directory and final extension.
func BaseName(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}
