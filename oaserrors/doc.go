// Package oaserrors provides structured error types for the oasrepo library.
//
// Import path: github.com/erraggy/oasrepo/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As].
// Every fatal condition raised by bundling or synchronizing a source tree maps to
// one error type:
//
//   - [AuthorshipError]: a section is both inline in the main file and split into a directory
//   - [DuplicateError]: two fragment files resolve to the same document path
//   - [MissingTargetError]: a code sample references an operation absent from paths
//   - [ParseError]: input cannot be parsed as JSON or YAML
//   - [PluginError]: a plugin returned an error; the bundle is aborted
//   - [ReferenceError]: a header reference points nowhere or loops
//   - [CodecError]: a path segment cannot be escaped as a filename
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//	if errors.Is(err, oaserrors.ErrDuplicate) {
//	    // two files claim the same path
//	}
//
// Extract error details with errors.As():
//
//	var authErr *oaserrors.AuthorshipError
//	if errors.As(err, &authErr) {
//	    fmt.Printf("move %s out of the main file into %s\n", authErr.Section, authErr.Dir)
//	}
package oaserrors
