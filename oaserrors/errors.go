// Package oaserrors provides structured error types for oasrepo.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between the fatal conditions
// that abort a bundle or sync.
//
// # Error Categories
//
//   - AuthorshipError: a section is authored both inline and as a split directory
//   - DuplicateError: two fragment files resolve to the same document path
//   - MissingTargetError: a code sample targets an operation absent from paths
//   - ParseError: input is neither valid JSON nor valid YAML
//   - PluginError: a plugin failed while transforming the bundled document
//   - ReferenceError: a header $ref cannot be resolved
//   - CodecError: a document path cannot be encoded as a filename
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	result, err := bundler.BundleWithOptions(bundler.WithBaseDir("spec"))
//	if err != nil {
//	    var dupErr *oaserrors.DuplicateError
//	    if errors.As(err, &dupErr) {
//	        fmt.Println("colliding fragments for", dupErr.Path)
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrAuthorship indicates a section exists both inline and as a split directory.
	ErrAuthorship = errors.New("ambiguous authorship")

	// ErrDuplicate indicates two fragment files map to the same document path.
	ErrDuplicate = errors.New("duplicate definition")

	// ErrMissingTarget indicates a code sample references a non-existing operation.
	ErrMissingTarget = errors.New("missing target")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrPlugin indicates a plugin failed.
	ErrPlugin = errors.New("plugin error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrCodec indicates a path segment cannot be escaped losslessly.
	ErrCodec = errors.New("codec error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// AuthorshipError reports a section that is present in the main file while a
// directory for the same section also exists. Precedence would be ambiguous,
// so the operation is aborted.
type AuthorshipError struct {
	// Section is the document section, e.g. "paths" or "x-code-samples"
	Section string
	// Dir is the split directory that should own the section
	Dir string
	// Location optionally identifies where the inline section was found
	Location string
}

// Error returns a human-readable error message.
func (e *AuthorshipError) Error() string {
	msg := "ambiguous authorship"
	if e.Section != "" {
		msg += ": " + e.Section
	}
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Dir != "" {
		msg += fmt.Sprintf(" should be defined only inside %s", e.Dir)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *AuthorshipError) Is(target error) bool {
	return target == ErrAuthorship
}

// DuplicateError reports two fragment files resolving to the same document path.
type DuplicateError struct {
	// Path is the colliding document path
	Path string
	// Files are the fragment files involved, first registered first
	Files []string
}

// Error returns a human-readable error message.
func (e *DuplicateError) Error() string {
	msg := fmt.Sprintf("duplicate definition: %s definition already exists", e.Path)
	if len(e.Files) > 0 {
		msg += " (" + strings.Join(e.Files, ", ") + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// MissingTargetError reports a code sample for an operation that does not exist.
type MissingTargetError struct {
	// Path is the operation path, e.g. "/users"
	Path string
	// Verb is the HTTP verb, e.g. "get"
	Verb string
	// File is the code sample file that referenced the operation
	File string
}

// Error returns a human-readable error message.
func (e *MissingTargetError) Error() string {
	msg := fmt.Sprintf("code sample for non-existing operation: %q, %s", e.Path, e.Verb)
	if e.File != "" {
		msg += " (" + e.File + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *MissingTargetError) Is(target error) bool {
	return target == ErrMissingTarget
}

// ParseError represents a failure to parse a document or fragment.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// PluginError represents a plugin failure during bundling.
type PluginError struct {
	// Plugin is the registered plugin name
	Plugin string
	// Stage is "init", "match", "process" or "finish"
	Stage string
	// Path is the JSON pointer of the node being processed, if any
	Path string
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *PluginError) Error() string {
	msg := "plugin error"
	if e.Plugin != "" {
		msg += " in " + e.Plugin
	}
	if e.Stage != "" {
		msg += " during " + e.Stage
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *PluginError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *PluginError) Is(target error) bool {
	return target == ErrPlugin
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Location is the JSON pointer of the node holding the reference
	Location string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference when IsCircular is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// CodecError reports a document path that cannot be mapped to a filename
// without loss.
type CodecError struct {
	// Segment is the offending path or segment
	Segment string
	// Message describes why the segment cannot be encoded
	Message string
}

// Error returns a human-readable error message.
func (e *CodecError) Error() string {
	msg := "codec error"
	if e.Segment != "" {
		msg += fmt.Sprintf(" for %q", e.Segment)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *CodecError) Is(target error) bool {
	return target == ErrCodec
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
