// Package validation checks a bundled document against the OpenAPI
// specification.
//
// Validation is delegated: the Validator interface decouples callers from
// the engine, and OASTools runs the oastools validator.
package validation

import (
	"context"
	"fmt"

	"github.com/erraggy/oastools/parser"
	"github.com/erraggy/oastools/validator"

	"github.com/erraggy/oasrepo/document"
)

// Issue is one validation finding.
type Issue struct {
	// Path locates the finding, e.g. "paths./users.get.responses".
	Path string
	// Message describes the finding.
	Message string
	// SpecRef links to the relevant section of the specification, if known.
	SpecRef string
}

// Result holds the findings for one document.
type Result struct {
	// Version is the detected specification version, e.g. "2.0".
	Version  string
	Errors   []Issue
	Warnings []Issue
}

// Valid reports whether no errors were found. Warnings are allowed.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validator validates documents.
type Validator interface {
	Validate(ctx context.Context, doc *document.Map) (*Result, error)
}

// OASTools validates with github.com/erraggy/oastools.
type OASTools struct {
	// IncludeWarnings reports best-practice warnings besides errors.
	IncludeWarnings bool
	// StrictMode enables checks beyond the specification requirements.
	StrictMode bool
}

// NewOASTools returns an OASTools validator that includes warnings.
func NewOASTools() *OASTools {
	return &OASTools{IncludeWarnings: true}
}

var _ Validator = (*OASTools)(nil)

// Validate implements Validator. An error is returned only when the
// document cannot be validated at all.
func (o *OASTools) Validate(ctx context.Context, doc *document.Map) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := document.MarshalJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("validation: encoding document: %w", err)
	}

	parsed, err := parser.ParseWithOptions(parser.WithBytes(data))
	if err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}

	v := validator.New()
	v.IncludeWarnings = o.IncludeWarnings
	v.StrictMode = o.StrictMode
	res, err := v.ValidateParsed(*parsed)
	if err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}

	result := &Result{Version: res.Version}
	for _, e := range res.Errors {
		result.Errors = append(result.Errors, Issue{Path: e.Path, Message: e.Message, SpecRef: e.SpecRef})
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, Issue{Path: w.Path, Message: w.Message, SpecRef: w.SpecRef})
	}
	return result, nil
}
