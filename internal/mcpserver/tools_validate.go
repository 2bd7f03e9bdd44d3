package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasrepo/bundler"
	"github.com/erraggy/oasrepo/validation"
)

type validateInput struct {
	BaseDir    string `json:"base_dir,omitempty"    jsonschema:"Source tree directory (default from OASREPO_MCP_BASE_DIR)"`
	Strict     *bool  `json:"strict,omitempty"      jsonschema:"Enable strict validation mode"`
	NoWarnings *bool  `json:"no_warnings,omitempty" jsonschema:"Suppress warnings from output"`
	Offset     int    `json:"offset,omitempty"      jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit      int    `json:"limit,omitempty"       jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	SpecRef string `json:"spec_ref,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Version      string          `json:"version"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	noWarnings := cfg.ValidateNoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	bundled, err := bundler.BundleWithOptions(bundler.WithBaseDir(baseDir(input.BaseDir)))
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	v := &validation.OASTools{IncludeWarnings: !noWarnings, StrictMode: strict}
	result, err := v.Validate(ctx, bundled.Document)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:      result.Valid(),
		Version:    result.Version,
		ErrorCount: len(result.Errors),
	}

	output.Errors = toIssues(result.Errors)
	if !noWarnings {
		output.WarningCount = len(result.Warnings)
		output.Warnings = toIssues(result.Warnings)
	}

	// Paginate errors and warnings.
	output.Errors = paginate(output.Errors, input.Offset, input.Limit)
	if !noWarnings {
		output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	}
	output.Returned = len(output.Errors) + len(output.Warnings)

	return nil, output, nil
}

func toIssues(in []validation.Issue) []validateIssue {
	out := makeSlice[validateIssue](len(in))
	for _, i := range in {
		out = append(out, validateIssue{Path: i.Path, Message: i.Message, SpecRef: i.SpecRef})
	}
	return out
}
