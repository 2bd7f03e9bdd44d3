package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasrepo/bundler"
	"github.com/erraggy/oasrepo/document"
	"github.com/erraggy/oasrepo/internal/config"
	"github.com/erraggy/oasrepo/internal/fileutil"
)

type bundleInput struct {
	BaseDir             string `json:"base_dir,omitempty"              jsonschema:"Source tree directory (default from OASREPO_MCP_BASE_DIR)"`
	Format              string `json:"format,omitempty"                jsonschema:"Output format: json or yaml"`
	SkipCodeSamples     bool   `json:"skip_code_samples,omitempty"     jsonschema:"Leave code samples out of the bundle"`
	SkipHeadersInlining bool   `json:"skip_headers_inlining,omitempty" jsonschema:"Keep #/headers references and the headers section"`
	SkipPlugins         bool   `json:"skip_plugins,omitempty"          jsonschema:"Do not run plugins"`
	Output              string `json:"output,omitempty"                jsonschema:"Write the bundle to this file instead of returning it inline"`
}

type bundleOutput struct {
	Format      string   `json:"format"`
	Paths       int      `json:"paths"`
	Definitions int      `json:"definitions"`
	CodeSamples int      `json:"code_samples"`
	Plugins     []string `json:"plugins,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	WrittenTo   string   `json:"written_to,omitempty"`
	Document    string   `json:"document,omitempty"`
}

func handleBundle(_ context.Context, _ *mcp.CallToolRequest, input bundleInput) (*mcp.CallToolResult, bundleOutput, error) {
	format := input.Format
	if format == "" {
		format = cfg.Format
	}
	if format != config.FormatJSON && format != config.FormatYAML {
		return errResult(fmt.Errorf("unsupported format %q: use json or yaml", format)), bundleOutput{}, nil
	}

	result, err := bundler.BundleWithOptions(
		bundler.WithBaseDir(baseDir(input.BaseDir)),
		bundler.WithSkipCodeSamples(input.SkipCodeSamples),
		bundler.WithSkipHeadersInlining(input.SkipHeadersInlining),
		bundler.WithSkipPlugins(input.SkipPlugins),
	)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	data, err := marshal(result.Document, format)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	output := bundleOutput{
		Format:      format,
		Paths:       result.Stats.Paths,
		Definitions: result.Stats.Definitions,
		CodeSamples: result.Stats.CodeSamples,
		Warnings:    result.Warnings,
	}
	output.Plugins = makeSlice[string](len(result.Stats.Plugins))
	for _, p := range result.Stats.Plugins {
		output.Plugins = append(output.Plugins, p.Name)
	}

	if input.Output != "" {
		if _, err := fileutil.WriteOutput(input.Output, data); err != nil {
			return errResult(err), bundleOutput{}, nil
		}
		output.WrittenTo = input.Output
		return nil, output, nil
	}

	output.Document = string(data)
	return nil, output, nil
}

func marshal(doc *document.Map, format string) ([]byte, error) {
	if format == config.FormatYAML {
		return document.MarshalYAML(doc)
	}
	return document.MarshalJSON(doc)
}
