// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasrepo bundling, syncing and validation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasrepo"
)

const serverInstructions = `oasrepo MCP server: bundles a split OpenAPI source tree, writes edited documents back into it, and validates the bundle.

A source tree is a directory holding swagger.yaml plus optional paths/, definitions/, code_samples/ and plugins/ directories. Path keys are stored in file names with "/" written as "@".

Configuration: defaults are configurable via OASREPO_MCP_* environment variables set in your MCP client config.

Key settings:
- OASREPO_MCP_BASE_DIR (default: spec): source tree used when base_dir is omitted
- OASREPO_MCP_FORMAT (default: json): bundle output format (json or yaml)
- OASREPO_MCP_VALIDATE_STRICT (default: false): enable strict validation by default
- OASREPO_MCP_VALIDATE_NO_WARNINGS (default: false): suppress warnings by default
- OASREPO_MCP_ISSUE_LIMIT (default: 100): default page size for validation issues
- OASREPO_MCP_MAX_CONTENT_SIZE (default: 10MiB): largest document accepted by sync`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasrepo", Version: oasrepo.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "bundle",
		Description: "Bundle a split OpenAPI source tree into a single document. Paths, definitions and code samples are merged into the main file, #/headers references are inlined and plugins run last. Each step can be skipped. Use output to write the bundle to a file instead of returning it inline. The default format is configurable via OASREPO_MCP_FORMAT.",
	}, handleBundle)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync",
		Description: "Write an edited OpenAPI document (JSON or YAML) back into a split source tree. Each path and definition goes to its own fragment file, existing file locations are kept, stale fragments are removed and unchanged files are not rewritten. Returns the list of changed files.",
	}, handleSync)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Bundle a source tree and validate the result against its OpenAPI version. Returns errors and warnings with locations. Use no_warnings to focus on errors first and offset/limit to paginate. Strict mode and warning suppression defaults are configurable via OASREPO_MCP_VALIDATE_STRICT and OASREPO_MCP_VALIDATE_NO_WARNINGS.",
	}, handleValidate)
}

// baseDir returns dir, or the configured default.
func baseDir(dir string) string {
	if dir == "" {
		return cfg.BaseDir
	}
	return dir
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.IssueLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.IssueLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
