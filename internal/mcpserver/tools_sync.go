package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasrepo/syncer"
)

type syncInput struct {
	BaseDir string `json:"base_dir,omitempty" jsonschema:"Source tree directory (default from OASREPO_MCP_BASE_DIR)"`
	Content string `json:"content"            jsonschema:"The full edited document (JSON or YAML)"`
}

type syncOutput struct {
	Written int      `json:"written"`
	Removed int      `json:"removed"`
	Changed []string `json:"changed,omitempty"`
}

func handleSync(_ context.Context, _ *mcp.CallToolRequest, input syncInput) (*mcp.CallToolResult, syncOutput, error) {
	if input.Content == "" {
		return errResult(fmt.Errorf("content is required")), syncOutput{}, nil
	}
	if len(input.Content) > cfg.MaxContentSize {
		return errResult(fmt.Errorf("content is %d bytes, the limit is %d", len(input.Content), cfg.MaxContentSize)), syncOutput{}, nil
	}

	result, err := syncer.SyncWithOptions(input.Content, syncer.WithBaseDir(baseDir(input.BaseDir)))
	if err != nil {
		return errResult(err), syncOutput{}, nil
	}

	return nil, syncOutput{
		Written: result.Written,
		Removed: result.Removed,
		Changed: result.Changed,
	}, nil
}
