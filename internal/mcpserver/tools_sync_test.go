package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTool(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"swagger.yaml":     testMainFile,
		"paths/users.yaml": testUsersPath,
	})

	content := testMainFile + `paths:
  /users:
    get:
      summary: All users
      responses:
        "200":
          description: OK
  /users/{id}:
    get:
      summary: One user
`
	result, output, err := handleSync(context.Background(), &mcp.CallToolRequest{}, syncInput{
		BaseDir: dir,
		Content: content,
	})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 2, output.Written)
	assert.Equal(t, []string{"paths/users.yaml", "paths/users@{id}.yaml"}, output.Changed)

	data, err := os.ReadFile(filepath.Join(dir, "paths", "users@{id}.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "get:\n  summary: One user\n", string(data))

	// A second identical sync touches nothing.
	_, output, err = handleSync(context.Background(), &mcp.CallToolRequest{}, syncInput{BaseDir: dir, Content: content})
	require.NoError(t, err)
	assert.Zero(t, output.Written)
	assert.Empty(t, output.Changed)
}

func TestSyncTool_Errors(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		result, _, err := handleSync(context.Background(), &mcp.CallToolRequest{}, syncInput{BaseDir: t.TempDir()})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})

	t.Run("content too large", func(t *testing.T) {
		clearOASREPOEnv(t)
		t.Setenv("OASREPO_MCP_MAX_CONTENT_SIZE", "16")
		saved := cfg
		cfg = loadConfig()
		t.Cleanup(func() { cfg = saved })

		result, _, err := handleSync(context.Background(), &mcp.CallToolRequest{}, syncInput{
			BaseDir: t.TempDir(),
			Content: strings.Repeat("a", 17),
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})

	t.Run("unparseable document", func(t *testing.T) {
		dir := writeTree(t, map[string]string{
			"swagger.yaml":     testMainFile,
			"paths/users.yaml": testUsersPath,
		})
		result, _, err := handleSync(context.Background(), &mcp.CallToolRequest{}, syncInput{
			BaseDir: dir,
			Content: "- just\n- a list\n",
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})
}
