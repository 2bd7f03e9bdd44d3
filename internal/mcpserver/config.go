package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/erraggy/oasrepo/internal/config"
	"github.com/erraggy/oasrepo/sourcetree"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// BaseDir is used when a tool call omits base_dir.
	BaseDir string
	// Format is the bundle output format, json or yaml.
	Format string

	// Validate tool defaults.
	ValidateStrict     bool
	ValidateNoWarnings bool

	// Limits.
	IssueLimit     int
	MaxLimit       int
	MaxContentSize int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASREPO_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		BaseDir:            envString("OASREPO_MCP_BASE_DIR", sourcetree.DefaultBaseDir),
		Format:             envFormat("OASREPO_MCP_FORMAT", config.FormatJSON),
		ValidateStrict:     envBool("OASREPO_MCP_VALIDATE_STRICT", false),
		ValidateNoWarnings: envBool("OASREPO_MCP_VALIDATE_NO_WARNINGS", false),
		IssueLimit:         envInt("OASREPO_MCP_ISSUE_LIMIT", 100),
		MaxLimit:           envInt("OASREPO_MCP_MAX_LIMIT", 1000),
		MaxContentSize:     envInt("OASREPO_MCP_MAX_CONTENT_SIZE", 10*1024*1024),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envFormat(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if v != config.FormatJSON && v != config.FormatYAML {
		slog.Warn("invalid format env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return v
}
