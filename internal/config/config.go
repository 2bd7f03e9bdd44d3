// Package config resolves the settings shared by the oasrepo commands.
//
// Settings are layered, later sources winning:
//
//  1. built-in defaults
//  2. .oasrepo.yaml in the working directory
//  3. .env in the working directory (never overrides the real environment)
//  4. OASREPO_* environment variables
//  5. command-line flags (applied by the caller)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasrepo/oaserrors"
	"github.com/erraggy/oasrepo/sourcetree"
)

// FileName is the optional project configuration file.
const FileName = ".oasrepo.yaml"

// EnvFileName is the optional dotenv file.
const EnvFileName = ".env"

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the resolved settings.
type Config struct {
	BaseDir             string        `yaml:"base_dir"`
	PluginsDir          string        `yaml:"plugins_dir"`
	Format              string        `yaml:"format"`
	Verbose             bool          `yaml:"verbose"`
	Port                int           `yaml:"port"`
	SkipCodeSamples     bool          `yaml:"skip_code_samples"`
	SkipHeadersInlining bool          `yaml:"skip_headers_inlining"`
	SkipPlugins         bool          `yaml:"skip_plugins"`
	WatchDebounce       time.Duration `yaml:"watch_debounce"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		BaseDir:       sourcetree.DefaultBaseDir,
		Format:        FormatJSON,
		Port:          3000,
		WatchDebounce: 300 * time.Millisecond,
	}
}

// Load resolves the configuration for the project in dir.
func Load(dir string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, &oaserrors.ConfigError{Option: FileName, Message: "invalid YAML", Cause: err}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return c, fmt.Errorf("config: %w", err)
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, EnvFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, &oaserrors.ConfigError{Option: EnvFileName, Message: "invalid dotenv file", Cause: err}
	}

	env := envSource{dotenv: dotenv}
	c.BaseDir = env.str("OASREPO_BASE_DIR", c.BaseDir)
	c.PluginsDir = env.str("OASREPO_PLUGINS_DIR", c.PluginsDir)
	c.Format = env.str("OASREPO_FORMAT", c.Format)
	c.Verbose = env.bool("OASREPO_VERBOSE", c.Verbose)
	c.Port = env.int("OASREPO_PORT", c.Port)
	c.SkipCodeSamples = env.bool("OASREPO_SKIP_CODE_SAMPLES", c.SkipCodeSamples)
	c.SkipHeadersInlining = env.bool("OASREPO_SKIP_HEADERS_INLINING", c.SkipHeadersInlining)
	c.SkipPlugins = env.bool("OASREPO_SKIP_PLUGINS", c.SkipPlugins)
	c.WatchDebounce = env.duration("OASREPO_WATCH_DEBOUNCE", c.WatchDebounce)

	return c, c.Validate()
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return &oaserrors.ConfigError{Option: "base_dir", Message: "must not be empty"}
	}
	if c.Format != FormatJSON && c.Format != FormatYAML {
		return &oaserrors.ConfigError{Option: "format", Value: c.Format, Message: "must be json or yaml"}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return &oaserrors.ConfigError{Option: "port", Value: c.Port, Message: "must be between 1 and 65535"}
	}
	return nil
}

// envSource looks variables up in the process environment first and the
// dotenv file second.
type envSource struct {
	dotenv map[string]string
}

func (e envSource) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return e.dotenv[key]
}

func (e envSource) str(key, fallback string) string {
	if v := e.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (e envSource) bool(key string, fallback bool) bool {
	v := e.lookup(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func (e envSource) int(key string, fallback int) int {
	v := e.lookup(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func (e envSource) duration(key string, fallback time.Duration) time.Duration {
	v := e.lookup(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
