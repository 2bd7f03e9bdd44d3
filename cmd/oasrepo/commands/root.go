// Package commands provides the cobra commands of the oasrepo CLI.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo/bundler"
	"github.com/erraggy/oasrepo/internal/cliutil"
	"github.com/erraggy/oasrepo/internal/config"
	"github.com/erraggy/oasrepo/logging"
	"github.com/erraggy/oasrepo/sourcetree"
)

// errValidationFailed is returned by validate when the bundle has errors.
// The issues themselves have already been printed.
var errValidationFailed = errors.New("validation failed")

// app carries what every command needs once flags are parsed.
type app struct {
	// workDir is where .oasrepo.yaml and .env are looked up.
	workDir string
	cfg     config.Config
	logger  logging.Logger
}

// NewRootCmd returns the oasrepo command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{workDir: "."})
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cliutil.ErrorStyle.Render("Error: "+err.Error()))
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oasrepo",
		Short: "Keep an OpenAPI document as a tree of YAML fragments",
		Long: `oasrepo bundles a source tree of small YAML fragments into one OpenAPI
document and writes edited documents back into the tree.

A source tree (spec/ by default) holds:
  swagger.yaml            the main file
  paths/*.yaml            one file per path, "/" written as "@"
  definitions/*.yaml      one file per definition
  code_samples/<lang>/<path>/<verb>.<ext>
  plugins/*.yaml          overlay documents applied after bundling

Settings are read from .oasrepo.yaml, .env and OASREPO_* environment
variables; flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("basedir", "b", sourcetree.DefaultBaseDir, "source tree directory")
	flags.String("plugins-dir", "", "plugins directory inside the source tree (default \"plugins\")")
	flags.BoolP("verbose", "v", false, "log progress")
	flags.Bool("skip-code-samples", false, "leave code samples out of the bundle")
	flags.Bool("skip-headers-inlining", false, "keep #/headers references")
	flags.Bool("skip-plugins", false, "do not run plugins")

	cmd.AddCommand(
		newBundleCmd(a),
		newBuildCmd(a),
		newSyncCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// load resolves the configuration and applies the flags that were set on
// the command line.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.workDir)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("basedir") {
		cfg.BaseDir, _ = flags.GetString("basedir")
	}
	if flags.Changed("plugins-dir") {
		cfg.PluginsDir, _ = flags.GetString("plugins-dir")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("skip-code-samples") {
		cfg.SkipCodeSamples, _ = flags.GetBool("skip-code-samples")
	}
	if flags.Changed("skip-headers-inlining") {
		cfg.SkipHeadersInlining, _ = flags.GetBool("skip-headers-inlining")
	}
	if flags.Changed("skip-plugins") {
		cfg.SkipPlugins, _ = flags.GetBool("skip-plugins")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	a.logger = logging.NewSlogAdapter(slog.New(handler))
	return nil
}

// layout returns the source tree layout for the resolved settings.
func (a *app) layout() sourcetree.Layout {
	return sourcetree.Layout{PluginsDir: a.cfg.PluginsDir}.WithDefaults()
}

// bundle runs the bundler with the resolved settings.
func (a *app) bundle() (*bundler.BundleResult, error) {
	return bundler.BundleWithOptions(
		bundler.WithBaseDir(a.cfg.BaseDir),
		bundler.WithLayout(a.layout()),
		bundler.WithSkipCodeSamples(a.cfg.SkipCodeSamples),
		bundler.WithSkipHeadersInlining(a.cfg.SkipHeadersInlining),
		bundler.WithSkipPlugins(a.cfg.SkipPlugins),
		bundler.WithVerbose(true),
		bundler.WithLogger(a.logger),
	)
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name) //nolint:gosec // G304: reading the user's own file is the point
	if err != nil {
		return nil, err
	}
	return data, nil
}
