package bundler

import (
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/erraggy/oasrepo/logging"
	"github.com/erraggy/oasrepo/oaserrors"
	"github.com/erraggy/oasrepo/plugin"
	"github.com/erraggy/oasrepo/sourcetree"
)

// Option is a function that configures a bundle operation
type Option func(*bundleConfig) error

// bundleConfig holds configuration for a bundle operation
type bundleConfig struct {
	baseDir             string
	filesystem          billy.Filesystem
	layout              sourcetree.Layout
	skipCodeSamples     bool
	skipHeadersInlining bool
	skipPlugins         bool
	plugins             *plugin.Registry
	verbose             bool
	logger              logging.Logger
}

// BundleWithOptions bundles a source tree using functional options.
//
// Example:
//
//	result, err := bundler.BundleWithOptions(
//	    bundler.WithBaseDir("spec"),
//	    bundler.WithSkipCodeSamples(true),
//	)
func BundleWithOptions(opts ...Option) (*BundleResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("bundler: invalid options: %w", err)
	}

	b := &Bundler{
		BaseDir:             cfg.baseDir,
		Filesystem:          cfg.filesystem,
		Layout:              cfg.layout,
		SkipCodeSamples:     cfg.skipCodeSamples,
		SkipHeadersInlining: cfg.skipHeadersInlining,
		SkipPlugins:         cfg.skipPlugins,
		Plugins:             cfg.plugins,
		Verbose:             cfg.verbose,
		Logger:              cfg.logger,
	}
	return b.Bundle()
}

func applyOptions(opts ...Option) (*bundleConfig, error) {
	cfg := &bundleConfig{
		baseDir: sourcetree.DefaultBaseDir,
		layout:  sourcetree.DefaultLayout(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithBaseDir sets the directory holding the source tree.
func WithBaseDir(dir string) Option {
	return func(cfg *bundleConfig) error {
		if dir == "" {
			return &oaserrors.ConfigError{Option: "base dir", Message: "must not be empty"}
		}
		cfg.baseDir = dir
		return nil
	}
}

// WithFilesystem bundles from fsys instead of the base directory.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(cfg *bundleConfig) error {
		cfg.filesystem = fsys
		return nil
	}
}

// WithLayout sets the source tree layout. Empty fields take defaults.
func WithLayout(layout sourcetree.Layout) Option {
	return func(cfg *bundleConfig) error {
		cfg.layout = layout.WithDefaults()
		return nil
	}
}

// WithPluginsDir overrides the plugins directory of the layout.
func WithPluginsDir(dir string) Option {
	return func(cfg *bundleConfig) error {
		cfg.layout.PluginsDir = dir
		return nil
	}
}

// WithSkipCodeSamples leaves code samples out of the bundle.
func WithSkipCodeSamples(skip bool) Option {
	return func(cfg *bundleConfig) error {
		cfg.skipCodeSamples = skip
		return nil
	}
}

// WithSkipHeadersInlining keeps #/headers references as written.
func WithSkipHeadersInlining(skip bool) Option {
	return func(cfg *bundleConfig) error {
		cfg.skipHeadersInlining = skip
		return nil
	}
}

// WithSkipPlugins disables every plugin.
func WithSkipPlugins(skip bool) Option {
	return func(cfg *bundleConfig) error {
		cfg.skipPlugins = skip
		return nil
	}
}

// WithPlugins sets the programmatically registered plugins.
func WithPlugins(reg *plugin.Registry) Option {
	return func(cfg *bundleConfig) error {
		cfg.plugins = reg
		return nil
	}
}

// WithVerbose logs progress at info level.
func WithVerbose(verbose bool) Option {
	return func(cfg *bundleConfig) error {
		cfg.verbose = verbose
		return nil
	}
}

// WithLogger sets the logger for progress lines and warnings.
func WithLogger(l logging.Logger) Option {
	return func(cfg *bundleConfig) error {
		cfg.logger = l
		return nil
	}
}
