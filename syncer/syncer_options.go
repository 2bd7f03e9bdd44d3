package syncer

import (
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/erraggy/oasrepo/logging"
	"github.com/erraggy/oasrepo/oaserrors"
	"github.com/erraggy/oasrepo/sourcetree"
)

// Option is a function that configures a sync operation
type Option func(*syncConfig) error

type syncConfig struct {
	baseDir    string
	filesystem billy.Filesystem
	layout     sourcetree.Layout
	verbose    bool
	logger     logging.Logger
}

// SyncWithOptions writes input into a source tree using functional options.
//
// Example:
//
//	result, err := syncer.SyncWithOptions(edited, syncer.WithBaseDir("spec"))
func SyncWithOptions(input any, opts ...Option) (*SyncResult, error) {
	cfg := &syncConfig{
		baseDir: sourcetree.DefaultBaseDir,
		layout:  sourcetree.DefaultLayout(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("syncer: invalid options: %w", err)
		}
	}

	s := &Syncer{
		BaseDir:    cfg.baseDir,
		Filesystem: cfg.filesystem,
		Layout:     cfg.layout,
		Verbose:    cfg.verbose,
		Logger:     cfg.logger,
	}
	return s.Sync(input)
}

// WithBaseDir sets the directory holding the source tree.
func WithBaseDir(dir string) Option {
	return func(cfg *syncConfig) error {
		if dir == "" {
			return &oaserrors.ConfigError{Option: "base dir", Message: "must not be empty"}
		}
		cfg.baseDir = dir
		return nil
	}
}

// WithFilesystem syncs into fsys instead of the base directory.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(cfg *syncConfig) error {
		cfg.filesystem = fsys
		return nil
	}
}

// WithLayout sets the source tree layout. Empty fields take defaults.
func WithLayout(layout sourcetree.Layout) Option {
	return func(cfg *syncConfig) error {
		cfg.layout = layout.WithDefaults()
		return nil
	}
}

// WithVerbose logs every changed file at info level.
func WithVerbose(verbose bool) Option {
	return func(cfg *syncConfig) error {
		cfg.verbose = verbose
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(cfg *syncConfig) error {
		cfg.logger = l
		return nil
	}
}
