package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo/internal/config"
	"github.com/erraggy/oasrepo/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var outfile string
	var asYAML bool

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Rebundle to a file whenever the source tree changes",
		Example: `  oasrepo watch -o web_deploy/openapi.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := a.cfg.Format
			if asYAML {
				format = config.FormatYAML
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := &watch.Watcher{
				Dir:      a.cfg.BaseDir,
				Debounce: a.cfg.WatchDebounce,
				Ignore:   []string{outfile},
				Logger:   a.logger,
				OnChange: func(context.Context) error {
					result, err := a.bundle()
					if err != nil {
						return err
					}
					printWarnings(cmd.ErrOrStderr(), result.Warnings)
					data, err := marshal(result.Document, format)
					if err != nil {
						return err
					}
					if err := writeOutput(outfile, data); err != nil {
						return fmt.Errorf("writing %s: %w", outfile, err)
					}
					printCreated(cmd.OutOrStdout(), outfile)
					return nil
				},
			}
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&outfile, "outfile", "o", "", "file to write the bundle to")
	cmd.Flags().BoolVarP(&asYAML, "yaml", "y", false, "output YAML (default is JSON)")
	_ = cmd.MarkFlagRequired("outfile")
	return cmd
}
