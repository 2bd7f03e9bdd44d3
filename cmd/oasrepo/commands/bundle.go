package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo/internal/cliutil"
	"github.com/erraggy/oasrepo/internal/config"
)

func newBundleCmd(a *app) *cobra.Command {
	var outfile string
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Bundle the source tree into a single document",
		Example: `  oasrepo bundle > openapi.json
  oasrepo bundle -o openapi.json
  oasrepo bundle -y -o openapi.yaml
  oasrepo bundle -b api --skip-plugins`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := a.cfg.Format
			if asYAML {
				format = config.FormatYAML
			}

			result, err := a.bundle()
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), result.Warnings)

			data, err := marshal(result.Document, format)
			if err != nil {
				return err
			}
			if outfile == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeOutput(outfile, data); err != nil {
				return err
			}
			cliutil.Writef(cmd.OutOrStdout(), "Created %q swagger file.\n", filepath.ToSlash(outfile))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outfile, "outfile", "o", "", "write the bundle to this file instead of stdout")
	cmd.Flags().BoolVarP(&asYAML, "yaml", "y", false, "output YAML (default is JSON)")
	return cmd
}
