package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo/document"
)

// defaultOutDir is where build writes its files.
const defaultOutDir = "web_deploy"

func newBuildCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write openapi.json and openapi.yaml into an output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.bundle()
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), result.Warnings)

			outputs := []struct {
				name    string
				marshal func(any) ([]byte, error)
			}{
				{"openapi.json", document.MarshalJSON},
				{"openapi.yaml", document.MarshalYAML},
			}
			for _, out := range outputs {
				data, err := out.marshal(result.Document)
				if err != nil {
					return err
				}
				name := filepath.Join(outDir, out.name)
				if err := writeOutput(name, data); err != nil {
					return err
				}
				printCreated(cmd.OutOrStdout(), filepath.ToSlash(name))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "outdir", "o", defaultOutDir, "output directory")
	return cmd
}
