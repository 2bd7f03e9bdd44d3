package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo"
	"github.com/erraggy/oasrepo/internal/cliutil"
)

func newVersionCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			if long {
				cliutil.Writef(cmd.OutOrStdout(), "%s\n", oasrepo.BuildInfo())
				return
			}
			cliutil.Writef(cmd.OutOrStdout(), "oasrepo %s\n", oasrepo.Version())
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "print full build information")
	return cmd
}
