package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo/internal/cliutil"
	"github.com/erraggy/oasrepo/syncer"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "sync <file|->",
		Aliases: []string{"sync-with-swagger"},
		Short:   "Write a single-file document back into the source tree",
		Long: `sync splits a JSON or YAML document into the source tree. Every path and
definition is written to its own fragment; existing fragments keep their
location, new ones are created at the top of paths/ or definitions/, and
fragments whose entry is gone are removed. Unchanged files are left alone.

Use "-" to read the document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := syncer.SyncWithOptions(data,
				syncer.WithBaseDir(a.cfg.BaseDir),
				syncer.WithLayout(a.layout()),
				syncer.WithVerbose(a.cfg.Verbose),
				syncer.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.HasChanges() {
				cliutil.Status(out, cliutil.SuccessStyle, "Already in sync")
				return nil
			}
			for _, file := range result.Changed {
				cliutil.Writef(out, "Updated %s\n", cliutil.FileStyle.Render(file))
			}
			cliutil.Status(out, cliutil.SuccessStyle, "%s written, %s removed",
				cliutil.Pluralize(result.Written, "file"), cliutil.Pluralize(result.Removed, "file"))
			return nil
		},
	}
}
