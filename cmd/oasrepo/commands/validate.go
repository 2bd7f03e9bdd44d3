package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo/internal/cliutil"
	"github.com/erraggy/oasrepo/validation"
)

func newValidateCmd(a *app) *cobra.Command {
	var strict, noWarnings bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Bundle the source tree and validate the result",
		Long: `validate bundles the source tree and checks the document against the
OpenAPI version it declares.

Exit Codes:
  0    Validation successful (warnings allowed)
  1    Validation failed with errors`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundled, err := a.bundle()
			if err != nil {
				return err
			}

			v := &validation.OASTools{IncludeWarnings: !noWarnings, StrictMode: strict}
			result, err := v.Validate(cmd.Context(), bundled.Document)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printIssues(out, "Validation errors:", cliutil.ErrorStyle, result.Errors)
			printIssues(out, "Validation warnings:", cliutil.WarnStyle, result.Warnings)
			if !result.Valid() {
				cliutil.Status(out, cliutil.ErrorStyle, "✗ %s, %s",
					cliutil.Pluralize(len(result.Errors), "error"), cliutil.Pluralize(len(result.Warnings), "warning"))
				return errValidationFailed
			}
			cliutil.Status(out, cliutil.SuccessStyle, "✓ Valid OpenAPI %s document, %s",
				result.Version, cliutil.Pluralize(len(result.Warnings), "warning"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "enable stricter validation beyond spec requirements")
	cmd.Flags().BoolVar(&noWarnings, "no-warnings", false, "suppress warning messages (only show errors)")
	return cmd
}
