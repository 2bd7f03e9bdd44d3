package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasrepo/internal/cliutil"
	"github.com/erraggy/oasrepo/internal/metrics"
	"github.com/erraggy/oasrepo/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bundled document over HTTP",
		Long: `serve exposes the source tree over HTTP:

  GET /openapi.json           the bundle as JSON
  GET /openapi.yaml           the bundle as YAML
  GET /swagger.yaml           the document for editing
  PUT /backend_swagger.yaml   write an edited document back into the tree
  GET /metrics                Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Options{
				BaseDir:             a.cfg.BaseDir,
				Layout:              a.layout(),
				SkipCodeSamples:     a.cfg.SkipCodeSamples,
				SkipHeadersInlining: a.cfg.SkipHeadersInlining,
				SkipPlugins:         a.cfg.SkipPlugins,
				Logger:              a.logger,
				Metrics:             metrics.NewPrometheusRecorder(nil),
			})

			addr := fmt.Sprintf(":%d", a.cfg.Port)
			cliutil.Writef(cmd.OutOrStdout(), "Serving %s on %s\n",
				cliutil.FileStyle.Render(a.cfg.BaseDir), cliutil.SuccessStyle.Render(fmt.Sprintf("http://localhost:%d", a.cfg.Port)))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "port to listen on")
	return cmd
}
