package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/internal/server"
	"github.com/matzehuels/treeviz/pkg/observability"
	"github.com/matzehuels/treeviz/pkg/observability/prom"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram API over HTTP",
		Long: `Serve the diagram API over HTTP:

  GET  /healthz
  POST /api/v1/describe
  POST /api/v1/render?format=svg|png|pdf|dot|json
  GET  /metrics (unless --metrics=false)

Address and metrics default to the [server] section of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if cmd.Flags().Changed("metrics") {
				c.Config.Server.Metrics = metrics
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	opts := server.Options{
		Logger:   c.Logger,
		Defaults: c.pipelineDefaults(),
	}
	if c.Config.Server.Metrics {
		m := prom.New()
		observability.Register(m)
		defer observability.Reset()
		opts.Metrics = m.Handler()
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts.Runner = runner

	return server.New(opts).ListenAndServe(ctx, c.Config.Server.Addr)
}
