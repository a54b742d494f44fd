package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/server"
)

var listenAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the discovery API over HTTP",
	Long: `Serve the discovery API as JSON over HTTP until interrupted.

Prometheus metrics are exposed on /metrics unless server.metrics is false.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = listenAddr
		}

		opts := []server.Option{
			server.WithFilters(app.filters),
			server.WithThemeStore(app.theme),
			server.WithNotifications(app.notifications),
			server.WithSearchHistory(app.searches),
			server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		}
		if cfg.Server.Metrics {
			opts = append(opts, server.WithMetrics(app.registry, app.registry))
		}

		if !app.discovery.Configured() {
			logger.Warn().Msg("Catalog API key is not set, catalog endpoints will answer 503")
		}

		return server.New(app.discovery, logger, opts...).Run(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}
