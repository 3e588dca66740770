package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ByLCY/sheetsmith/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve signup sheets over HTTP",
	Long:  `serve signup sheets over HTTP. Assets are loaded once at startup; the PORT environment variable overrides the configured port.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		srv, err := server.New(
			server.WithGeometry(a.geometry),
			server.WithRenderer(a.renderer),
			server.WithIcon(a.bundle.Icon),
			server.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx, cfg.Addr())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
