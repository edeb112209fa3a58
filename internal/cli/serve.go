package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/uiforge/internal/clock"
	"github.com/danieljhkim/uiforge/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generation API over HTTP",
	Long: `Serve the generation API over HTTP until interrupted.

Routes:
  POST /generate                        {"userText": "..."}
  POST /generate/preview                {"userText": "..."}
  GET  /generate/versions
  GET  /generate/versions/{id}
  POST /generate/versions/{id}/restore
  GET  /generate/versions/{id}/code
  GET  /generate/code
  GET  /health`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.cfg.Server
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		a.logger.Info("serving", "addr", cfg.Addr, "store", a.cfg.Store.Backend, "rate_limit", cfg.RateLimit)

		srv := server.New(a.engine, cfg, clock.RealClock{}, a.logger)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :3001)")
}
