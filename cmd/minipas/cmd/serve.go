package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/msto63/minipas/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analyses over a websocket",
	Long: `Starts the analysis server.

Endpoints:
  GET /health  Health status as JSON
  GET /ws      WebSocket; send {"type":"analyze","payload":{"name":"a.pas","source":"..."}}
               or {"type":"ping"}

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	scfg := server.FromConfig(cfg.Server)
	if serveHost != "" {
		scfg.Host = serveHost
	}
	if servePort > 0 {
		scfg.Port = servePort
	}

	srv, err := server.New(scfg, server.Options{Logger: logger})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
