package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/77QAlab/LogMiner-QA/internal/api"
	"github.com/77QAlab/LogMiner-QA/internal/flaky"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis service",
	Long: `Start an HTTP server exposing the flakiness engine:

  GET  /health         liveness probe
  POST /analyze-tests  classify a batch of test execution records

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	analyzer, err := flaky.New(flaky.DefaultConfig())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.NewServer(serveFlags.addr, analyzer).Run(ctx)
}
