package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/0x6d61/websentry/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP scan/chat service",
	Long: `Serve runs the websentry HTTP service: the scan UI on /, and the
session, scan, chat, and history operations under /api/.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetInt("verbose")
	logger := newLogger(verbose + 1) // serve always logs at info or finer

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Listen = listen
	}

	orch, store, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	srv := server.New(orch, cfg.Listen, logger)
	return srv.Run(ctx)
}
