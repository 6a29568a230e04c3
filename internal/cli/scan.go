package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/0x6d61/websentry/internal/report"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a one-shot security scan of a URL",
	Long: `Scan applies the URL heuristics, computes the risk score, and asks the
configured AI provider for an assessment. With no --db flag the scan runs
in an ephemeral in-memory session.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("url", "u", "", "URL to scan")
	scanCmd.Flags().String("session", "", "Session id to scan under (default: a fresh id)")
	scanCmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

func runScan(cmd *cobra.Command, args []string) error {
	targetURL, _ := cmd.Flags().GetString("url")
	if targetURL == "" {
		return fmt.Errorf("target URL is required (use --url or -u)")
	}

	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	format, _ := cmd.Flags().GetString("format")
	reporter, err := report.New(format)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetInt("verbose")
	logger := newLogger(verbose)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// One-shot scans default to an ephemeral store unless --db was given.
	if db, _ := cmd.Flags().GetString("db"); db == "" {
		cfg.DatabasePath = ":memory:"
	}

	orch, store, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rec, err := orch.Scan(ctx, sessionID, targetURL)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return reporter.Generate(ctx, rec, out)
}
