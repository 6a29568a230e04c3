package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/0x6d61/websentry/internal/augment"
	"github.com/0x6d61/websentry/internal/config"
	"github.com/0x6d61/websentry/internal/detector"
	"github.com/0x6d61/websentry/internal/engine"
	"github.com/0x6d61/websentry/internal/llm"
	"github.com/0x6d61/websentry/internal/session"
)

// newLogger builds the console logger at the verbosity implied by -v.
func newLogger(verbose int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbose >= 2:
		level = zerolog.DebugLevel
	case verbose >= 1:
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the config file named by --config and applies CLI
// overrides shared by all commands.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DatabasePath = db
	}
	return cfg, nil
}

// buildOrchestrator wires detector, provider, augmenter, and store into an
// orchestrator. The caller owns the returned store and must close it.
func buildOrchestrator(cfg *config.Config, logger zerolog.Logger) (*engine.Orchestrator, *session.SQLiteStore, error) {
	provider, err := llm.NewProvider(cfg.Provider.Kind, llm.ProviderOptions{
		AccountID: cfg.Provider.AccountID,
		APIToken:  cfg.Provider.APIToken,
		Model:     cfg.Provider.Model,
		BaseURL:   cfg.Provider.BaseURL,
		MaxRPS:    cfg.Provider.MaxRPS,
	})
	if err != nil {
		return nil, nil, err
	}

	store, err := session.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}

	aug := augment.New(provider, cfg.Provider.Model, logger)
	orch := engine.NewOrchestrator(detector.Detect, aug, store, logger)
	return orch, store, nil
}
