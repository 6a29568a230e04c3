package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/0x6d61/websentry/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored scan sessions",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := session.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	summaries, err := store.Sessions(context.Background())
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No stored sessions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSCANS\tCHAT TURNS\tUPDATED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			s.SessionID, s.ScanCount, s.ChatTurns, s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
