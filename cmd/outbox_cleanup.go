package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var outboxCleanupCmd = &cobra.Command{
	Use:   "outbox-cleanup",
	Short: "Delete published outbox rows past the retention window",
	Long: `Compacts the outbox by deleting rows already stamped published_at
and older than the retention window. Pending rows are never touched.`,
	RunE: runOutboxCleanup,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(outboxCleanupCmd)
	outboxCleanupCmd.Flags().Int("older-than-days", 7, "Retention window in days")
}

func runOutboxCleanup(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("older-than-days")
	if days < 0 {
		return fmt.Errorf("--older-than-days must not be negative")
	}

	dispatcher, _, cleanup, err := dispatcherFromEnv()
	if err != nil {
		return err
	}
	defer cleanup()

	deleted, err := dispatcher.CleanupPublished(context.Background(), days)
	if err != nil {
		return fmt.Errorf("cleanup outbox: %w", err)
	}

	fmt.Printf("deleted %d published rows older than %d days\n", deleted, days)
	return nil
}
