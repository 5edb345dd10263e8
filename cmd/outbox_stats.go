package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var outboxStatsCmd = &cobra.Command{
	Use:   "outbox-stats",
	Short: "Show pending and published outbox counts",
	RunE:  runOutboxStats,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(outboxStatsCmd)
}

func runOutboxStats(cmd *cobra.Command, args []string) error {
	dispatcher, _, cleanup, err := dispatcherFromEnv()
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := dispatcher.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}

	fmt.Printf("pending events:   %d\n", stats.PendingEvents)
	fmt.Printf("published events: %d\n", stats.PublishedEvents)
	if stats.OldestPending != nil {
		fmt.Printf("oldest pending:   %s (age %s)\n",
			stats.OldestPending.Format(time.RFC3339),
			time.Since(*stats.OldestPending).Round(time.Second))
	} else {
		fmt.Println("oldest pending:   none")
	}

	return nil
}
