package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "orderly",
	Short: "Order management service with a transactional outbox",
	Long: `Order management service whose write path persists aggregate state
and domain events in a single PostgreSQL transaction, and whose outbox
dispatcher drains pending events in ordered batches under row-level
skip locks for at-least-once delivery to Kafka.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
