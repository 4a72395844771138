package main

import (
	"os"

	"github.com/spf13/cobra"

	"coursegate/internal/interfaces/cli/migrate"
	"coursegate/internal/interfaces/cli/populate"
	"coursegate/internal/interfaces/cli/reconcile"
	"coursegate/internal/interfaces/cli/server"
	"coursegate/internal/interfaces/cli/worker"
	"coursegate/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "coursegate",
		Short:   "coursegate - subscription reconciliation and content entitlement",
		Long:    `coursegate keeps course subscriptions in step with the payment platforms and serves the catalog redacted to what each viewer has paid for.`,
		Version: version.Get().Version,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		populate.NewCommand(),
		reconcile.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
