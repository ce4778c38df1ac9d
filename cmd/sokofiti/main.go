package main

import (
	"os"

	"github.com/spf13/cobra"

	"sokofiti/internal/interfaces/cli/migrate"
	"sokofiti/internal/interfaces/cli/seed"
	"sokofiti/internal/interfaces/cli/server"
)

//	@title			Sokofiti Billing API
//	@version		1.0
//	@description	Subscription, credit, and M-Pesa payment API for the Sokofiti marketplace.
//	@BasePath		/api/v1

func main() {
	rootCmd := &cobra.Command{
		Use:   "sokofiti",
		Short: "Sokofiti billing and payments service",
		Long:  `Sokofiti runs the marketplace subscription, credit ledger, and M-Pesa payment backend.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
