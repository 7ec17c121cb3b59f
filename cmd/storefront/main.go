// The storefront CLI manages the DL Atelier service: serving HTTP, running
// migrations and seeders, and working the queue.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dlatelier/storefront/app/jobs"

	// Migrations register themselves from init().
	_ "github.com/dlatelier/storefront/database/migrations"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "DL Atelier storefront service CLI",
}

func init() {
	jobs.RegisterAll()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
