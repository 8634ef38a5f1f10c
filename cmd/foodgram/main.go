// Package main provides the foodgram command: the API server plus schema,
// seed and token maintenance commands.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "foodgram",
		Short: "Foodgram recipe sharing API",
		Long: `foodgram serves the recipe sharing JSON API and provides maintenance
commands for the database schema, demo data and access tokens.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newMigrateCmd(&configPath))
	rootCmd.AddCommand(newSeedCmd(&configPath))
	rootCmd.AddCommand(newTokenCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, so we just need to exit.
		os.Exit(1)
	}
}
