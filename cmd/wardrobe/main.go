package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register migrations and seeders through their init() funcs.
	_ "github.com/shashiranjanraj/wardrobe/database/migrations"
	_ "github.com/shashiranjanraj/wardrobe/database/seeders"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "wardrobe",
	Short:         "Clothing inventory service",
	Long:          "wardrobe serves the clothing inventory API and manages its database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(userCreateCmd)
}
