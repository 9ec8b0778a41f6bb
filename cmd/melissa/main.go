package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Imported so seeder init() funcs register themselves.
	_ "github.com/themelissanyc/melissa/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "melissa",
	Short: "The Melissa NYC backend",
	Long:  "Backend API for The Melissa NYC rental building: listings, inquiries, gallery, and admin.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(adminCreateCmd)
}
