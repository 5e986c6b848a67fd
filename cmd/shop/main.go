package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var apiURL string

var rootCmd = &cobra.Command{
	Use:   "shop",
	Short: "Storefront and admin client for the item collection API",
	Long: `Terminal front end for the item collection API.

Available subcommands:
  list   - Print the catalog, optionally filtered
  browse - Interactive shopping session with a cart
  admin  - Interactive admin session (create/update/delete items)`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api",
		getEnv("SHOP_API_URL", "http://localhost:3000"),
		"base URL of the items API")
	rootCmd.AddCommand(listCmd, browseCmd, adminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
