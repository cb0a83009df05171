// Package main provides the entry point for the Look Composer CLI and API
// server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "look_agent",
	Short: "Look Composer outfit assembly engine",
	Long:  "Look Composer sources real products from retailers and assembles them into shoppable outfits from a structured style plan, via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
