// Package main implements the shopchat CLI: corpus ingestion and a
// terminal chat client.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is the optional YAML config file.
	configPath string
	// version information (set via ldflags during build)
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shopchat",
	Short: "Chat with a product review corpus",
	Long: `shopchat answers product questions from customer reviews.

It ingests a review CSV into a vector index and answers questions
through a retrieval-augmented agent, either in the terminal (chat)
or behind the shopchatd web server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(chatCmd)
}
