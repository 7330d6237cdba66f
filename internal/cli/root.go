// Package cli provides the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"
	// Commit is set at build time.
	Commit = "none"
)

var rootCmd = &cobra.Command{
	Use:   "gqlforge",
	Short: "Compile GraphQL introspection schemas to Go declarations",
	Long: `gqlforge turns the JSON produced by the standard GraphQL
introspection query into Go source declarations for the gqlt schema
runtime.

Features:
  - Generate Go declarations from a file, stdin, or a live endpoint
  - Render introspection JSON as GraphQL SDL
  - Merge the schemas of several services into one document
  - Keep a local schema registry with a web UI and an SSH-reachable TUI`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gqlforge version %s (commit: %s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
