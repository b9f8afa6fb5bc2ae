// Package main provides the entry point for the treepatch CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treepatch/cmd/treepatch/commands"
	"github.com/Sumatoshi-tech/treepatch/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "treepatch",
		Short: "Treepatch - format-preserving source rewriting",
		Long: `Treepatch turns an old/new syntax tree pair into the minimal text
edits that carry the old file to the new one, keeping the original
formatting of everything that did not change.

Commands:
  patch     Rewrite OLD into NEW with minimal text edits
  fmt       Reprint a file from its parsed tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands.
	rootCmd.AddCommand(commands.NewPatchCommand())
	rootCmd.AddCommand(commands.NewFmtCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "treepatch %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
