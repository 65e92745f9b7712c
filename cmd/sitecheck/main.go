// Package main is the entry point for the sitecheck CLI.
//
// sitecheck can be used either as a library (SDK) or as a standalone binary
// configured by flags and an optional YAML file. This CLI provides the
// standalone binary approach.
//
// Usage:
//
//	sitecheck check https://example.com https://go.dev  # One round
//	sitecheck check -f urls.txt -p 30s                   # Every 30s until Enter
//	sitecheck validate -c sitecheck.yaml                 # Validate configuration
//	sitecheck version                                    # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "sitecheck",
	Short: "Check the availability of many websites concurrently",
	Long: `sitecheck probes a list of URLs with a pool of workers and reports,
per URL, the HTTP status or the error, plus a summary with the uptime
percentage and the average response time of healthy sites.

Quick start:
  sitecheck check https://example.com https://go.dev
  sitecheck check -f urls.txt --period 30s   # press Enter to stop

Example config (sitecheck check -c sitecheck.yaml):
  workers: 20
  timeout: 5s
  retries: 1
  period: 30s
  targets:
    - https://example.com
  target_file: urls.txt`,
	SilenceUsage: true,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this sitecheck binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sitecheck %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
