// Package cli provides the command-line interface for feedmerge.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var (
	configDir    string
	outputFormat string
	noColor      bool
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "feedmerge",
	Short: "Merge news sources into one chronological feed",
	Long: "feedmerge fetches Reddit, Mashable, Digg, Hacker News and any RSS, Atom or JSON feeds, " +
		"normalizes their items into one shape, and shows them merged by time or one source at a time.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "feedmerge %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".feedmerge", "directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "output format: terminal, json, markdown")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
