package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pullwatch",
	Short: "Poll GitHub for open pull requests across your repositories",
	Long: `pullwatch polls the GitHub API for open pull requests across a
configured set of repositories and keeps a deduplicated, sorted view of
them, using conditional requests and rate-limit-aware backoff to stay
well inside API quotas.

Get started:
  pullwatch config init   Interactive setup (token, repositories, interval)
  pullwatch doctor        Verify credentials and API reachability
  pullwatch fetch         One-shot fetch, print the list
  pullwatch watch         Live terminal view with periodic refresh`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.pullwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose/debug output")

	rootCmd.Version = Version
	rootCmd.AddCommand(
		watchCmd,
		fetchCmd,
		configCmd,
		doctorCmd,
	)
}

func initLogging() {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}
}
