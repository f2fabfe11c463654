// Package main provides the regalo command line client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/regalo/internal/logger"
)

var (
	// Global flags
	outputJSON bool
	logLevel   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "regalo-cli",
	Short: "Gift search pipeline from the command line",
	Long: `regalo-cli runs the gift query pipeline outside the HTTP server.

Use this tool to:
- Inspect how a free-text query is parsed into an intent
- Run a full search against the catalog database`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		logger, err = logpkg.NewLogger("local", logLevel)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
