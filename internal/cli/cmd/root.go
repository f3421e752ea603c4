// Package cmd provides the Cobra commands of the chromekit CLI.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/chromekit/internal/cli"
	"github.com/bnema/chromekit/internal/logging"
)

var (
	app     *cli.App
	rootCmd = &cobra.Command{
		Use:   "chromekit",
		Short: "Browser chrome coordination core",
		Long: `Chromekit is the headless coordination core of a browser's chrome:
scroll-driven toolbar visibility with inset feedback correction, a
stacked snackbar layer above the bottom toolbar, and a reading-mode
navigation state machine with a persisted extraction cache.

Use 'chromekit simulate' for an interactive TUI driving the chrome
with synthetic events, or the cache/style/extract subcommands for
CLI-based operations.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			ctx := logging.WithContext(context.Background(), logging.NewFromEnv())
			var err error
			app, err = cli.NewApp(ctx)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
