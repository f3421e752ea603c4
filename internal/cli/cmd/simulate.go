package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/chromekit/internal/cli/model"
	"github.com/bnema/chromekit/internal/logging"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive the chrome interactively with synthetic scroll events",
	Long: `Simulate opens a TUI with a fake page and feeds the chrome core
synthetic drag, scroll and release events, rendering the resulting
header/footer offsets, viewport insets, reader bar and snackbars.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := logging.WithContext(context.Background(), app.Logger)
		m := model.NewSimulateModel(ctx, app)

		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run simulator: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
