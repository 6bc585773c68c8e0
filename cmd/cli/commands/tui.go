package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wsafety/desk/internal/tui"
)

// ApprovalsCmd creates the approvals command
func ApprovalsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approvals",
		Short: "Review pending volunteers in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.takeOverTerminal()()
			screen := tui.NewApprovals(app.Ctx, app.Verification, app.Messages, app.Client.BaseURL())
			if _, err := tea.NewProgram(screen, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("approvals screen failed: %w", err)
			}
			return nil
		},
	}
}

// DashboardCmd creates the dashboard command
func DashboardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Track your assigned dispatches in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.takeOverTerminal()()
			screen := tui.NewDashboard(app.Ctx, app.Dispatch, app.Identity, app.Messages)
			if _, err := tea.NewProgram(screen, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("dashboard screen failed: %w", err)
			}
			return nil
		},
	}
}
