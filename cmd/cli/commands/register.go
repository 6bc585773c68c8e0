package commands

import (
	"io"

	"github.com/spf13/cobra"
)

// Register adds every command to root. in is read by the interactive session.
func Register(root *cobra.Command, app *AppContext, in io.Reader) {
	root.AddCommand(PendingCmd(app))
	root.AddCommand(ApproveCmd(app))
	root.AddCommand(RejectCmd(app))
	root.AddCommand(DispatchesCmd(app))
	root.AddCommand(StartCmd(app))
	root.AddCommand(ResolveCmd(app))
	root.AddCommand(WhoamiCmd(app))
	root.AddCommand(SetTokenCmd(app))
	root.AddCommand(ApprovalsCmd(app))
	root.AddCommand(DashboardCmd(app))
	root.AddCommand(InteractiveCmd(app, in))
}
