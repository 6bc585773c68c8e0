package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wsafety/desk/pkg/core/model"
)

// PendingCmd creates the pending command
func PendingCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending --password <admin_password>",
		Short: "Fetch the volunteers awaiting verification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			app.Logger.Debug("pending command")

			if err := app.Verification.Fetch(app.Ctx, password); err != nil {
				return reported(err)
			}

			renderVolunteers(app.Out, app.Verification.Volunteers(), app.Verification.Loaded(), app.Client.BaseURL())
			return nil
		},
	}

	cmd.Flags().StringP("password", "p", "", "Admin password")

	return cmd
}

// ApproveCmd creates the approve command
func ApproveCmd(app *AppContext) *cobra.Command {
	return reviewCmd(app, model.DecisionVerify, "approve <volunteer_id...>", "Approve pending volunteers")
}

// RejectCmd creates the reject command
func RejectCmd(app *AppContext) *cobra.Command {
	return reviewCmd(app, model.DecisionReject, "reject <volunteer_id...>", "Reject pending volunteers")
}

// reviewCmd reviews every id concurrently. With --password the pending list
// is fetched first; without it the credential of the last fetch in this
// session is used.
func reviewCmd(app *AppContext, decision model.Decision, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")

			ids := make([]model.ID, len(args))
			for i, arg := range args {
				ids[i] = model.ID(arg)
			}

			app.Logger.Debug("review command",
				zap.String("decision", string(decision)),
				zap.Int("count", len(ids)))

			if password != "" {
				if err := app.Verification.Fetch(app.Ctx, password); err != nil {
					return reported(err)
				}
			}

			err := app.Verification.ReviewMany(app.Ctx, decision, ids...)
			if app.Verification.Loaded() {
				renderVolunteers(app.Out, app.Verification.Volunteers(), true, app.Client.BaseURL())
			}
			return reported(err)
		},
	}

	cmd.Flags().StringP("password", "p", "", "Admin password (fetches the pending list first)")

	return cmd
}
