package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wsafety/desk/pkg/core/failure"
	"github.com/wsafety/desk/pkg/core/model"
)

// DispatchesCmd creates the dispatches command
func DispatchesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatches",
		Short: "List the complaints assigned to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("dispatches command")

			if err := app.Dispatch.Load(app.Ctx); err != nil {
				return reported(err)
			}

			renderDispatches(app.Out, app.Dispatch.Dispatches(), app.Identity.Role())
			return nil
		},
	}
}

// StartCmd creates the start command
func StartCmd(app *AppContext) *cobra.Command {
	return transitionCmd(app, model.DispatchInProgress, "start <dispatch_id>", "Mark a dispatch as in progress")
}

// ResolveCmd creates the resolve command
func ResolveCmd(app *AppContext) *cobra.Command {
	return transitionCmd(app, model.DispatchResolved, "resolve <dispatch_id>", "Mark a dispatch as resolved")
}

func transitionCmd(app *AppContext, target model.DispatchStatus, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(args[0])
			app.Logger.Debug("transition command",
				zap.String("dispatch_id", id.String()),
				zap.String("target", string(target)))

			// the guard needs the current status
			if !app.Dispatch.Loaded() {
				if err := app.Dispatch.Load(app.Ctx); err != nil {
					return reported(err)
				}
			}

			err := app.Dispatch.Transition(app.Ctx, id, target)
			if failure.HasKind(err, failure.KindBlocked) {
				return fmt.Errorf("cannot update dispatch %s: %w", id, err)
			}
			if err != nil {
				return reported(err)
			}

			if d, ok := app.Dispatch.Get(id); ok {
				renderDispatches(app.Out, []model.Dispatch{d}, "")
			}
			return nil
		},
	}
}
