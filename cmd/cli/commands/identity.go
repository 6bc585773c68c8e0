package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// WhoamiCmd creates the whoami command
func WhoamiCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the role in the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, ok := app.Identity.Claims()
			if !ok {
				fmt.Fprintln(app.Out, "Not signed in")
				return nil
			}

			role := claims.Role()
			if role == "" {
				role = "(none)"
			}
			fmt.Fprintf(app.Out, "Role:    %s\n", role)
			if claims.Subject != "" {
				fmt.Fprintf(app.Out, "Subject: %s\n", claims.Subject)
			}
			fmt.Fprintf(app.Out, "%sRead from %s without verification%s\n", colorDim, app.Tokens.Path(), colorReset)
			return nil
		},
	}
}

// SetTokenCmd creates the setToken command
func SetTokenCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setToken [token]",
		Short: "Store the volunteer token issued at sign-in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clearToken, _ := cmd.Flags().GetBool("clear")
			if !clearToken && len(args) == 0 {
				return fmt.Errorf("a token is required unless --clear is given")
			}

			var token string
			if !clearToken {
				token = args[0]
			}

			if err := app.Tokens.Save(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			app.Logger.Info("Stored token updated", zap.Bool("cleared", clearToken), zap.String("path", app.Tokens.Path()))

			if clearToken {
				fmt.Fprintln(app.Out, "✓ Token cleared")
				return nil
			}
			fmt.Fprintln(app.Out, "✓ Token saved")
			if role := app.Identity.Role(); role != "" {
				fmt.Fprintf(app.Out, "Role: %s\n", role)
			}
			return nil
		},
	}

	cmd.Flags().Bool("clear", false, "Remove the stored token")

	return cmd
}
