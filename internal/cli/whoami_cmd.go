package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mlfs/internal/cli/formatter"
)

func newWhoamiCmd(app *App) *cobra.Command {
	var refresh, forget bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and what they may do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if forget {
				if err := app.Profile.Forget(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cached permissions cleared."))
				return nil
			}
			stop := app.spin(cmd.ErrOrStderr(), "Fetching permissions...")
			perms, err := app.Profile.Permissions(ctx, refresh)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPermissions(perms))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch permissions from the server instead of the local cache")
	cmd.Flags().BoolVar(&forget, "forget", false, "Clear the cached permissions for this server")

	return cmd
}
