package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mlfs/internal/cli/formatter"
)

func newDraftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "draft",
		Aliases: []string{"drafts"},
		Short:   "Manage locally saved drafts",
	}

	cmd.AddCommand(newDraftListCmd(app), newDraftDiscardCmd(app))

	return cmd
}

func newDraftListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List drafts, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := app.Drafts.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDraftList(drafts, app.now()))
			return nil
		},
	}
}

func newDraftDiscardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "discard <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a draft",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := app.Drafts.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("draft %s: %w", args[0], err)
			}
			ok, err := app.confirmer().Confirm(ctx, "Discard this draft?",
				fmt.Sprintf("%s %s has %d unsaved change(s).", formatter.KindLabel(d.Kind), formatter.RecordID(d.RecordID), len(d.Touched)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
				return nil
			}
			if err := app.Drafts.Discard(ctx, d.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ ")+"Draft discarded.")
			return nil
		},
	}
}
