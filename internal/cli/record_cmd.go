package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/cli/formatter"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/workflow"
)

func newRecordCmd(app *App, spec kindSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
	}

	cmd.AddCommand(
		newRecordViewCmd(app, spec),
		newRecordEditCmd(app, spec, true),
		newRecordEditCmd(app, spec, false),
	)
	for _, action := range workflow.Actions(spec.kind) {
		if action == domain.ActionSave {
			continue
		}
		cmd.AddCommand(newRecordActionCmd(app, spec, action))
	}
	cmd.AddCommand(newRecordDeleteCmd(app, spec))
	if spec.kind == domain.KindProject {
		cmd.AddCommand(
			newProjectAssociateCmd(app),
			newProjectDisassociateCmd(app),
			newProjectRemoveAssociationCmd(app),
			newProjectUploadCmd(app),
		)
	}

	return cmd
}

func newRecordViewCmd(app *App, spec kindSpec) *cobra.Command {
	var draftID string

	cmd := &cobra.Command{
		Use:   "view [id]",
		Short: fmt.Sprintf("Show a %s section by section", spec.noun()),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := targetFrom(args, draftID, true)
			if err != nil {
				return err
			}
			if app.interactive() {
				return runRecordView(cmd, app, spec, t)
			}
			e, err := app.openEditor(cmd.Context(), spec.kind, t)
			if err != nil {
				return err
			}
			if err := e.loadSubstances(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecord(e.sess, e.sections()))
			return nil
		},
	}

	cmd.Flags().StringVar(&draftID, "draft", "", "Show a locally saved draft")

	return cmd
}

// newRecordEditCmd builds "create" and "edit". Both save with the values
// given by --set and --from, or with a form on a terminal when neither is
// given.
func newRecordEditCmd(app *App, spec kindSpec, create bool) *cobra.Command {
	var (
		draftID   string
		from      string
		sets      []form.Assignment
		continues int
	)

	use, short, args := "edit [id]", fmt.Sprintf("Edit and save a %s", spec.noun()), cobra.MaximumNArgs(1)
	if create {
		use, short, args = "create", fmt.Sprintf("Create a %s", spec.noun()), cobra.NoArgs
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := targetFrom(args, draftID, !create)
			if err != nil {
				return err
			}
			edits, err := withRecordFile(from, spec.kind, sets)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			stop := app.spin(cmd.ErrOrStderr(), "Loading...")
			e, err := app.openEditor(ctx, spec.kind, t)
			stop()
			if err != nil {
				return err
			}
			if !workflow.Permitted(spec.kind, domain.ActionSave, e.perms) {
				return fmt.Errorf("editing %s records: %w", spec.noun(), errNoAccess)
			}
			if continues > 0 {
				e.continues = &continues
			}

			if err := e.apply(ctx, edits); err != nil {
				return err
			}
			if len(edits) == 0 && app.interactive() {
				if err := e.interact(ctx); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return e.abandon(ctx, w)
					}
					return err
				}
			}
			return e.run(ctx, w, domain.ActionSave)
		},
	}

	cmd.Flags().StringVar(&draftID, "draft", "", "Resume a locally saved draft")
	addSetFlag(cmd.Flags(), &sets)
	addFromFlag(cmd.Flags(), &from)
	if create && spec.kind == domain.KindProject {
		cmd.Flags().IntVar(&continues, "continues", 0, "Id of the earlier project this tranche follows on from")
	}

	return cmd
}

func newRecordActionCmd(app *App, spec kindSpec, action domain.Action) *cobra.Command {
	var (
		draftID string
		from    string
		sets    []form.Assignment
	)

	short := fmt.Sprintf("%s a %s", action.Label(), spec.noun())
	if workflow.NeedsPreSave(action) {
		short += " (unsaved edits are saved first)"
	}

	cmd := &cobra.Command{
		Use:   strings.ReplaceAll(string(action), "_", "-") + " [id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := targetFrom(args, draftID, true)
			if err != nil {
				return err
			}
			edits, err := withRecordFile(from, spec.kind, sets)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			e, err := app.openEditor(ctx, spec.kind, t)
			if err != nil {
				return err
			}
			if err := e.apply(ctx, edits); err != nil {
				return err
			}
			return e.run(ctx, cmd.OutOrStdout(), action)
		},
	}

	cmd.Flags().StringVar(&draftID, "draft", "", "Act on a locally saved draft")
	if workflow.NeedsPreSave(action) {
		addSetFlag(cmd.Flags(), &sets)
		addFromFlag(cmd.Flags(), &from)
	}

	return cmd
}

func newRecordDeleteCmd(app *App, spec kindSpec) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", spec.noun()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return cancelledIsOK(cmd, app.submission(cmd.OutOrStdout()).Delete(cmd.Context(), spec.kind, id))
		},
	}
}

func newProjectAssociateCmd(app *App) *cobra.Command {
	var lead int

	cmd := &cobra.Command{
		Use:   "associate <id> <id>...",
		Short: "Group projects into one meta-project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			var leadID *int
			if lead > 0 {
				leadID = &lead
			}
			return app.submission(cmd.OutOrStdout()).Associate(cmd.Context(), ids, leadID)
		},
	}

	cmd.Flags().IntVar(&lead, "lead", 0, "Lead agency id of the meta-project")

	return cmd
}

func newProjectDisassociateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "disassociate <id>",
		Short: "Detach a project from its meta-project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return cancelledIsOK(cmd, app.submission(cmd.OutOrStdout()).Disassociate(cmd.Context(), id))
		},
	}
}

func newProjectRemoveAssociationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-association <id>",
		Short: "Dissolve the meta-project a project belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return cancelledIsOK(cmd, app.submission(cmd.OutOrStdout()).RemoveAssociation(cmd.Context(), id))
		},
	}
}

func newProjectUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <id> <file>...",
		Short: "Attach files to a saved project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			e, err := app.openEditor(ctx, domain.KindProject, target{id: &id})
			if err != nil {
				return err
			}

			files := make([]api.File, 0, len(args)-1)
			for _, path := range args[1:] {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				defer f.Close()
				files = append(files, api.File{Name: filepath.Base(path), Reader: f})
			}

			w := cmd.OutOrStdout()
			if err := app.submission(w).UploadFiles(ctx, e.sess, files); err != nil {
				if msg := formatter.FormatSessionErrors(e.sess, e.sections()); msg != "" {
					fmt.Fprint(w, msg)
				}
				return err
			}
			return nil
		},
	}
}
