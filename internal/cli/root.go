package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mlfs/internal/service"
)

// App holds the services the commands run against.
type App struct {
	Records  service.RecordAPI
	Catalog  *service.FieldCatalog
	Profile  *service.SessionProfileService
	Drafts   *service.DraftService
	Observer service.UseCaseObserver

	// IsInteractive reports whether stdin is a terminal. Forms, spinners
	// and the tabbed record view are used only when it is.
	IsInteractive func() bool
	// Theme is "auto", "dark" or "light".
	Theme string
	Now   func() time.Time

	assumeYes bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "mlfs" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "mlfs",
		Short:         "Project and enterprise submission workbench",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&app.assumeYes, "yes", "y", false, "Answer yes to every confirmation")

	root.AddCommand(
		newWhoamiCmd(app),
		newFieldsCmd(app),
		newRecordCmd(app, projectKind),
		newRecordCmd(app, enterpriseKind),
		newRecordCmd(app, linkKind),
		newDraftCmd(app),
	)

	return root
}
