package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/cli/formatter"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
)

func newFieldsCmd(app *App) *cobra.Command {
	var (
		q       api.FieldQuery
		project int
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the project fields of a cluster, type and sector",
		Long: `List the dynamic project fields for a cluster, project type and sector.
Without --sector the sectors available for the cluster and type are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.Cluster <= 0 || q.ProjectType <= 0 {
				return fmt.Errorf("--cluster and --type are required")
			}
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if q.Sector <= 0 {
				opts, _, err := app.Catalog.Sectors(ctx, form.NewDependentOptions(), q.Cluster, q.ProjectType)
				if err != nil {
					return err
				}
				fmt.Fprint(w, formatOptions("Sectors", opts))
				return nil
			}

			if project > 0 {
				q.ProjectID = &project
			}
			load := app.Catalog.Fields
			if refresh {
				load = app.Catalog.Refresh
			}
			stop := app.spin(cmd.ErrOrStderr(), "Loading fields...")
			fs, err := load(ctx, q)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(w, formatter.FormatFieldList(fs))
			return nil
		},
	}

	cmd.Flags().IntVar(&q.Cluster, "cluster", 0, "Cluster id")
	cmd.Flags().IntVar(&q.ProjectType, "type", 0, "Project type id")
	cmd.Flags().IntVar(&q.Sector, "sector", 0, "Sector id")
	cmd.Flags().IntVar(&project, "project", 0, "Project the fields are shown for")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the local field cache")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear-cache",
		Short: "Drop every cached field list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Catalog.Invalidate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Field cache cleared."))
			return nil
		},
	})

	return cmd
}

func formatOptions(title string, opts []domain.Option) string {
	if len(opts) == 0 {
		return formatter.RenderBox(title, formatter.Dim("None."))
	}
	rows := make([][]string, 0, len(opts))
	for _, o := range opts {
		rows = append(rows, []string{formatter.StyleGreen.Render(fmt.Sprint(o.ID)), formatter.StyleFg.Render(o.Name)})
	}
	return formatter.RenderBox(title, formatter.RenderTable([]string{"ID", "NAME"}, rows))
}
