package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/nissyi-gh/actionlist/internal/model"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var (
		filter model.Filter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List action items grouped by bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer app.close()

			v := r.View(filter)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderView(v, r.Today()))
			if saved, err := app.store.LastSaved(); err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "\n"+dimStyle.Render("Last saved "+humanize.Time(saved)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Search, "search", "", "Case-insensitive search over text, notes and project")
	cmd.Flags().StringVar(&filter.Project, "project", "", "Only items of this project (exact match)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the buckets as JSON")
	return cmd
}

func newProjectsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List known project names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer app.close()

			for _, p := range r.Projects() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
