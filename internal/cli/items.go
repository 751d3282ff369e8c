package cli

import (
	"fmt"
	"strings"

	"github.com/nissyi-gh/actionlist/internal/repo"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var in repo.NewItem

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add an action item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer app.close()

			in.Text = strings.Join(args, " ")
			it, err := r.Add(in)
			if err != nil {
				return err
			}
			if err := checkSaved(r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", it.ID, it.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&in.ScheduledFor, "scheduled", "s", "", "Scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&in.Notes, "notes", "n", "", "Notes (markdown)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one action item with its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer app.close()

			it, ok := r.Get(id)
			if !ok {
				return fmt.Errorf("item #%d: %w", id, repo.ErrNotFound)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderDetail(it, r.Today()))
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var e repo.Edit

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an action item",
		Long:  "Edit an action item. Only the given flags change; pass --scheduled \"\" to unschedule.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer app.close()

			cur, ok := r.Get(id)
			if !ok {
				return fmt.Errorf("edit #%d: %w", id, repo.ErrNotFound)
			}
			flags := cmd.Flags()
			next := repo.Edit{
				Text:         cur.Text,
				Project:      cur.Project,
				ScheduledFor: derefOr(cur.ScheduledFor, ""),
				Notes:        cur.Notes,
			}
			if flags.Changed("text") {
				next.Text = e.Text
			}
			if flags.Changed("project") {
				next.Project = e.Project
			}
			if flags.Changed("scheduled") {
				next.ScheduledFor = e.ScheduledFor
			}
			if flags.Changed("notes") {
				next.Notes = e.Notes
			}

			if err := r.Edit(id, next); err != nil {
				return err
			}
			if err := checkSaved(r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&e.Text, "text", "t", "", "New text")
	cmd.Flags().StringVarP(&e.Project, "project", "p", "", "New project")
	cmd.Flags().StringVarP(&e.ScheduledFor, "scheduled", "s", "", "New scheduled date (YYYY-MM-DD, empty to unschedule)")
	cmd.Flags().StringVarP(&e.Notes, "notes", "n", "", "New notes")
	return cmd
}

func newCompleteCmd(app *App) *cobra.Command {
	return newIDCmd(app, "complete <id>", "Mark an action item completed", "Completed", (*repo.Repository).Complete)
}

func newRestoreCmd(app *App) *cobra.Command {
	return newIDCmd(app, "restore <id>", "Move a completed item back to the open list", "Restored", (*repo.Repository).Restore)
}

func newDeleteCmd(app *App) *cobra.Command {
	return newIDCmd(app, "delete <id>", "Delete an action item", "Deleted", (*repo.Repository).Delete)
}

// newIDCmd builds a command that applies one id-based mutation.
func newIDCmd(app *App, use, short, verb string, apply func(*repo.Repository, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer app.close()

			if err := apply(r, id); err != nil {
				return err
			}
			if err := checkSaved(r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d\n", verb, id)
			return nil
		},
	}
}

func derefOr(p *string, d string) string {
	if p == nil {
		return d
	}
	return *p
}
