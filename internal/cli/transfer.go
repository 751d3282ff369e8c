package cli

import (
	"fmt"

	"github.com/nissyi-gh/actionlist/internal/transfer"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		format    string
		dir       string
		clipboard bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all action items to a file or the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			r, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer app.close()

			items := r.Items()
			if clipboard {
				if err := transfer.CopyToClipboard(f, items); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Copied %d items as %s\n", len(items), f)
				return nil
			}

			if dir == "" {
				dir = app.cfg.ExportDir
			}
			path, err := transfer.Export(dir, f, items, r.Today())
			if err != nil {
				return err
			}
			app.logger.Info("exported items", "path", path, "count", len(items))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(transfer.FormatCSV), "Export format (csv|json|yaml)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write to (default: export_dir from config)")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "Copy to the clipboard instead of writing a file")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all action items with the contents of a .csv, .json or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.open(cmd, false)
			if err != nil {
				return err
			}
			defer app.close()

			n, err := transfer.Import(r, args[0], r.Today())
			if err != nil {
				return err
			}
			if err := checkSaved(r); err != nil {
				return err
			}
			app.logger.Info("imported items", "path", args[0], "count", n)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items\n", n)
			return nil
		},
	}
}
