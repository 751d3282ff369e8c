// Package cli wires the actionlist commands: the scriptable subcommands and
// the interactive TUI started when no subcommand is given.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nissyi-gh/actionlist/internal/config"
	"github.com/nissyi-gh/actionlist/internal/logging"
	"github.com/nissyi-gh/actionlist/internal/repo"
	"github.com/nissyi-gh/actionlist/internal/store"
	"github.com/nissyi-gh/actionlist/internal/ui"
	"github.com/spf13/cobra"
)

var errNotSaved = errors.New("changes could not be saved")

// App carries the global flags and the resources opened for one invocation.
type App struct {
	ConfigPath string
	DBPath     string
	LogLevel   string

	now     func() time.Time
	cfg     *config.Config
	logger  *log.Logger
	store   *store.KVStore
	logFile *os.File
}

// NewRootCmd builds the actionlist command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{now: time.Now})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "actionlist",
		Short:        "A personal list of action items",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  actionlist

  # Add a scheduled item
  actionlist add "Pay bills" --project Home --scheduled 2025-06-01

  # Search across text, notes and project
  actionlist list --search bills

  # Back up everything as JSON
  actionlist export --format json --dir ~/backups
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/actionlist/config.toml)")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "Path to the database file")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newCompleteCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	r, err := app.open(cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	return ui.Run(r, ui.Options{
		ExportDir: app.cfg.ExportDir,
		Logger:    app.logger,
	})
}

// open loads the configuration, builds the logger and hydrates the
// repository. The TUI logs to a file in the data dir; commands log to stderr.
func (app *App) open(cmd *cobra.Command, tui bool) (*repo.Repository, error) {
	cfg, err := config.Load(app.ConfigPath, config.Overrides{
		DBPath:   app.DBPath,
		LogLevel: app.LogLevel,
	})
	if err != nil {
		return nil, err
	}
	app.cfg = cfg

	var w io.Writer = cmd.ErrOrStderr()
	if tui {
		w, err = app.openLogFile()
		if err != nil {
			return nil, err
		}
	}
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	opts.ReportTimestamp = tui
	app.logger = logging.New(w, opts)

	st, err := store.Open(cfg.DBPath, app.logger)
	if err != nil {
		app.close()
		return nil, err
	}
	app.store = st

	return repo.New(st, repo.Options{
		Now:          app.now,
		Logger:       app.logger,
		SeedDefaults: cfg.SeedDefaults,
	}), nil
}

func (app *App) openLogFile() (io.Writer, error) {
	dir, err := store.DataDir()
	if err != nil {
		return nil, fmt.Errorf("determine data dir: %w", err)
	}
	f, err := logging.OpenFile(filepath.Join(dir, "actionlist.log"))
	if err != nil {
		return nil, err
	}
	app.logFile = f
	return f, nil
}

func (app *App) close() {
	if app.store != nil {
		if err := app.store.Close(); err != nil && app.logger != nil {
			app.logger.Error("error closing store", "err", err)
		}
		app.store = nil
	}
	if app.logFile != nil {
		app.logFile.Close()
		app.logFile = nil
	}
}

func checkSaved(r *repo.Repository) error {
	if !r.SaveOK() {
		return errNotSaved
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}
