package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"sectionview/internal/db"
	"sectionview/internal/editor"
	"sectionview/internal/netz"
)

// App holds the dependencies the commands share. Zero fields fall back to
// the real database and terminal detection.
type App struct {
	OpenDB     func(dsn string) (*sql.DB, error)
	IsTerminal func(w io.Writer) bool

	dsn    string
	format string
}

// NewRootCmd creates the top-level "sectionctl" command.
func NewRootCmd(app *App) *cobra.Command {
	if app.OpenDB == nil {
		app.OpenDB = db.Open
	}
	if app.IsTerminal == nil {
		app.IsTerminal = isTerminal
	}

	root := &cobra.Command{
		Use:           "sectionctl",
		Short:         "Inspect how trainrun sections are presented left to right",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.dsn, "db", defaultDSN(), "Network database (postgres:// DSN or SQLite file)")
	root.PersistentFlags().StringVar(&app.format, "format", "auto", "Output format: auto, text or json")

	root.AddCommand(
		newShowCmd(app),
		newLocksCmd(app),
		newSelectCmd(app),
		newDistributeCmd(app),
		newInitCmd(app),
	)
	return root
}

func defaultDSN() string {
	for _, k := range []string{"DATABASE_URL", "PG_DSN", "SQLITE_DATABASE"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *App) openDB() (*sql.DB, error) {
	if a.dsn == "" {
		return nil, errors.New("no database: pass --db or set DATABASE_URL / SQLITE_DATABASE")
	}
	database, err := a.OpenDB(a.dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// present loads the network once and answers req.
func (a *App) present(ctx context.Context, req editor.Request) (*editor.Presentation, error) {
	database, err := a.openDB()
	if err != nil {
		return nil, err
	}
	defer database.Close()

	mgr := editor.NewManager(func(ctx context.Context) (*netz.Network, error) {
		return db.FetchNetwork(ctx, database)
	}, nil, 0, nil)
	if err := mgr.Reload(ctx); err != nil {
		return nil, fmt.Errorf("loading network: %w", err)
	}
	return mgr.Present(ctx, req)
}

func (a *App) jsonOutput(w io.Writer) (bool, error) {
	switch a.format {
	case "json":
		return true, nil
	case "text":
		return false, nil
	case "", "auto":
		return !a.IsTerminal(w), nil
	}
	return false, fmt.Errorf("unknown format %q", a.format)
}

// emit writes v as JSON or text depending on the output mode.
func (a *App) emit(cmd *cobra.Command, v any, text func() string) error {
	w := cmd.OutOrStdout()
	asJSON, err := a.jsonOutput(w)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err = fmt.Fprint(w, text())
	return err
}

func parseSectionID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid section id %q", s)
	}
	return id, nil
}

func parseOrder(ids []string) ([]int, error) {
	var out []int
	for _, raw := range ids {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid node id %q in --order", part)
			}
			out = append(out, id)
		}
	}
	return out, nil
}
