package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sectionview/internal/db"
)

type initOutput struct {
	Database string `json:"database"`
	Status   string `json:"status"`
}

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the network schema in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := app.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.Migrate(database); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}
			out := initOutput{Database: app.dsn, Status: "ok"}
			return app.emit(cmd, out, func() string {
				return fmt.Sprintf("schema ready in %s\n", app.dsn)
			})
		},
	}
}
