package root

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeboard/internal/config"
	"github.com/sandeepkv93/lifeboard/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.AddCommand(
		migrateStep("up", "Apply all migrations", storage.MigrateUp),
		migrateStep("down", "Roll back all migrations", storage.MigrateDown),
	)
	return cmd
}

func migrateStep(use, short string, run func(*sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			db, err := sql.Open("sqlite3", cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := run(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: %s\n", use, cfg.DBPath)
			return nil
		},
	}
}
