package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fatihsenyuz/Randevu/internal/config"
	"github.com/fatihsenyuz/Randevu/internal/repo"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := repo.OpenSQLite(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", cfg.DBPath, err)
			}
			defer closeDB(db)

			if err := repo.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", cfg.DBPath)
			return nil
		},
	}
}
