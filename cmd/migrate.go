package main

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/authsys-server/database"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Migrate(cmd.Context(), a.cfg.Database.DSN); err != nil {
				return err
			}
			a.logger.Info("migrations applied")
			return nil
		},
	}
}
