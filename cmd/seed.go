package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/repository/postgres"
	"github.com/dtroode/authsys-server/internal/seed"
)

func newSeedCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Apply an RBAC policy file and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = a.cfg.RBAC.SeedFile
			}
			if file == "" {
				return errors.New("no policy file: pass --file or set RBAC_SEED_FILE")
			}

			db, err := postgres.NewConnection(cmd.Context(), a.cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer db.Close()

			return applySeed(cmd.Context(), file, postgres.NewRBACRepository(db.SQL()), postgres.NewUserRepository(db), a.logger)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the YAML policy")

	return cmd
}

func applySeed(ctx context.Context, path string, rbac model.RBACStore, users model.UserStore, logger *logger.Logger) error {
	policy, err := seed.Load(path)
	if err != nil {
		return err
	}

	summary, err := seed.NewSeeder(rbac, users, logger).Apply(ctx, policy)
	if err != nil {
		return fmt.Errorf("failed to apply policy %s: %w", path, err)
	}

	logger.Info("RBAC policy applied",
		"file", path,
		"roles", summary.Roles,
		"permissions", summary.Permissions,
		"role_permissions", summary.RolePermissions,
		"user_roles", summary.UserRoles,
		"skipped_users", summary.SkippedUsers)
	return nil
}
