package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"flabi/internal/adapter/repo"
	"flabi/internal/adapter/sqlrepo"
	"flabi/internal/domain"
	"flabi/internal/identity"
	"flabi/internal/infra"
)

func adminCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(adminAddCommand(v))
	return cmd
}

func adminAddCommand(v *viper.Viper) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an admin or reset its password",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" {
				return errors.New("--email is required")
			}
			hash, err := identity.HashPassword(password)
			if err != nil {
				return err
			}
			admin := &domain.Admin{Email: email, PasswordHash: hash}
			if err := withAdmins(cmd.Context(), v, func(admins domain.AdminRepository) error {
				return admins.Create(cmd.Context(), admin)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s saved (id %s)\n", admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin e-mail address")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	return cmd
}

func withAdmins(ctx context.Context, v *viper.Viper, fn func(domain.AdminRepository) error) error {
	cfg := storeConfig(v)
	if cfg.StoreDriver == infra.StoreDriverSQLite {
		db, err := sqlrepo.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(db.Repositories().Admins)
	}

	if cfg.DatabaseURL == "" {
		return errors.New("database-url is required")
	}
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(repo.NewAdminRepository(infra.NewSQLRunner(pool, cliLogger(v))))
}
