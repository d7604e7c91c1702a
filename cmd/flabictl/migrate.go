package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"flabi/internal/adapter/sqlrepo"
	"flabi/internal/domain"
	"flabi/internal/infra"
	"flabi/internal/sqlinline"
)

func migrateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables and seed the status row",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := storeConfig(v)
			logger := cliLogger(v)
			if cfg.StoreDriver == infra.StoreDriverSQLite {
				db, err := sqlrepo.Open(cfg.SQLitePath)
				if err != nil {
					return err
				}
				logger.Info().Str("path", cfg.SQLitePath).Msg("sqlite schema ready")
				return db.Close()
			}
			if err := migratePostgres(cmd.Context(), cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info().Msg("postgres schema ready")
			return nil
		},
	}
}

func migratePostgres(ctx context.Context, databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database-url is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqlinline.Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqlinline.QSeedStatus, domain.StatusID, domain.DefaultLatitude, domain.DefaultLongitude); err != nil {
		return fmt.Errorf("seed status: %w", err)
	}
	return nil
}
