package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"progress-tracker-go/internal/config"
	"progress-tracker-go/internal/db"
	"progress-tracker-go/internal/logger"
	"progress-tracker-go/internal/migrations"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context())
		},
	}
}

func migrate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, closeLog, err := setup(false)
	if err != nil {
		return err
	}
	defer closeLog()
	if cfg.StorageDriver != config.DriverPostgres {
		return errors.New("migrate needs STORAGE_DRIVER=postgres")
	}

	database, err := db.Open(ctx, cfg.DatabaseURL, db.Options{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer database.Close()

	applied, err := migrations.Apply(ctx, database, migrations.Files())
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		logger.Info("database is up to date")
	}
	return nil
}
