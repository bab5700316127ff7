package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"progress-tracker-go/internal/config"
	"progress-tracker-go/internal/db"
	httpapi "progress-tracker-go/internal/http"
	"progress-tracker-go/internal/logger"
	"progress-tracker-go/internal/migrations"
	"progress-tracker-go/internal/services"
	"progress-tracker-go/internal/store"
	"progress-tracker-go/internal/store/memory"
	"progress-tracker-go/internal/store/postgres"
)

var serveOpts struct {
	skipMigrations bool
	quiet          bool
}

func addServeFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&serveOpts.skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	flags.BoolVar(&serveOpts.quiet, "quiet", false, "log to the rotating file only")
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	addServeFlags(cmd.Flags())
	return cmd
}

// setup loads configuration and starts logging. The returned func closes
// the log file.
func setup(quiet bool) (config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, func() {}, fmt.Errorf("config: %w", err)
	}
	closeLog, err := logger.Init(logger.Config{
		Dir:           cfg.LogDir,
		Level:         cfg.LogLevel,
		RetentionDays: cfg.LogRetentionDays,
		Quiet:         quiet,
	})
	if err != nil {
		return cfg, func() {}, fmt.Errorf("logger: %w", err)
	}
	return cfg, func() { _ = closeLog() }, nil
}

// openStore returns the configured store and a func releasing it.
func openStore(ctx context.Context, cfg config.Config, migrate bool) (store.Store, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Warn("using in-memory storage; data is lost on exit")
		return memory.New(), func() {}, nil
	}
	database, err := db.Open(ctx, cfg.DatabaseURL, db.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("db: %w", err)
	}
	if migrate {
		if _, err := migrations.Apply(ctx, database, migrations.Files()); err != nil {
			_ = database.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
	}
	return postgres.New(database), func() { _ = database.Close() }, nil
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, closeLog, err := setup(serveOpts.quiet)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, !serveOpts.skipMigrations)
	if err != nil {
		return err
	}
	defer closeStore()

	profiles, err := config.LoadProfiles(cfg.TrackingProfilesFile)
	if err != nil {
		return err
	}

	hub := services.NewEntryHub()
	go hub.Run(ctx)

	server := httpapi.NewServer(cfg, st, profiles, hub)
	if err := server.Images.EnsureDir(); err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}
	if !server.Tokens.Enabled() {
		logger.Warn("JWT_SECRET is empty; user creation is not protected")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr, "driver", cfg.StorageDriver, "timezone", cfg.Timezone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
