package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kirinyoku/dinego/internal/app"
	"github.com/kirinyoku/dinego/internal/config"
	"github.com/kirinyoku/dinego/internal/postgres"
)

func newServeCmd(logger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()

			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			application, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}

			if err := application.Run(cmd.Context()); err != nil {
				return fmt.Errorf("application finished with error: %w", err)
			}
			return nil
		},
	}
}

func newMigrateCmd(logger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			pool, err := postgres.New(cmd.Context(), postgres.Config{DSN: cfg.Postgres.DSN()})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool); err != nil {
				return err
			}

			logger().Info("schema is up to date", slog.String("database", cfg.Postgres.Name))
			return nil
		},
	}
}
