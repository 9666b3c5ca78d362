package main

import (
	"os"

	"github.com/nimasrn/seller-crm/internal/config"
	"github.com/nimasrn/seller-crm/pkg/logger"
	"github.com/nimasrn/seller-crm/pkg/pg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	envFile       string
	migrationsDir string
)

// cli --env=.env migrate up --dir=./migrations
func main() {
	defer logger.Sync()

	if err := rootCmd().Execute(); err != nil {
		logger.Error("cli failed", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cli",
		Short:         "seller-crm maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the env file")
	root.AddCommand(migrateCmd())
	return root
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&migrationsDir, "dir", "./migrations", "goose migrations directory")

	cmd.AddCommand(
		migrateAction("up", "apply all pending migrations", pg.Migrate),
		migrateAction("down", "roll back the latest migration", pg.Rollback),
		migrateAction("status", "print migration status", pg.Status),
	)
	return cmd
}

func migrateAction(use, short string, run func(pg.Config, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadPgConfig(envFile)
			if err != nil {
				return err
			}
			if _, err := os.Stat(migrationsDir); err != nil {
				return errors.Wrapf(err, "migrations directory %q", migrationsDir)
			}
			return run(conf, migrationsDir)
		},
	}
}

// loadPgConfig reads the write-side connection settings. A missing env file
// falls back to the process environment.
func loadPgConfig(path string) (pg.Config, error) {
	if _, err := os.Stat(path); err != nil {
		logger.Warn("env file not found, using process environment", "path", path)
		path = ""
	}
	if err := config.Load(path); err != nil {
		return pg.Config{}, err
	}
	return pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}, nil
}
