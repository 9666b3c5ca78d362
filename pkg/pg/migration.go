package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/nimasrn/seller-crm/pkg/logger"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found in dir.
func Migrate(cfg Config, dir string) error {
	return withGoose(cfg, func(db *sql.DB) error {
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		logVersion(db, dir)
		return nil
	})
}

// Rollback reverts the most recently applied migration.
func Rollback(cfg Config, dir string) error {
	return withGoose(cfg, func(db *sql.DB) error {
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		logVersion(db, dir)
		return nil
	})
}

// Status prints the applied state of every migration in dir.
func Status(cfg Config, dir string) error {
	return withGoose(cfg, func(db *sql.DB) error {
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		return nil
	})
}

func withGoose(cfg Config, fn func(db *sql.DB) error) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	db, err := newSqlConnection(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}

func logVersion(db *sql.DB, dir string) {
	version, err := goose.GetDBVersion(db)
	if err == nil {
		logger.Info("migrations applied", "dir", dir, "version", version)
	}
}
