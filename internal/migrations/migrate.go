package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

const sqliteDialect = "sqlite3"

// Up applies all pending SQL migrations from migrationsDir, bringing the
// material catalog and quote-history schema up to date.
func Up(db *sql.DB, migrationsDir string) error {
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
