package sqlconnect

import (
	"database/sql"
	"fmt"

	"chikwama_finance/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// Open opens a database for the given driver ("mysql" or "sqlite"), verifies
// the connection and applies pending migrations.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	if driver == "sqlite" {
		// An in-memory sqlite database exists per connection; pin the pool
		// to one so every query sees the same database.
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	if err := RunMigrations(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// ConnectDb opens the configured database and stores the handle in the
// package-level DB used by the handlers.
func ConnectDb(cfg *config.Config) error {
	if DB != nil {
		return nil
	}

	db, err := Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}

	DB = db
	return nil
}
