package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens a SQLite database at the given path and runs migrations.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	ensureColumns(db)

	return db, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// ensureColumns applies best-effort additive columns for databases created
// before these columns existed. Each ALTER is independent; failures (column
// already present) are ignored.
func ensureColumns(db *sql.DB) {
	alters := []string{
		`ALTER TABLE users ADD COLUMN api_token TEXT`,
		`ALTER TABLE events ADD COLUMN target_attendees INTEGER`,
		`ALTER TABLE guests ADD COLUMN is_me INTEGER NOT NULL DEFAULT 0`,
		`ALTER TABLE invitations ADD COLUMN channel TEXT NOT NULL DEFAULT ''`,
	}
	for _, stmt := range alters {
		db.Exec(stmt)
	}
}
