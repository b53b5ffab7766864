package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/edupath/mentor/internal/profile"
	"github.com/edupath/mentor/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a SQLite database at the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("sqlite", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// SQLite serializes writes; a single connection keeps the driver honest
	// and keeps :memory: databases from splitting across connections.
	db.SetMaxOpenConns(1)

	// busy_timeout avoids SQLITE_BUSY under concurrent request handlers.
	if _, err := db.Exec("PRAGMA busy_timeout = 10000"); err != nil {
		return nil, errors.Wrap(err, "failed to set busy_timeout")
	}

	driver := DB{db: db, profile: profile}
	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the conversation table if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	stmt := `
		CREATE TABLE IF NOT EXISTS conversation (
			user_id TEXT PRIMARY KEY,
			messages TEXT NOT NULL,
			updated_ts BIGINT NOT NULL
		)`
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to migrate conversation table")
	}
	return nil
}
