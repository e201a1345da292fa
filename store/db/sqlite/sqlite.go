package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/chatmeet/internal/profile"
	"github.com/hrygo/chatmeet/store"
)

// ============================================================================
// SQLITE SUPPORT (Development / single node)
// ============================================================================
// SQLite keeps events in a single file under the data directory. Writes are
// serialized through one connection.
// ============================================================================

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a SQLite database using the profile's DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// Connect to the database with some sane settings:
	// - No shared-cache: it's obsolete; WAL journal mode is a better solution.
	// - busy_timeout avoids "database is locked" errors under concurrent batches.
	// - foreign_keys is off by default in SQLite.
	sqliteDB, err := sql.Open("sqlite", withPragmas(profile.DSN))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}
	sqliteDB.SetMaxOpenConns(1)

	if err := sqliteDB.Ping(); err != nil {
		sqliteDB.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: sqliteDB, profile: profile}, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schedule')").Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}
