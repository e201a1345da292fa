package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Migration System Overview:
//
// Fresh databases are initialized from store/migration/{driver}/LATEST.sql in a
// single transaction. Drivers that report themselves as initialized (an
// existing database, or the in-memory driver) are left untouched.

//go:embed migration
var migrationFS embed.FS

const (
	// LatestSchemaFileName is the name of the latest schema file.
	LatestSchemaFileName = "LATEST.sql"
)

// Migrate applies the latest schema when the database is not initialized.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	db := s.driver.GetDB()
	if db == nil {
		return errors.Errorf("driver %s has no database to migrate", s.profile.Driver)
	}

	filePath := s.getMigrationBasePath() + LatestSchemaFileName
	bytes, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %s", filePath)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	slog.Info("initializing new database with latest schema", slog.String("file", filePath))
	if err := s.execute(ctx, tx, string(bytes)); err != nil {
		return errors.Wrapf(err, "failed to execute SQL file %s", filePath)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	slog.Info("database initialized successfully", slog.String("driver", s.profile.Driver))
	return nil
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

// execute executes a SQL script within a transaction context.
// PostgreSQL does not accept multiple statements in one ExecContext call, so
// the script is split and executed statement by statement.
func (s *Store) execute(ctx context.Context, tx *sql.Tx, script string) error {
	if s.profile.Driver != "postgres" {
		if _, err := tx.ExecContext(ctx, script); err != nil {
			return errors.Wrap(err, "failed to execute statement")
		}
		return nil
	}
	for i, stmt := range splitSQL(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute statement %d: %s", i+1, stmt)
		}
	}
	return nil
}

// splitSQL splits a multi-statement SQL script on semicolons, skipping
// "--" comments and semicolons inside single-quoted strings.
func splitSQL(script string) []string {
	var statements []string
	var current strings.Builder
	inSingleQuote := false

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(script, "\n") {
		for i := 0; i < len(line); i++ {
			ch := line[i]
			if !inSingleQuote && ch == '-' && i+1 < len(line) && line[i+1] == '-' {
				break // Skip rest of line
			}
			if ch == '\'' {
				inSingleQuote = !inSingleQuote
			}
			current.WriteByte(ch)
			if ch == ';' && !inSingleQuote {
				flush()
			}
		}
		current.WriteByte('\n')
	}
	flush()
	return statements
}
