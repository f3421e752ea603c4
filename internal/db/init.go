// Package db opens the chromekit SQLite database and brings its schema
// up to date.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/chromekit/internal/logging"
	"github.com/bnema/chromekit/internal/migrations"
	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite
)

// Open opens (creating if needed) the database at dbPath and runs all
// pending migrations. Use ":memory:" for an ephemeral database.
func Open(ctx context.Context, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	logger := logging.FromContext(ctx)
	if err := database.PingContext(ctx); err != nil {
		if closeErr := database.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("failed to close database")
		}
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := migrations.Run(ctx, database); err != nil {
		if closeErr := database.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("failed to close database")
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug().Str("path", dbPath).Msg("database ready")
	return database, nil
}
