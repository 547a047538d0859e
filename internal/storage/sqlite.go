package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nyxos/backend/internal/infrastructure/logging"
)

// OpenSQLite opens (creating if needed) a sqlite database file
func OpenSQLite(ctx context.Context, dsn string, logger *logging.Logger) (Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps :memory: databases shared and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return newSQLStore(ctx, db, BackendSQLite, false, logger)
}
