package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/shared/types"
)

// migrations are applied in order; the index+1 is the schema version
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		path  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// sqlStore implements Store over database/sql. The query text is written
// with ? placeholders and rebound per dialect.
type sqlStore struct {
	db       *sql.DB
	kind     string
	numbered bool
	logger   *logging.Logger
}

func newSQLStore(ctx context.Context, db *sql.DB, kind string, numbered bool, logger *logging.Logger) (*sqlStore, error) {
	s := &sqlStore{
		db:       db,
		kind:     kind,
		numbered: numbered,
		logger:   logging.OrNop(logger).Named(kind),
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate brings the schema up to date inside one transaction
func (s *sqlStore) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS fs_schema (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema table: %w", err)
	}

	var current int
	err = tx.QueryRowContext(ctx, `SELECT version FROM fs_schema`).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `INSERT INTO fs_schema (version) VALUES (0)`); err != nil {
			return fmt.Errorf("seed schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}

	for v := current; v < len(migrations); v++ {
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			return fmt.Errorf("apply migration %d: %w", v+1, err)
		}
		s.logger.Info("applied schema migration", zap.Int("version", v+1))
	}
	if current < len(migrations) {
		if _, err := tx.ExecContext(ctx, s.rebind(`UPDATE fs_schema SET version = ?`), len(migrations)); err != nil {
			return fmt.Errorf("update schema version: %w", err)
		}
	}

	return tx.Commit()
}

// rebind rewrites ? placeholders to $1, $2, ... for numbered dialects
func (s *sqlStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) Get(ctx context.Context, path string) (*types.Node, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT value FROM nodes WHERE path = ?`), path).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return decodeNode([]byte(value))
}

func (s *sqlStore) Put(ctx context.Context, node *types.Node) error {
	data, err := encodeNode(node)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO nodes (path, value) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET value = excluded.value`),
		node.Path, string(data))
	if err != nil {
		return fmt.Errorf("put %s: %w", node.Path, err)
	}
	return nil
}

func (s *sqlStore) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM nodes WHERE path = ?`), path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (s *sqlStore) Kind() string {
	return s.kind
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// schemaVersion reports the applied schema version
func (s *sqlStore) schemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM fs_schema`).Scan(&v)
	return v, err
}
