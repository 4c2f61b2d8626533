package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "focusquest.db"

// SQLiteSlot stores blobs in a single key/value table.
type SQLiteSlot struct {
	db *sql.DB
}

// NewSQLiteSlot opens (or creates) the database at path and ensures its schema.
func NewSQLiteSlot(path string) (*SQLiteSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite slot: %w", err)
	}
	db.SetMaxOpenConns(1)

	slot := &SQLiteSlot{db: db}
	if err := slot.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return slot, nil
}

// OpenSQLiteSlotReadOnly opens an existing database without creating the
// file, the directory or the schema. Writes through the slot fail.
func OpenSQLiteSlotReadOnly(path string) (*SQLiteSlot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open sqlite slot: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite slot: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &SQLiteSlot{db: db}, nil
}

func (slot *SQLiteSlot) ensureSchema(ctx context.Context) error {
	_, err := slot.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_ts TEXT NOT NULL DEFAULT (datetime('now'))
	);`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (slot *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := slot.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (slot *SQLiteSlot) Set(ctx context.Context, key string, value []byte) error {
	_, err := slot.db.ExecContext(ctx,
		`INSERT INTO kv(key, value, updated_ts) VALUES(?, ?, datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_ts = excluded.updated_ts`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

func (slot *SQLiteSlot) Close() error {
	if slot == nil || slot.db == nil {
		return nil
	}
	return slot.db.Close()
}
