package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/existflow/quickadd/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite state database. It is a small key-value store shared by
// the CLI, the popup and the bridge; writes are last-write-wins.
type DB struct {
	*sql.DB

	mu     sync.RWMutex
	subs   map[int]func(key string)
	nextID int
}

// DefaultDBPath returns the default database path (~/.quickadd/state.db)
func DefaultDBPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(dir, "state.db"), nil
}

// Open opens or creates the SQLite database
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serializes writers from the bridge
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		subs: make(map[int]func(string)),
	}

	if err := db.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// OpenDefault opens the database at the default path
func OpenDefault() (*DB, error) {
	path, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Get returns the value for key and whether it exists
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key and notifies subscribers
func (db *DB) Set(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	db.notify(key)
	return nil
}

// Delete removes key and notifies subscribers
func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	db.notify(key)
	return nil
}

// Subscribe registers fn to be called after every change made through this
// handle. The returned func removes the subscription.
func (db *DB) Subscribe(fn func(key string)) func() {
	db.mu.Lock()
	id := db.nextID
	db.nextID++
	db.subs[id] = fn
	db.mu.Unlock()

	return func() {
		db.mu.Lock()
		delete(db.subs, id)
		db.mu.Unlock()
	}
}

func (db *DB) notify(key string) {
	db.mu.RLock()
	fns := make([]func(string), 0, len(db.subs))
	for _, fn := range db.subs {
		fns = append(fns, fn)
	}
	db.mu.RUnlock()

	for _, fn := range fns {
		fn(key)
	}
}
