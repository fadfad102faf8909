package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/existflow/quickadd/internal/model"
	"github.com/existflow/quickadd/internal/ranking"
)

// State keys
const (
	KeyFavorites        = "favorites"
	KeyServerRecents    = "recents.server"
	KeyLocalRecents     = "recents.local"
	KeyPendingCapture   = "pending_capture"
	KeyBridgeSecretHash = "bridge_secret_hash"
)

func (db *DB) getIDs(ctx context.Context, key string) ([]int64, error) {
	raw, ok, err := db.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return ids, nil
}

func (db *DB) setIDs(ctx context.Context, key string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return db.Set(ctx, key, string(data))
}

// Favorites returns the favorite project ids last reported by the server
func (db *DB) Favorites(ctx context.Context) ([]int64, error) {
	return db.getIDs(ctx, KeyFavorites)
}

// ServerRecents returns the recency list derived from server view times
func (db *DB) ServerRecents(ctx context.Context) ([]int64, error) {
	return db.getIDs(ctx, KeyServerRecents)
}

// LocalRecents returns the projects most recently used for new tasks
func (db *DB) LocalRecents(ctx context.Context) ([]int64, error) {
	return db.getIDs(ctx, KeyLocalRecents)
}

// SaveProjectMetadata stores the server-computed favorites and recents
func (db *DB) SaveProjectMetadata(ctx context.Context, favorites, recents []int64) error {
	if err := db.setIDs(ctx, KeyFavorites, favorites); err != nil {
		return err
	}
	return db.setIDs(ctx, KeyServerRecents, recents)
}

// PushRecent records a project as just used and returns the new list
func (db *DB) PushRecent(ctx context.Context, projectID int64) ([]int64, error) {
	current, err := db.LocalRecents(ctx)
	if err != nil {
		// A corrupt list is replaced rather than blocking task creation
		current = nil
	}
	updated := ranking.PushRecent(current, projectID)
	if err := db.setIDs(ctx, KeyLocalRecents, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// SetPendingCapture stores a capture for the next popup to pick up,
// replacing any earlier one
func (db *DB) SetPendingCapture(ctx context.Context, c *model.Capture) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode capture: %w", err)
	}
	return db.Set(ctx, KeyPendingCapture, string(data))
}

// TakePendingCapture returns and removes the pending capture. It returns
// nil when there is none.
func (db *DB) TakePendingCapture(ctx context.Context) (*model.Capture, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, KeyPendingCapture).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending capture: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, KeyPendingCapture); err != nil {
		return nil, fmt.Errorf("failed to clear pending capture: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	db.notify(KeyPendingCapture)

	var c model.Capture
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("failed to decode pending capture: %w", err)
	}
	return &c, nil
}

// PeekPendingCapture returns the pending capture without consuming it
func (db *DB) PeekPendingCapture(ctx context.Context) (*model.Capture, error) {
	raw, ok, err := db.Get(ctx, KeyPendingCapture)
	if err != nil || !ok {
		return nil, err
	}
	var c model.Capture
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("failed to decode pending capture: %w", err)
	}
	return &c, nil
}

// BridgeSecretHash returns the bcrypt hash of the bridge secret, or "" if
// none was generated yet
func (db *DB) BridgeSecretHash(ctx context.Context) (string, error) {
	hash, _, err := db.Get(ctx, KeyBridgeSecretHash)
	return hash, err
}

// SetBridgeSecretHash stores the bcrypt hash of the bridge secret
func (db *DB) SetBridgeSecretHash(ctx context.Context, hash string) error {
	return db.Set(ctx, KeyBridgeSecretHash, hash)
}

// ClearLocal forgets local usage recents and any pending capture. Server
// metadata and the bridge secret are kept.
func (db *DB) ClearLocal(ctx context.Context) error {
	for _, key := range []string{KeyLocalRecents, KeyPendingCapture} {
		if err := db.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
