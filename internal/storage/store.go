package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates the key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrCorrupt indicates stored bytes exist but cannot be decoded.
	// Callers should attempt a backup restore before falling back to
	// defaults.
	ErrCorrupt = errors.New("stored data is corrupt")
)

// Store is the key-value persistence layer. Values are JSON-serialized;
// absent and corrupt are distinguishable so the recovery chain is
// testable.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// NewStoreWithClock is for tests that need a fixed clock.
func NewStoreWithClock(db *sql.DB, now func() time.Time) *Store {
	return &Store{db: db, now: now}
}

// Save serializes v under key. Writing a record key also bumps
// last_save_date.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.put(ctx, key, data); err != nil {
		return err
	}
	if isRecordKey(key) {
		return s.bumpLastSave(ctx)
	}
	return nil
}

// bumpLastSave stamps last_save_date with the current time. Every
// successful write of user data goes through this, including the
// backup/restore paths.
func (s *Store) bumpLastSave(ctx context.Context) error {
	stamp, err := json.Marshal(s.now())
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyLastSave, err)
	}
	return s.put(ctx, KeyLastSave, stamp)
}

// Load decodes the blob stored under key into v. Absent keys return
// ErrNotFound; undecodable blobs return an error wrapping ErrCorrupt.
func (s *Store) Load(ctx context.Context, key string, v any) error {
	data, err := s.LoadRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w: %w", key, ErrCorrupt, err)
	}
	return nil
}

// LoadRaw returns the raw stored bytes for key, or ErrNotFound.
func (s *Store) LoadRaw(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}

// SaveRaw stores bytes under key without re-encoding. Used by the
// backup/restore path, which copies blobs verbatim.
func (s *Store) SaveRaw(ctx context.Context, key string, data []byte) error {
	return s.put(ctx, key, data)
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// LastSaveDate returns the timestamp of the last successful record
// write, or nil if nothing has been saved yet.
func (s *Store) LastSaveDate(ctx context.Context) (*time.Time, error) {
	var t time.Time
	err := s.Load(ctx, KeyLastSave, &t)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ClearAll removes every record key and the backup snapshot. The API
// credential is preserved.
func (s *Store) ClearAll(ctx context.Context) error {
	keys := append([]string{}, recordKeys...)
	keys = append(keys, KeyBackup, KeyLastSave)
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// APIKey returns the stored service credential, or "" when unset.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	var key string
	err := s.Load(ctx, KeyAPIKey, &key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

// SetAPIKey stores the service credential. An empty key deletes it.
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	if key == "" {
		return s.Delete(ctx, KeyAPIKey)
	}
	return s.Save(ctx, KeyAPIKey, key)
}

func (s *Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, data, s.now().UTC())
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
