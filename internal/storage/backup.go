package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoBackup indicates a restore was requested but no snapshot exists.
var ErrNoBackup = errors.New("no backup snapshot present")

// Snapshot is the full-state backup blob: the raw stored bytes of every
// record key, copied verbatim so a restore round-trips exactly.
type Snapshot struct {
	Tasks       json.RawMessage `json:"tasks,omitempty"`
	Archived    json.RawMessage `json:"archivedTasks,omitempty"`
	Streak      json.RawMessage `json:"streak,omitempty"`
	Points      json.RawMessage `json:"points,omitempty"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	BackupDate  time.Time       `json:"backupDate"`
}

// CreateBackup serializes the current record blobs into the single
// snapshot key. Keys that were never written are simply absent from the
// snapshot.
func (s *Store) CreateBackup(ctx context.Context) error {
	snap := Snapshot{BackupDate: s.now()}
	for _, entry := range []struct {
		key  string
		dest *json.RawMessage
	}{
		{KeyTasks, &snap.Tasks},
		{KeyArchived, &snap.Archived},
		{KeyStreak, &snap.Streak},
		{KeyPoints, &snap.Points},
		{KeyPreferences, &snap.Preferences},
	} {
		data, err := s.LoadRaw(ctx, entry.key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		*entry.dest = data
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := s.SaveRaw(ctx, KeyBackup, data); err != nil {
		return err
	}
	return s.bumpLastSave(ctx)
}

// RestoreFromBackup writes the snapshot's blobs back under their record
// keys. Keys absent from the snapshot are left untouched.
func (s *Store) RestoreFromBackup(ctx context.Context) error {
	data, err := s.LoadRaw(ctx, KeyBackup)
	if errors.Is(err, ErrNotFound) {
		return ErrNoBackup
	}
	if err != nil {
		return err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode backup: %w: %w", ErrCorrupt, err)
	}

	for _, entry := range []struct {
		key string
		raw json.RawMessage
	}{
		{KeyTasks, snap.Tasks},
		{KeyArchived, snap.Archived},
		{KeyStreak, snap.Streak},
		{KeyPoints, snap.Points},
		{KeyPreferences, snap.Preferences},
	} {
		if entry.raw == nil {
			continue
		}
		if err := s.SaveRaw(ctx, entry.key, entry.raw); err != nil {
			return err
		}
	}
	return s.bumpLastSave(ctx)
}

// BackupDate returns the timestamp of the current snapshot, or nil when
// none exists.
func (s *Store) BackupDate(ctx context.Context) (*time.Time, error) {
	data, err := s.LoadRaw(ctx, KeyBackup)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode backup: %w: %w", ErrCorrupt, err)
	}
	return &snap.BackupDate, nil
}
