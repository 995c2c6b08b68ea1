package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "zenith.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, s.Save(ctx, KeyTasks, record{Name: "x", Count: 3}))

	var got record
	require.NoError(t, s.Load(ctx, KeyTasks, &got))
	assert.Equal(t, record{Name: "x", Count: 3}, got)

	// Overwrite wins.
	require.NoError(t, s.Save(ctx, KeyTasks, record{Name: "y", Count: 1}))
	require.NoError(t, s.Load(ctx, KeyTasks, &got))
	assert.Equal(t, "y", got.Name)
}

func TestLoadAbsentVersusCorrupt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var v map[string]any
	err := s.Load(ctx, KeyStreak, &v)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrCorrupt)

	require.NoError(t, s.SaveRaw(ctx, KeyStreak, []byte("{broken")))
	err = s.Load(ctx, KeyStreak, &v)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRecordWritesBumpLastSaveDate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	db, err := Open(ctx, filepath.Join(t.TempDir(), "zenith.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewStoreWithClock(db, func() time.Time { return now })

	stamp, err := s.LastSaveDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, stamp)

	require.NoError(t, s.Save(ctx, KeyPoints, map[string]int{"totalPoints": 10}))
	stamp, err = s.LastSaveDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, stamp)
	assert.True(t, stamp.Equal(now))

	// Non-record keys do not bump the stamp.
	later := now.Add(time.Hour)
	now = later
	require.NoError(t, s.SetAPIKey(ctx, "sk-test"))
	stamp, err = s.LastSaveDate(ctx)
	require.NoError(t, err)
	assert.False(t, stamp.Equal(later))
}

func TestBackupAndRestoreBumpLastSaveDate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	db, err := Open(ctx, filepath.Join(t.TempDir(), "zenith.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewStoreWithClock(db, func() time.Time { return now })

	require.NoError(t, s.Save(ctx, KeyTasks, []string{"a"}))

	now = now.Add(time.Hour)
	require.NoError(t, s.CreateBackup(ctx))
	stamp, err := s.LastSaveDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, stamp)
	assert.True(t, stamp.Equal(now), "creating a backup is a write and must stamp it")

	now = now.Add(time.Hour)
	require.NoError(t, s.RestoreFromBackup(ctx))
	stamp, err = s.LastSaveDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, stamp)
	assert.True(t, stamp.Equal(now), "restoring rewrites the record keys and must stamp it")
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, KeyTasks, []string{"a", "b"}))
	require.NoError(t, s.Save(ctx, KeyPoints, map[string]int{"totalPoints": 50}))
	require.NoError(t, s.CreateBackup(ctx))

	date, err := s.BackupDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, date)

	// Clobber live data, then restore.
	require.NoError(t, s.SaveRaw(ctx, KeyTasks, []byte("{garbage")))
	require.NoError(t, s.Delete(ctx, KeyPoints))
	require.NoError(t, s.RestoreFromBackup(ctx))

	var tasks []string
	require.NoError(t, s.Load(ctx, KeyTasks, &tasks))
	assert.Equal(t, []string{"a", "b"}, tasks)

	var points map[string]int
	require.NoError(t, s.Load(ctx, KeyPoints, &points))
	assert.Equal(t, 50, points["totalPoints"])
}

func TestRestoreWithoutBackup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	assert.ErrorIs(t, s.RestoreFromBackup(ctx), ErrNoBackup)

	date, err := s.BackupDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, date)
}

func TestBackupSkipsAbsentKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, KeyStreak, map[string]int{"currentStreak": 2}))
	require.NoError(t, s.CreateBackup(ctx))

	// A restore must not invent the keys that were never written.
	require.NoError(t, s.RestoreFromBackup(ctx))
	var v any
	assert.ErrorIs(t, s.Load(ctx, KeyTasks, &v), ErrNotFound)
}

func TestClearAllPreservesAPIKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, KeyTasks, []string{"a"}))
	require.NoError(t, s.CreateBackup(ctx))
	require.NoError(t, s.SetAPIKey(ctx, "sk-test"))

	require.NoError(t, s.ClearAll(ctx))

	var v any
	assert.ErrorIs(t, s.Load(ctx, KeyTasks, &v), ErrNotFound)
	assert.ErrorIs(t, s.RestoreFromBackup(ctx), ErrNoBackup)

	key, err := s.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)
}

func TestAPIKeyLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	key, err := s.APIKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, s.SetAPIKey(ctx, "sk-test"))
	key, err = s.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	require.NoError(t, s.SetAPIKey(ctx, ""))
	key, err = s.APIKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)
}
