package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteMovesToArchive(t *testing.T) {
	now := day(2026, 3, 1, 10)
	s := NewTaskStore(nil, nil)
	task := NewTask("write report", "", PriorityHigh, CategoryWork, now)
	s.Add(task)

	done, err := s.Complete(task.ID, now.Add(1))
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	require.NotNil(t, done.CompletedDate)
	assert.Equal(t, 50, done.PointsEarned)
	assert.Empty(t, s.Active())
	assert.Len(t, s.Archived(), 1)

	_, err = s.Complete(task.ID, now)
	assert.Error(t, err, "completing an archived task again must fail")
}

func TestUnarchiveClearsCompletionFields(t *testing.T) {
	now := day(2026, 3, 1, 10)
	s := NewTaskStore(nil, nil)
	task := NewTask("write report", "", PriorityMedium, CategoryWork, now)
	s.Add(task)
	_, err := s.Complete(task.ID, now)
	require.NoError(t, err)

	back, err := s.Unarchive(task.ID)
	require.NoError(t, err)
	assert.False(t, back.IsCompleted)
	assert.Nil(t, back.CompletedDate)
	assert.Equal(t, 0, back.PointsEarned)
	assert.Len(t, s.Active(), 1)
	assert.Empty(t, s.Archived())
}

func TestDeleteRefusesArchived(t *testing.T) {
	now := day(2026, 3, 1, 10)
	s := NewTaskStore(nil, nil)
	task := NewTask("write report", "", PriorityLow, CategoryWork, now)
	s.Add(task)
	_, err := s.Complete(task.ID, now)
	require.NoError(t, err)

	err = s.Delete(task.ID)
	assert.ErrorContains(t, err, "unarchive")

	err = s.Delete(uuid.New())
	assert.ErrorContains(t, err, "not found")
}

func TestCompletionDatesSpanBothLists(t *testing.T) {
	now := day(2026, 3, 1, 10)
	s := NewTaskStore(nil, nil)
	a := NewTask("a", "", PriorityLow, CategoryWork, now)
	b := NewTask("b", "", PriorityLow, CategoryHealth, now)
	s.Add(a)
	s.Add(b)
	_, err := s.Complete(a.ID, now)
	require.NoError(t, err)

	assert.Len(t, s.CompletionDates(), 1)
	assert.Len(t, s.All(), 2)
}
