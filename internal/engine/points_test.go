package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForPoints(t *testing.T) {
	assert.Equal(t, 1, LevelForPoints(0))
	assert.Equal(t, 1, LevelForPoints(99))
	assert.Equal(t, 2, LevelForPoints(100))
	assert.Equal(t, 3, LevelForPoints(250))
	assert.Equal(t, 1, LevelForPoints(-10))
}

func TestPointsToNextLevel(t *testing.T) {
	assert.Equal(t, 100, PointsToNextLevel(0))
	assert.Equal(t, 1, PointsToNextLevel(99))
	assert.Equal(t, 100, PointsToNextLevel(100))
	assert.Equal(t, 50, PointsToNextLevel(150))
}

func TestAwardCrossesLevelBoundary(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	e := NewPointsEngine(NewUserPoints(clock.Now()), clock.Now, testLog)

	id := uuid.New()
	levelUp := e.Award(PriorityHigh.PointValue(), "Completed: write report", &id)
	assert.False(t, levelUp)
	assert.Equal(t, 50, e.Data().TotalPoints)
	assert.Equal(t, 50, e.Data().DailyPoints)
	assert.Equal(t, 1, e.Data().Level)

	id2 := uuid.New()
	levelUp = e.Award(PriorityHigh.PointValue(), "Completed: review PR", &id2)
	assert.True(t, levelUp)
	assert.Equal(t, 100, e.Data().TotalPoints)
	assert.Equal(t, 2, e.Data().Level)
	assert.Len(t, e.Data().PointHistory, 2)
}

func TestRevokeFirstMatch(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	e := NewPointsEngine(NewUserPoints(clock.Now()), clock.Now, testLog)

	id := uuid.New()
	e.Award(25, "Completed: a", &id)
	e.Award(25, "Completed: a again", &id)
	e.Award(10, "Completed: b", nil)

	points, ok := e.Revoke(id)
	require.True(t, ok)
	assert.Equal(t, 25, points)
	assert.Equal(t, 35, e.Data().TotalPoints)
	assert.Equal(t, 35, e.Data().DailyPoints)
	// The second transaction for the same task survives.
	assert.Len(t, e.Data().PointHistory, 2)

	_, ok = e.Revoke(uuid.New())
	assert.False(t, ok)
}

func TestRevokeOldTransactionLeavesDailyAlone(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	e := NewPointsEngine(NewUserPoints(clock.Now()), clock.Now, testLog)

	id := uuid.New()
	e.Award(50, "Completed: yesterday's task", &id)

	clock.AdvanceDays(1)
	e.Award(10, "Completed: today's task", nil)

	points, ok := e.Revoke(id)
	require.True(t, ok)
	assert.Equal(t, 50, points)
	assert.Equal(t, 10, e.Data().TotalPoints)
	// Yesterday's transaction must not drain today's counter.
	assert.Equal(t, 10, e.Data().DailyPoints)
}

func TestRevokeClampsAtZero(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	data := NewUserPoints(clock.Now())
	id := uuid.New()
	data.PointHistory = []PointTransaction{{ID: uuid.New(), Points: 50, Date: clock.Now(), TaskID: &id}}
	data.TotalPoints = 20

	e := NewPointsEngine(data, clock.Now, testLog)
	_, ok := e.Revoke(id)
	require.True(t, ok)
	assert.Equal(t, 0, e.Data().TotalPoints)
	assert.Equal(t, 0, e.Data().DailyPoints)
	assert.Equal(t, 1, e.Data().Level)
}

func TestResetDailyIfNewDay(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 23))
	e := NewPointsEngine(NewUserPoints(clock.Now()), clock.Now, testLog)
	e.Award(25, "Completed: late task", nil)
	assert.Equal(t, 25, e.Data().DailyPoints)

	assert.False(t, e.ResetDailyIfNewDay())

	// Two hours later it is a new calendar day.
	clock.Advance(2 * time.Hour)
	assert.True(t, e.ResetDailyIfNewDay())
	assert.Equal(t, 0, e.Data().DailyPoints)
	assert.Equal(t, 25, e.Data().TotalPoints)

	e.Award(10, "Completed: morning task", nil)
	assert.Equal(t, 10, e.Data().DailyPoints)
}
