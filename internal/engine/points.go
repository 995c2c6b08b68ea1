package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PointsPerLevel is the flat cost of each level.
// Level is always derived: level = totalPoints/PointsPerLevel + 1.
const PointsPerLevel = 100

// LevelForPoints returns the level derived from a cumulative point total.
func LevelForPoints(totalPoints int) int {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return totalPoints/PointsPerLevel + 1
}

// PointsToNextLevel returns how many points are missing for the next level.
func PointsToNextLevel(totalPoints int) int {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return LevelForPoints(totalPoints)*PointsPerLevel - totalPoints
}

// PointTransaction records a single award. Revocation finds the first
// transaction matching the task ID and removes it.
type PointTransaction struct {
	ID     uuid.UUID  `json:"id"`
	Points int        `json:"points"`
	Reason string     `json:"reason"`
	Date   time.Time  `json:"date"`
	TaskID *uuid.UUID `json:"taskId,omitempty"`
}

// UserPoints is the persisted points record. Level is stored for display
// but never trusted: it is recomputed from TotalPoints on every mutation
// and on load.
type UserPoints struct {
	TotalPoints   int                `json:"totalPoints"`
	DailyPoints   int                `json:"dailyPoints"`
	LastResetDate time.Time          `json:"lastResetDate"`
	Level         int                `json:"level"`
	PointHistory  []PointTransaction `json:"pointHistory"`
}

// NewUserPoints returns a fresh level-1 record.
func NewUserPoints(now time.Time) UserPoints {
	return UserPoints{
		LastResetDate: now,
		Level:         1,
	}
}

// PointsEngine owns the UserPoints record. All mutations go through its
// methods; the caller persists the record after a mutation.
type PointsEngine struct {
	data UserPoints
	now  func() time.Time
	log  *slog.Logger
}

func NewPointsEngine(data UserPoints, now func() time.Time, log *slog.Logger) *PointsEngine {
	e := &PointsEngine{data: data, now: now, log: log}
	e.data.Level = LevelForPoints(e.data.TotalPoints)
	return e
}

// Data returns a copy of the current record.
func (e *PointsEngine) Data() UserPoints {
	return e.data
}

// Award adds points and records a transaction. Returns true when the
// award crossed a level boundary, so the caller can drive a celebration.
func (e *PointsEngine) Award(points int, reason string, taskID *uuid.UUID) (levelUp bool) {
	if points < 0 {
		points = 0
	}
	e.ResetDailyIfNewDay()

	oldLevel := LevelForPoints(e.data.TotalPoints)
	e.data.TotalPoints += points
	e.data.DailyPoints += points
	e.data.PointHistory = append(e.data.PointHistory, PointTransaction{
		ID:     uuid.New(),
		Points: points,
		Reason: reason,
		Date:   e.now(),
		TaskID: taskID,
	})
	e.data.Level = LevelForPoints(e.data.TotalPoints)
	return e.data.Level > oldLevel
}

// Revoke reverses the first transaction recorded for taskID. DailyPoints
// is only reduced when the transaction happened today; older revocations
// must not drive today's counter negative. Returns the revoked point
// amount and whether a transaction was found.
func (e *PointsEngine) Revoke(taskID uuid.UUID) (points int, ok bool) {
	idx := -1
	for i, tx := range e.data.PointHistory {
		if tx.TaskID != nil && *tx.TaskID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.log.Warn("no point transaction to revoke", "taskId", taskID)
		return 0, false
	}

	tx := e.data.PointHistory[idx]
	e.data.TotalPoints -= tx.Points
	if e.data.TotalPoints < 0 {
		e.data.TotalPoints = 0
	}
	if sameCalendarDay(tx.Date, e.now()) {
		e.data.DailyPoints -= tx.Points
		if e.data.DailyPoints < 0 {
			e.data.DailyPoints = 0
		}
	}
	e.data.PointHistory = append(e.data.PointHistory[:idx], e.data.PointHistory[idx+1:]...)
	e.data.Level = LevelForPoints(e.data.TotalPoints)
	return tx.Points, true
}

// ResetDailyIfNewDay zeroes the daily counter the first time a calendar
// day boundary is observed since LastResetDate. Called on every engine
// initialization and before each award.
func (e *PointsEngine) ResetDailyIfNewDay() bool {
	now := e.now()
	if sameCalendarDay(e.data.LastResetDate, now) {
		return false
	}
	e.data.DailyPoints = 0
	e.data.LastResetDate = now
	return true
}
