package engine

import (
	"strings"
	"time"
)

// Validation is a pure repair pass: records either come back unchanged
// or deterministically fixed. It never fails the caller and never drops
// valid data; out-of-range values are clamped and bool/date
// inconsistencies resolved. The caller decides whether to persist the
// repaired value.

// PlaceholderTitle replaces an empty task title.
const PlaceholderTitle = "Untitled Task"

// ValidateTask repairs a single task record. Returns the repaired task
// and whether anything changed.
func ValidateTask(t Task, now time.Time) (Task, bool) {
	changed := false

	if strings.TrimSpace(t.Title) == "" {
		t.Title = PlaceholderTitle
		changed = true
	}
	if !t.Priority.IsValid() {
		t.Priority = DefaultPriority
		changed = true
	}
	if !t.Category.IsValid() {
		t.Category = DefaultCategory
		changed = true
	}
	if t.CreatedDate.IsZero() || t.CreatedDate.After(now) {
		t.CreatedDate = now
		changed = true
	}
	if t.CompletedDate != nil {
		if t.CompletedDate.After(now) {
			c := now
			t.CompletedDate = &c
			changed = true
		}
		if t.CompletedDate.Before(t.CreatedDate) {
			c := t.CreatedDate
			t.CompletedDate = &c
			changed = true
		}
		if !t.IsCompleted {
			// A completion date is evidence of completion; keep it.
			t.IsCompleted = true
			changed = true
		}
	} else if t.IsCompleted {
		c := t.CreatedDate
		t.CompletedDate = &c
		changed = true
	}
	if t.PointsEarned < 0 {
		t.PointsEarned = 0
		changed = true
	}
	if t.ExperienceValue < 0 {
		t.ExperienceValue = 0
		changed = true
	}
	return t, changed
}

// ValidateTasks repairs a task list in place, returning the repaired
// list and the number of records that needed fixing.
func ValidateTasks(tasks []Task, now time.Time) ([]Task, int) {
	repaired := 0
	for i := range tasks {
		t, changed := ValidateTask(tasks[i], now)
		if changed {
			tasks[i] = t
			repaired++
		}
	}
	return tasks, repaired
}

// ValidateStreak repairs a streak record. A future last-completion date
// is unexplainable, so it is cleared along with the counters that depend
// on it.
func ValidateStreak(s Streak, now time.Time) (Streak, bool) {
	changed := false

	if s.CurrentStreak < 0 {
		s.CurrentStreak = 0
		changed = true
	}
	if s.TotalDaysCompleted < 0 {
		s.TotalDaysCompleted = 0
		changed = true
	}
	if s.LastCompletionDate != nil && s.LastCompletionDate.After(now) {
		s.LastCompletionDate = nil
		s.CurrentStreak = 0
		s.StreakStartDate = nil
		changed = true
	}
	if s.StreakStartDate != nil && s.StreakStartDate.After(now) {
		s.StreakStartDate = nil
		changed = true
	}
	if s.BestStreak < s.CurrentStreak {
		s.BestStreak = s.CurrentStreak
		changed = true
	}
	if s.BestStreak < 0 {
		s.BestStreak = 0
		changed = true
	}
	return s, changed
}

// ValidatePoints repairs a points record. Level is always recomputed
// from the total; it is derived state and never trusted as stored.
func ValidatePoints(p UserPoints, now time.Time) (UserPoints, bool) {
	changed := false

	if p.TotalPoints < 0 {
		p.TotalPoints = 0
		changed = true
	}
	if p.DailyPoints < 0 {
		p.DailyPoints = 0
		changed = true
	}
	if p.LastResetDate.IsZero() || p.LastResetDate.After(now) {
		p.LastResetDate = now
		p.DailyPoints = 0
		changed = true
	}
	for i := range p.PointHistory {
		tx := &p.PointHistory[i]
		if tx.Points < 0 {
			tx.Points = 0
			changed = true
		}
		if tx.Date.After(now) {
			tx.Date = now
			changed = true
		}
	}
	if level := LevelForPoints(p.TotalPoints); p.Level != level {
		p.Level = level
		changed = true
	}
	return p, changed
}
