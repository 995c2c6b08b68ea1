package engine

import (
	"log/slog"
	"time"
)

// Streak is the persisted streak record: consecutive calendar days with
// at least one task completion.
type Streak struct {
	CurrentStreak      int        `json:"currentStreak"`
	BestStreak         int        `json:"bestStreak"`
	LastCompletionDate *time.Time `json:"lastCompletionDate,omitempty"`
	TotalDaysCompleted int        `json:"totalDaysCompleted"`
	StreakStartDate    *time.Time `json:"streakStartDate,omitempty"`
}

// StreakEngine owns the Streak record. The caller persists the record
// after a mutation.
type StreakEngine struct {
	data Streak
	now  func() time.Time
	log  *slog.Logger
}

func NewStreakEngine(data Streak, now func() time.Time, log *slog.Logger) *StreakEngine {
	return &StreakEngine{data: data, now: now, log: log}
}

// Data returns a copy of the current record.
func (e *StreakEngine) Data() Streak {
	return e.data
}

// MarkCompleted records that a task was completed at date. At most one
// increment per calendar day: a second completion on the same day is a
// no-op. A gap of exactly one day extends the streak; any larger gap
// (or no prior completion) starts a new one-day streak.
func (e *StreakEngine) MarkCompleted(date time.Time) (extended bool) {
	last := e.data.LastCompletionDate
	if last != nil && sameCalendarDay(*last, date) {
		return false
	}

	start := date
	switch {
	case last == nil:
		e.data.CurrentStreak = 1
		e.data.StreakStartDate = &start
	case calendarDaysBetween(*last, date) == 1:
		e.data.CurrentStreak++
	default:
		e.data.CurrentStreak = 1
		e.data.StreakStartDate = &start
	}

	d := date
	e.data.LastCompletionDate = &d
	e.data.TotalDaysCompleted++
	if e.data.CurrentStreak > e.data.BestStreak {
		e.data.BestStreak = e.data.CurrentStreak
	}
	return true
}

// RemoveCompletion reverses the streak effect of un-completing a task
// that was completed at date. completionDates is the full set of
// completion timestamps across active and archived tasks, including the
// one being removed: when more than one task covered that day the streak
// is untouched. BestStreak is never lowered.
func (e *StreakEngine) RemoveCompletion(date time.Time, completionDates []time.Time) {
	covered := 0
	for _, d := range completionDates {
		if sameCalendarDay(d, date) {
			covered++
		}
	}
	if covered > 1 {
		// Another completion still covers this day.
		return
	}

	if e.data.CurrentStreak > 0 {
		e.data.CurrentStreak--
	}
	if e.data.TotalDaysCompleted > 0 {
		e.data.TotalDaysCompleted--
	}

	if e.data.CurrentStreak == 0 {
		e.data.LastCompletionDate = nil
		e.data.StreakStartDate = nil
		return
	}

	// The latest remaining completion strictly before this day becomes
	// the new anchor.
	dayStart := startOfDay(date)
	var latest *time.Time
	for i := range completionDates {
		d := completionDates[i]
		if !d.Before(dayStart) {
			continue
		}
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	if latest == nil {
		e.log.Warn("streak anchor lost after removal, clearing streak", "date", date)
		e.data.CurrentStreak = 0
		e.data.LastCompletionDate = nil
		e.data.StreakStartDate = nil
		return
	}
	e.data.LastCompletionDate = latest
}

// CheckAndResetIfNeeded enforces the use-it-or-lose-it rule: more than
// one calendar day without a completion resets the current streak. Must
// run once per session, before any other streak read.
func (e *StreakEngine) CheckAndResetIfNeeded() (reset bool) {
	last := e.data.LastCompletionDate
	if last == nil || e.data.CurrentStreak == 0 {
		return false
	}
	if calendarDaysBetween(*last, e.now()) <= 1 {
		return false
	}
	e.log.Info("streak lapsed, resetting", "currentStreak", e.data.CurrentStreak)
	e.data.CurrentStreak = 0
	e.data.StreakStartDate = nil
	return true
}
