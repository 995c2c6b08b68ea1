package engine

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single unit of work. Completed tasks move from the active
// list to the archived list; unarchiving reverses the move and clears
// the completion fields.
type Task struct {
	ID            uuid.UUID    `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	IsCompleted   bool         `json:"isCompleted"`
	CreatedDate   time.Time    `json:"createdDate"`
	CompletedDate *time.Time   `json:"completedDate,omitempty"`
	Priority      TaskPriority `json:"priority"`
	Category      TaskCategory `json:"category"`

	// PointsEarned is set to Priority.PointValue() at completion and
	// cleared again on unarchive.
	PointsEarned    int `json:"pointsEarned"`
	ExperienceValue int `json:"experienceValue"`
}

// NewTask creates an incomplete task with a fresh ID.
func NewTask(title, description string, priority TaskPriority, category TaskCategory, createdAt time.Time) Task {
	if !priority.IsValid() {
		priority = DefaultPriority
	}
	if !category.IsValid() {
		category = DefaultCategory
	}
	return Task{
		ID:              uuid.New(),
		Title:           title,
		Description:     description,
		CreatedDate:     createdAt,
		Priority:        priority,
		Category:        category,
		ExperienceValue: priority.ExperienceValue(),
	}
}

// CompletedOn reports whether the task was completed on the same
// calendar day as date.
func (t Task) CompletedOn(date time.Time) bool {
	return t.CompletedDate != nil && sameCalendarDay(*t.CompletedDate, date)
}
