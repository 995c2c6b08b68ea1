package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStore owns the active and archived task lists. Completion moves a
// task from active to archived; unarchive moves it back and clears the
// completion fields. Cross-engine effects (points, streak) are sequenced
// by the Service, not by the store.
type TaskStore struct {
	active   []Task
	archived []Task
}

func NewTaskStore(active, archived []Task) *TaskStore {
	return &TaskStore{active: active, archived: archived}
}

// Active returns a copy of the active list.
func (s *TaskStore) Active() []Task {
	out := make([]Task, len(s.active))
	copy(out, s.active)
	return out
}

// Archived returns a copy of the archived list.
func (s *TaskStore) Archived() []Task {
	out := make([]Task, len(s.archived))
	copy(out, s.archived)
	return out
}

// Add appends a task to the active list.
func (s *TaskStore) Add(t Task) {
	s.active = append(s.active, t)
}

// Get returns the task with the given ID from either list.
func (s *TaskStore) Get(id uuid.UUID) (Task, bool) {
	for _, t := range s.active {
		if t.ID == id {
			return t, true
		}
	}
	for _, t := range s.archived {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Complete moves a task from active to archived, stamping the completion
// fields. PointsEarned is frozen from the task's priority.
func (s *TaskStore) Complete(id uuid.UUID, completedAt time.Time) (Task, error) {
	idx := indexByID(s.active, id)
	if idx < 0 {
		return Task{}, fmt.Errorf("task %s not found in active list", id)
	}
	t := s.active[idx]
	s.active = append(s.active[:idx], s.active[idx+1:]...)

	t.IsCompleted = true
	c := completedAt
	t.CompletedDate = &c
	t.PointsEarned = t.Priority.PointValue()
	s.archived = append(s.archived, t)
	return t, nil
}

// Unarchive moves a task from archived back to active, clearing its
// completion fields. The caller must reverse the point/streak effects
// before calling this, while the archived record is still intact.
func (s *TaskStore) Unarchive(id uuid.UUID) (Task, error) {
	idx := indexByID(s.archived, id)
	if idx < 0 {
		return Task{}, fmt.Errorf("task %s not found in archive", id)
	}
	t := s.archived[idx]
	s.archived = append(s.archived[:idx], s.archived[idx+1:]...)

	t.IsCompleted = false
	t.CompletedDate = nil
	t.PointsEarned = 0
	s.active = append(s.active, t)
	return t, nil
}

// Delete removes an incomplete task from the active list. Deleting an
// incomplete task has no point or streak side effects; archived tasks
// must be unarchived first.
func (s *TaskStore) Delete(id uuid.UUID) error {
	idx := indexByID(s.active, id)
	if idx < 0 {
		if indexByID(s.archived, id) >= 0 {
			return fmt.Errorf("task %s is archived; unarchive it before deleting", id)
		}
		return fmt.Errorf("task %s not found", id)
	}
	s.active = append(s.active[:idx], s.active[idx+1:]...)
	return nil
}

// CompletionDates returns every completion timestamp across both lists.
func (s *TaskStore) CompletionDates() []time.Time {
	var out []time.Time
	for _, t := range s.active {
		if t.CompletedDate != nil {
			out = append(out, *t.CompletedDate)
		}
	}
	for _, t := range s.archived {
		if t.CompletedDate != nil {
			out = append(out, *t.CompletedDate)
		}
	}
	return out
}

// All returns active followed by archived tasks.
func (s *TaskStore) All() []Task {
	out := make([]Task, 0, len(s.active)+len(s.archived))
	out = append(out, s.active...)
	out = append(out, s.archived...)
	return out
}

func indexByID(tasks []Task, id uuid.UUID) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
