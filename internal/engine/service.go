// Package engine implements the gamification state engine: task
// lifecycle, points and levels, daily completion streaks, statistics,
// and AI task generation. The Service wires the engines together and
// sequences their cross-engine effects; each engine exclusively owns
// its own record.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zenith/internal/llm"
	"zenith/internal/storage"
)

// EventKind identifies a state mutation for change notification.
type EventKind string

const (
	EventTaskAdded      EventKind = "task_added"
	EventTaskCompleted  EventKind = "task_completed"
	EventTaskUnarchived EventKind = "task_unarchived"
	EventTaskDeleted    EventKind = "task_deleted"
	EventTasksGenerated EventKind = "tasks_generated"
	EventLevelUp        EventKind = "level_up"
)

// Event is emitted to subscribers after a successful mutation. The
// engines themselves are observation-agnostic; only the presentation
// layer consumes these.
type Event struct {
	Kind   EventKind
	TaskID uuid.UUID
}

// CompleteResult reports the outcome of completing a task so the caller
// can drive celebration output.
type CompleteResult struct {
	Task           Task
	PointsAwarded  int
	LevelBefore    int
	LevelAfter     int
	LevelUp        bool
	CurrentStreak  int
	StreakExtended bool
}

// Service is the single entry point for all mutations. Constructed once
// at process start; every public method is guarded by one mutex since
// cross-engine sequencing (complete, then award, then streak) is not
// atomic and must not interleave.
type Service struct {
	mu sync.Mutex

	store  *storage.Store
	tasks  *TaskStore
	points *PointsEngine
	streak *StreakEngine
	prefs  UserPreferences
	gen    *Generator

	now  func() time.Time
	log  *slog.Logger
	subs []func(Event)

	// repairs counts validation fixes applied at load; informational
	// only, never surfaced as an error.
	repairs int
}

// Option configures a Service.
type Option func(*serviceConfig)

type serviceConfig struct {
	now     func() time.Time
	log     *slog.Logger
	client  llm.Client
	genOpts []GeneratorOption
}

// WithClock fixes the service clock; tests use this to cross calendar
// days deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *serviceConfig) { c.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *serviceConfig) { c.log = log }
}

// WithLLMClient sets the completion client used for task generation.
func WithLLMClient(client llm.Client) Option {
	return func(c *serviceConfig) { c.client = client }
}

// WithGenerationLimits overrides the token budget and temperature used
// for completion requests.
func WithGenerationLimits(maxTokens int, temperature float64) Option {
	return func(c *serviceConfig) {
		c.genOpts = append(c.genOpts, WithCompletionLimits(maxTokens, temperature))
	}
}

// NewService loads all state from the store, repairing and recovering as
// needed, and runs the once-per-session reconciliations: the daily
// points reset and the streak lapse check, both before any read.
func NewService(ctx context.Context, store *storage.Store, opts ...Option) (*Service, error) {
	cfg := serviceConfig{now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Service{
		store: store,
		now:   cfg.now,
		log:   cfg.log,
	}

	if err := s.loadState(ctx); err != nil {
		return nil, err
	}
	s.gen = NewGenerator(cfg.client, s.now, s.log, cfg.genOpts...)

	// Session reconciliation, then persist whatever it changed.
	if s.points.ResetDailyIfNewDay() {
		s.savePoints(ctx)
	}
	if s.streak.CheckAndResetIfNeeded() {
		s.saveStreak(ctx)
	}
	return s, nil
}

// loadState loads every record with validation. A corrupt record
// triggers one backup-restore attempt for the whole store; records that
// are still unreadable after that fall back to defaults. This is the
// only recovery path for corruption.
func (s *Service) loadState(ctx context.Context) error {
	now := s.now()

	var active, archived []Task
	var streak Streak
	points := NewUserPoints(now)
	prefs := DefaultPreferences()

	restored := false
	load := func(key string, v any) bool {
		err := s.store.Load(ctx, key, v)
		if err == nil {
			return true
		}
		if errors.Is(err, storage.ErrNotFound) {
			return false
		}
		if errors.Is(err, storage.ErrCorrupt) && !restored {
			restored = true
			s.log.Warn("corrupt record, attempting backup restore", "key", key)
			if rerr := s.store.RestoreFromBackup(ctx); rerr != nil {
				s.log.Warn("backup restore failed", "err", rerr)
				return false
			}
			if rerr := s.store.Load(ctx, key, v); rerr == nil {
				return true
			}
		}
		s.log.Warn("unreadable record, using default", "key", key, "err", err)
		return false
	}

	load(storage.KeyTasks, &active)
	load(storage.KeyArchived, &archived)
	load(storage.KeyStreak, &streak)
	load(storage.KeyPoints, &points)
	load(storage.KeyPreferences, &prefs)

	// Repair pass. Repaired records are persisted back so the store
	// converges on valid data.
	var n int
	active, n = ValidateTasks(active, now)
	s.repairs += n
	archived, n = ValidateTasks(archived, now)
	s.repairs += n

	streakFixed, changed := ValidateStreak(streak, now)
	if changed {
		s.repairs++
	}
	pointsFixed, pchanged := ValidatePoints(points, now)
	if pchanged {
		s.repairs++
	}

	s.tasks = NewTaskStore(active, archived)
	s.points = NewPointsEngine(pointsFixed, s.now, s.log)
	s.streak = NewStreakEngine(streakFixed, s.now, s.log)
	prefs.normalize()
	s.prefs = prefs

	if s.repairs > 0 {
		s.log.Warn("repaired records at load", "count", s.repairs)
		s.saveTasks(ctx)
		s.saveStreak(ctx)
		s.savePoints(ctx)
	}
	return nil
}

// Subscribe registers a change-notification callback. Not safe to call
// concurrently with mutations; register subscribers at startup.
func (s *Service) Subscribe(fn func(Event)) {
	s.subs = append(s.subs, fn)
}

func (s *Service) notify(e Event) {
	for _, fn := range s.subs {
		fn(e)
	}
}

// RepairCount returns how many records needed repair at load.
func (s *Service) RepairCount() int {
	return s.repairs
}

// AddTask creates an incomplete task and appends it to the active list.
func (s *Service) AddTask(ctx context.Context, title, description string, priority TaskPriority, category TaskCategory) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, errors.New("title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := NewTask(title, strings.TrimSpace(description), priority, category, s.now())
	s.tasks.Add(t)
	s.saveTasks(ctx)
	s.notify(Event{Kind: EventTaskAdded, TaskID: t.ID})
	return t, nil
}

// CompleteTask archives the task and sequences the cross-engine
// effects: award points, then mark the streak day covered.
func (s *Service) CompleteTask(ctx context.Context, id uuid.UUID) (*CompleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	levelBefore := s.points.Data().Level

	t, err := s.tasks.Complete(id, now)
	if err != nil {
		return nil, err
	}

	taskID := t.ID
	levelUp := s.points.Award(t.PointsEarned, "Completed: "+t.Title, &taskID)
	extended := s.streak.MarkCompleted(now)

	s.saveTasks(ctx)
	s.savePoints(ctx)
	s.saveStreak(ctx)

	s.notify(Event{Kind: EventTaskCompleted, TaskID: t.ID})
	if levelUp {
		s.notify(Event{Kind: EventLevelUp, TaskID: t.ID})
	}

	return &CompleteResult{
		Task:           t,
		PointsAwarded:  t.PointsEarned,
		LevelBefore:    levelBefore,
		LevelAfter:     s.points.Data().Level,
		LevelUp:        levelUp,
		CurrentStreak:  s.streak.Data().CurrentStreak,
		StreakExtended: extended,
	}, nil
}

// UnarchiveTask reverses a completion. Point and streak effects are
// reversed first, while the archived record's completion date and
// transaction are still in place; only then is the list mutated.
func (s *Service) UnarchiveTask(ctx context.Context, id uuid.UUID) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	archived, ok := s.tasks.Get(id)
	if !ok || !archived.IsCompleted || archived.CompletedDate == nil {
		return Task{}, fmt.Errorf("task %s is not archived", id)
	}

	s.points.Revoke(id)
	s.streak.RemoveCompletion(*archived.CompletedDate, s.tasks.CompletionDates())

	t, err := s.tasks.Unarchive(id)
	if err != nil {
		return Task{}, err
	}

	s.saveTasks(ctx)
	s.savePoints(ctx)
	s.saveStreak(ctx)
	s.notify(Event{Kind: EventTaskUnarchived, TaskID: t.ID})
	return t, nil
}

// DeleteTask removes an incomplete task. No point or streak reversal:
// deleting a task that never completed has no side effects.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tasks.Delete(id); err != nil {
		return err
	}
	s.saveTasks(ctx)
	s.notify(Event{Kind: EventTaskDeleted, TaskID: id})
	return nil
}

// Tasks returns the active list.
func (s *Service) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Active()
}

// ArchivedTasks returns the archived list.
func (s *Service) ArchivedTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Archived()
}

// Points returns the current points record.
func (s *Service) Points() UserPoints {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points.Data()
}

// StreakData returns the current streak record.
func (s *Service) StreakData() Streak {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak.Data()
}

// Preferences returns the generation preferences.
func (s *Service) Preferences() UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// UpdatePreferences replaces the generation preferences.
func (s *Service) UpdatePreferences(ctx context.Context, prefs UserPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs.normalize()
	s.prefs = prefs
	s.savePrefs(ctx)
}

// Stats computes the category summary for a timeframe over the full
// corpus.
func (s *Service) Stats(tf Timeframe) StatsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.tasks.All(), tf, s.now())
}

// StatsTrends computes week-over-week category trends.
func (s *Service) StatsTrends() []CategoryTrend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Trends(s.tasks.All(), s.now())
}

// GenerateTasks asks the completion service for personalized tasks and
// appends the results to the active list.
func (s *Service) GenerateTasks(ctx context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen == nil || !s.gen.hasClient() {
		return nil, errors.New("task generation is not configured")
	}

	prefs := s.prefs
	recent := s.tasks.All()
	generated, err := s.gen.Generate(ctx, &prefs, s.streak.Data().CurrentStreak, recent)
	if err != nil {
		return nil, err
	}

	for _, t := range generated {
		s.tasks.Add(t)
	}
	s.prefs = prefs
	s.saveTasks(ctx)
	s.savePrefs(ctx)
	for _, t := range generated {
		s.notify(Event{Kind: EventTasksGenerated, TaskID: t.ID})
	}
	return generated, nil
}

// Backup snapshots the full state into the backup key.
func (s *Service) Backup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CreateBackup(ctx)
}

// Restore overwrites live state from the backup snapshot and reloads.
// The restored records go through the same day-boundary reconciliations
// as a fresh launch: an old snapshot must not resurrect a lapsed streak
// or a stale daily counter.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.RestoreFromBackup(ctx); err != nil {
		return err
	}
	s.repairs = 0
	if err := s.loadState(ctx); err != nil {
		return err
	}
	if s.points.ResetDailyIfNewDay() {
		s.savePoints(ctx)
	}
	if s.streak.CheckAndResetIfNeeded() {
		s.saveStreak(ctx)
	}
	return nil
}

// Encode/write failures are logged and swallowed: in-memory state stays
// authoritative and the next mutation retries the save.

func (s *Service) saveTasks(ctx context.Context) {
	if err := s.store.Save(ctx, storage.KeyTasks, s.tasks.Active()); err != nil {
		s.log.Warn("save tasks failed", "err", err)
	}
	if err := s.store.Save(ctx, storage.KeyArchived, s.tasks.Archived()); err != nil {
		s.log.Warn("save archived tasks failed", "err", err)
	}
}

func (s *Service) savePoints(ctx context.Context) {
	if err := s.store.Save(ctx, storage.KeyPoints, s.points.Data()); err != nil {
		s.log.Warn("save points failed", "err", err)
	}
}

func (s *Service) saveStreak(ctx context.Context) {
	if err := s.store.Save(ctx, storage.KeyStreak, s.streak.Data()); err != nil {
		s.log.Warn("save streak failed", "err", err)
	}
}

func (s *Service) savePrefs(ctx context.Context) {
	if err := s.store.Save(ctx, storage.KeyPreferences, s.prefs); err != nil {
		s.log.Warn("save preferences failed", "err", err)
	}
}
