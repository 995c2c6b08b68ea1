package engine

import "time"

// GenerationHistoryLimit caps the rolling prompt history; the oldest
// entry is evicted first.
const GenerationHistoryLimit = 10

// GenerationDifficulty steers the tone of generated tasks.
type GenerationDifficulty string

const (
	DifficultyGentle      GenerationDifficulty = "gentle"
	DifficultyBalanced    GenerationDifficulty = "balanced"
	DifficultyChallenging GenerationDifficulty = "challenging"
)

func (d GenerationDifficulty) IsValid() bool {
	switch d {
	case DifficultyGentle, DifficultyBalanced, DifficultyChallenging:
		return true
	default:
		return false
	}
}

// UserPreferences governs task generation: how many tasks, how hard,
// which categories to lean into or avoid, and a rolling history of past
// prompts. The daily gate is advisory and device-local, not a quota.
type UserPreferences struct {
	TaskCount           int                  `json:"taskCount"`
	Difficulty          GenerationDifficulty `json:"difficulty"`
	TimeBudgetMinutes   int                  `json:"timeBudgetMinutes"`
	PreferredCategories []TaskCategory       `json:"preferredCategories"`
	AvoidedCategories   []TaskCategory       `json:"avoidedCategories"`
	FocusAreas          []string             `json:"focusAreas"`
	GenerationHistory   []string             `json:"generationHistory"`
	LastGenerationDate  *time.Time           `json:"lastGenerationDate,omitempty"`
}

// DefaultPreferences returns the out-of-the-box generation settings.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		TaskCount:         3,
		Difficulty:        DifficultyBalanced,
		TimeBudgetMinutes: 60,
	}
}

// ShouldGenerateToday reports whether the one-generation-per-day gate is
// open.
func (p UserPreferences) ShouldGenerateToday(now time.Time) bool {
	return p.LastGenerationDate == nil || !sameCalendarDay(*p.LastGenerationDate, now)
}

// RecordGeneration closes today's gate and appends the prompt to the
// rolling history, evicting the oldest entry beyond the cap.
func (p *UserPreferences) RecordGeneration(prompt string, now time.Time) {
	d := now
	p.LastGenerationDate = &d
	p.GenerationHistory = append(p.GenerationHistory, prompt)
	if n := len(p.GenerationHistory); n > GenerationHistoryLimit {
		p.GenerationHistory = p.GenerationHistory[n-GenerationHistoryLimit:]
	}
}

// normalize clamps preference values into usable ranges.
func (p *UserPreferences) normalize() {
	if p.TaskCount < 1 {
		p.TaskCount = DefaultPreferences().TaskCount
	}
	if p.TaskCount > 10 {
		p.TaskCount = 10
	}
	if !p.Difficulty.IsValid() {
		p.Difficulty = DifficultyBalanced
	}
	if p.TimeBudgetMinutes < 0 {
		p.TimeBudgetMinutes = 0
	}
}
