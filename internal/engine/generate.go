package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"zenith/internal/llm"
)

const (
	generationMaxTokens   = 1024
	generationTemperature = 0.7

	// recentTaskContext caps how many recent tasks are fed into the
	// prompt.
	recentTaskContext = 10
)

var (
	// ErrAlreadyGeneratedToday is returned when the one-generation-per-day
	// gate is closed.
	ErrAlreadyGeneratedToday = errors.New("tasks already generated today")

	// ErrGenerationInFlight is returned when a generation is already
	// running; at most one may be in flight.
	ErrGenerationInFlight = errors.New("a generation is already in progress")
)

// Generator coordinates calls to the external completion service. The
// service returns freeform text; the generator extracts the first JSON
// array from it, drops candidates with unknown priority or category
// values, and falls back to a fixed set of generic tasks when nothing
// usable remains. Network failures propagate as typed llm errors;
// malformed output is a soft failure resolved by the fallback set.
type Generator struct {
	client      llm.Client
	now         func() time.Time
	log         *slog.Logger
	maxTokens   int
	temperature float64

	mu         sync.Mutex
	generating bool
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithCompletionLimits overrides the token budget and sampling
// temperature sent with each completion request. Zero values keep the
// defaults.
func WithCompletionLimits(maxTokens int, temperature float64) GeneratorOption {
	return func(g *Generator) {
		if maxTokens > 0 {
			g.maxTokens = maxTokens
		}
		if temperature > 0 {
			g.temperature = temperature
		}
	}
}

func NewGenerator(client llm.Client, now func() time.Time, log *slog.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		client:      client,
		now:         now,
		log:         log,
		maxTokens:   generationMaxTokens,
		temperature: generationTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) hasClient() bool {
	return g.client != nil
}

// IsGenerating reports whether a generation is currently in flight.
func (g *Generator) IsGenerating() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generating
}

// generatedTask is the candidate record shape expected from the service.
type generatedTask struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Priority         string `json:"priority"`
	Category         string `json:"category"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// Generate produces up to prefs.TaskCount new tasks. On success
// (including fallback) it closes today's gate and records the prompt in
// the preferences history; the caller persists the mutated preferences.
func (g *Generator) Generate(ctx context.Context, prefs *UserPreferences, currentStreak int, recentTasks []Task) ([]Task, error) {
	now := g.now()
	if !prefs.ShouldGenerateToday(now) {
		return nil, ErrAlreadyGeneratedToday
	}

	g.mu.Lock()
	if g.generating {
		g.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	g.generating = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.generating = false
		g.mu.Unlock()
	}()

	prefs.normalize()
	userPrompt := buildUserPrompt(prefs, currentStreak, recentTasks)

	text, err := g.client.GenerateCompletion(ctx, systemPrompt, userPrompt, g.maxTokens, g.temperature)
	if err != nil {
		return nil, err
	}

	tasks := g.parseGenerated(text, prefs, now)
	if len(tasks) == 0 {
		g.log.Warn("generation output unusable, substituting fallback tasks")
		tasks = FallbackTasks(now)
	}
	if len(tasks) > prefs.TaskCount {
		tasks = tasks[:prefs.TaskCount]
	}

	prefs.RecordGeneration(userPrompt, now)
	return tasks, nil
}

func (g *Generator) parseGenerated(text string, prefs *UserPreferences, now time.Time) []Task {
	raw, ok := extractJSONArray(text)
	if !ok {
		return nil
	}
	var candidates []generatedTask
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		g.log.Warn("generation output is not a task array", "err", err)
		return nil
	}

	avoided := map[TaskCategory]bool{}
	for _, c := range prefs.AvoidedCategories {
		avoided[c] = true
	}

	var tasks []Task
	for _, c := range candidates {
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		priority, ok := parseStrictPriority(c.Priority)
		if !ok {
			continue
		}
		category, ok := parseStrictCategory(c.Category)
		if !ok || avoided[category] {
			continue
		}
		tasks = append(tasks, NewTask(strings.TrimSpace(c.Title), strings.TrimSpace(c.Description), priority, category, now))
	}
	return tasks
}

// extractJSONArray returns the first [...] substring of freeform text.
// Completion services tend to wrap the payload in prose; everything
// outside the outermost brackets is discarded.
func extractJSONArray(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

const systemPrompt = "You are a productivity coach. Respond with a JSON array of task objects, " +
	"each with fields: title, description, priority (low|medium|high|critical), " +
	"category (work|health|personal|learning|social|finance|other), estimatedMinutes. " +
	"Return only the JSON array."

func buildUserPrompt(prefs *UserPreferences, currentStreak int, recentTasks []Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d tasks for today (difficulty: %s, time budget: %d minutes).\n",
		prefs.TaskCount, prefs.Difficulty, prefs.TimeBudgetMinutes)
	fmt.Fprintf(&b, "Current completion streak: %d days.\n", currentStreak)

	if len(prefs.PreferredCategories) > 0 {
		fmt.Fprintf(&b, "Preferred categories: %s.\n", joinCategories(prefs.PreferredCategories))
	}
	if len(prefs.AvoidedCategories) > 0 {
		fmt.Fprintf(&b, "Avoid categories: %s.\n", joinCategories(prefs.AvoidedCategories))
	}
	if len(prefs.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Focus areas: %s.\n", strings.Join(prefs.FocusAreas, ", "))
	}

	if len(recentTasks) > 0 {
		b.WriteString("Recent tasks:\n")
		n := len(recentTasks)
		if n > recentTaskContext {
			recentTasks = recentTasks[n-recentTaskContext:]
		}
		for _, t := range recentTasks {
			state := "pending"
			if t.IsCompleted {
				state = "done"
			}
			fmt.Fprintf(&b, "- [%s] %s (%s)\n", state, t.Title, t.Category)
		}
	}
	return b.String()
}

func joinCategories(cats []TaskCategory) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// fallbackDef mirrors the shape of generated candidates but is baked in.
type fallbackDef struct {
	title       string
	description string
	priority    TaskPriority
	category    TaskCategory
}

var fallbackDefs = []fallbackDef{
	{
		title:       "Take a 15-minute walk",
		description: "Step away from the screen and move.",
		priority:    PriorityLow,
		category:    CategoryHealth,
	},
	{
		title:       "Tidy your workspace",
		description: "Clear the desk so tomorrow starts clean.",
		priority:    PriorityLow,
		category:    CategoryPersonal,
	},
	{
		title:       "Plan tomorrow's top priority",
		description: "Write down the single most important task for tomorrow.",
		priority:    PriorityMedium,
		category:    CategoryWork,
	},
}

// FallbackTasks returns the fixed generic set substituted when AI
// generation output cannot be parsed.
func FallbackTasks(now time.Time) []Task {
	out := make([]Task, 0, len(fallbackDefs))
	for _, d := range fallbackDefs {
		out = append(out, NewTask(d.title, d.description, d.priority, d.category, now))
	}
	return out
}
