package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	text  string
	err   error
	calls int

	gotMaxTokens   int
	gotTemperature float64
}

func (f *fakeLLM) GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	f.calls++
	f.gotMaxTokens = maxTokens
	f.gotTemperature = temperature
	return f.text, f.err
}

func TestGenerateExtractsArrayFromProse(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	client := &fakeLLM{text: `Here are your tasks for today:
[{"title": "Review budget", "description": "Monthly check", "priority": "medium", "category": "finance", "estimatedMinutes": 30}]
Enjoy!`}
	g := NewGenerator(client, clock.Now, testLog)

	prefs := DefaultPreferences()
	tasks, err := g.Generate(context.Background(), &prefs, 0, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Review budget", tasks[0].Title)
	assert.Equal(t, PriorityMedium, tasks[0].Priority)
	assert.Equal(t, CategoryFinance, tasks[0].Category)
	assert.False(t, tasks[0].IsCompleted)
}

func TestGenerateDropsInvalidAndAvoided(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	client := &fakeLLM{text: `[
		{"title": "Good", "priority": "low", "category": "work"},
		{"title": "Bad priority", "priority": "urgent", "category": "work"},
		{"title": "Bad category", "priority": "low", "category": "chores"},
		{"title": "Avoided", "priority": "low", "category": "social"},
		{"title": "", "priority": "low", "category": "work"}
	]`}
	g := NewGenerator(client, clock.Now, testLog)

	prefs := DefaultPreferences()
	prefs.AvoidedCategories = []TaskCategory{CategorySocial}
	tasks, err := g.Generate(context.Background(), &prefs, 0, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Good", tasks[0].Title)
}

func TestGenerateFallsBackOnUnusableOutput(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	client := &fakeLLM{text: "Sorry, I can't help with that."}
	g := NewGenerator(client, clock.Now, testLog)

	prefs := DefaultPreferences()
	tasks, err := g.Generate(context.Background(), &prefs, 0, nil)
	require.NoError(t, err)
	require.Len(t, tasks, prefs.TaskCount)
	for _, task := range tasks {
		assert.NotEmpty(t, task.Title)
		assert.False(t, task.IsCompleted)
	}
}

func TestGenerateTruncatesToTaskCount(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	client := &fakeLLM{text: `[
		{"title": "One", "priority": "low", "category": "work"},
		{"title": "Two", "priority": "low", "category": "work"},
		{"title": "Three", "priority": "low", "category": "work"}
	]`}
	g := NewGenerator(client, clock.Now, testLog)

	prefs := DefaultPreferences()
	prefs.TaskCount = 2
	tasks, err := g.Generate(context.Background(), &prefs, 0, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestGenerateDailyGate(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	client := &fakeLLM{text: `[{"title": "One", "priority": "low", "category": "work"}]`}
	g := NewGenerator(client, clock.Now, testLog)

	prefs := DefaultPreferences()
	_, err := g.Generate(context.Background(), &prefs, 0, nil)
	require.NoError(t, err)
	require.NotNil(t, prefs.LastGenerationDate)
	assert.Len(t, prefs.GenerationHistory, 1)

	_, err = g.Generate(context.Background(), &prefs, 0, nil)
	assert.ErrorIs(t, err, ErrAlreadyGeneratedToday)
	assert.Equal(t, 1, client.calls)

	// The gate reopens on the next calendar day.
	clock.AdvanceDays(1)
	_, err = g.Generate(context.Background(), &prefs, 0, nil)
	assert.NoError(t, err)
}

func TestGenerateClientErrorLeavesGateOpen(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	client := &fakeLLM{err: assert.AnError}
	g := NewGenerator(client, clock.Now, testLog)

	prefs := DefaultPreferences()
	_, err := g.Generate(context.Background(), &prefs, 0, nil)
	require.Error(t, err)
	assert.Nil(t, prefs.LastGenerationDate)
	assert.Empty(t, prefs.GenerationHistory)
}

func TestGenerateUsesCompletionLimits(t *testing.T) {
	clock := newTestClock(day(2026, 3, 1, 10))
	client := &fakeLLM{text: `[{"title": "One", "priority": "low", "category": "work"}]`}
	g := NewGenerator(client, clock.Now, testLog)

	prefs := DefaultPreferences()
	_, err := g.Generate(context.Background(), &prefs, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, generationMaxTokens, client.gotMaxTokens)
	assert.InDelta(t, generationTemperature, client.gotTemperature, 1e-9)

	// Configured limits replace the defaults.
	client2 := &fakeLLM{text: client.text}
	g = NewGenerator(client2, clock.Now, testLog, WithCompletionLimits(256, 0.2))
	prefs2 := DefaultPreferences()
	_, err = g.Generate(context.Background(), &prefs2, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 256, client2.gotMaxTokens)
	assert.InDelta(t, 0.2, client2.gotTemperature, 1e-9)

	// Zero values keep the defaults.
	client3 := &fakeLLM{text: client.text}
	g = NewGenerator(client3, clock.Now, testLog, WithCompletionLimits(0, 0))
	prefs3 := DefaultPreferences()
	_, err = g.Generate(context.Background(), &prefs3, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, generationMaxTokens, client3.gotMaxTokens)
	assert.InDelta(t, generationTemperature, client3.gotTemperature, 1e-9)
}

func TestExtractJSONArray(t *testing.T) {
	raw, ok := extractJSONArray(`prefix [1, 2] suffix`)
	require.True(t, ok)
	assert.Equal(t, "[1, 2]", raw)

	_, ok = extractJSONArray("no array here")
	assert.False(t, ok)

	_, ok = extractJSONArray("] backwards [")
	assert.False(t, ok)
}
