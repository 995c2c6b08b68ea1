package engine

import (
	"fmt"
	"time"
)

// Timeframe is the rolling window used to filter tasks for statistics,
// measured against CreatedDate.
type Timeframe string

const (
	TimeframeWeek    Timeframe = "week"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
)

func (tf Timeframe) IsValid() bool {
	switch tf {
	case TimeframeWeek, TimeframeMonth, TimeframeQuarter:
		return true
	default:
		return false
	}
}

// Days returns the window length in days.
func (tf Timeframe) Days() int {
	switch tf {
	case TimeframeWeek:
		return 7
	case TimeframeMonth:
		return 30
	case TimeframeQuarter:
		return 90
	default:
		return 7
	}
}

// CategoryStat is one category's completion performance within a window.
// Rate is a fraction in [0, 1].
type CategoryStat struct {
	Category  TaskCategory
	Total     int
	Completed int
	Rate      float64
}

// StatsSummary is a side-effect-free snapshot over the full task corpus
// (active + archived). OverallScore is the mean of per-category rates
// across categories that have tasks in the window.
type StatsSummary struct {
	Timeframe    Timeframe
	Categories   []CategoryStat
	OverallScore float64
}

// CategoryTrend compares this week's completion rate against the
// previous week's. Improving only when the delta clears a 0.1 floor, so
// noise doesn't read as progress.
type CategoryTrend struct {
	Category     TaskCategory
	CurrentRate  float64
	PreviousRate float64
	Delta        float64
	Improving    bool
}

const (
	needsFocusRate    = 0.4
	needsFocusMinimum = 2
	balancedRate      = 0.6
	balancedMinimum   = 3
	improvingDelta    = 0.1
)

// Summarize computes per-category completion stats for tasks created
// within the timeframe window ending at now.
func Summarize(tasks []Task, tf Timeframe, now time.Time) StatsSummary {
	cutoff := now.AddDate(0, 0, -tf.Days())
	return summarizeWindow(tasks, tf, cutoff, now)
}

func summarizeWindow(tasks []Task, tf Timeframe, from, to time.Time) StatsSummary {
	totals := map[TaskCategory]int{}
	completed := map[TaskCategory]int{}
	for _, t := range tasks {
		if t.CreatedDate.Before(from) || t.CreatedDate.After(to) {
			continue
		}
		totals[t.Category]++
		if t.IsCompleted {
			completed[t.Category]++
		}
	}

	summary := StatsSummary{Timeframe: tf}
	sum := 0.0
	for _, c := range AllCategories() {
		total := totals[c]
		if total == 0 {
			continue
		}
		stat := CategoryStat{
			Category:  c,
			Total:     total,
			Completed: completed[c],
			Rate:      float64(completed[c]) / float64(total),
		}
		summary.Categories = append(summary.Categories, stat)
		sum += stat.Rate
	}
	if n := len(summary.Categories); n > 0 {
		summary.OverallScore = sum / float64(n)
	}
	return summary
}

// Trends compares the current week against the previous week per
// category.
func Trends(tasks []Task, now time.Time) []CategoryTrend {
	current := summarizeWindow(tasks, TimeframeWeek, now.AddDate(0, 0, -7), now)
	previous := summarizeWindow(tasks, TimeframeWeek, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7))

	prevRates := map[TaskCategory]float64{}
	for _, s := range previous.Categories {
		prevRates[s.Category] = s.Rate
	}

	var out []CategoryTrend
	for _, s := range current.Categories {
		delta := s.Rate - prevRates[s.Category]
		out = append(out, CategoryTrend{
			Category:     s.Category,
			CurrentRate:  s.Rate,
			PreviousRate: prevRates[s.Category],
			Delta:        delta,
			Improving:    delta > improvingDelta,
		})
	}
	return out
}

// Insight is a textual observation derived from fixed thresholds.
type Insight struct {
	Kind string
	Text string
}

// Insights generates observations from a summary: the best category,
// categories that need focus, and whether effort is balanced.
func Insights(summary StatsSummary) []Insight {
	var out []Insight

	var best *CategoryStat
	for i := range summary.Categories {
		s := &summary.Categories[i]
		if best == nil || s.Rate > best.Rate {
			best = s
		}
	}
	if best != nil && best.Completed > 0 {
		out = append(out, Insight{
			Kind: "best",
			Text: fmt.Sprintf("Your strongest area is %s (%d%% completed).", best.Category, int(best.Rate*100)),
		})
	}

	for _, s := range summary.Categories {
		if s.Total >= needsFocusMinimum && s.Rate < needsFocusRate {
			out = append(out, Insight{
				Kind: "needs-focus",
				Text: fmt.Sprintf("%s needs focus: only %d of %d tasks completed.", s.Category, s.Completed, s.Total),
			})
		}
	}

	strong := 0
	for _, s := range summary.Categories {
		if s.Rate >= balancedRate {
			strong++
		}
	}
	if strong >= balancedMinimum {
		out = append(out, Insight{
			Kind: "balanced",
			Text: fmt.Sprintf("Nicely balanced: %d categories at 60%% or better.", strong),
		})
	}
	return out
}
