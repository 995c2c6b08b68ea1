package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Zenith theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconTask    = "📝"
	IconDone    = "✅"
	IconPoints  = "⭐"
	IconStreak  = "🔥"
	IconLevel   = "🏅"
	IconSparkle = "✨"
	IconChart   = "📊"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconUndo    = "↩️"
	IconRobot   = "🤖"
	IconBackup  = "💾"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// PriorityText renders a priority name in its severity color.
func PriorityText(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "critical":
		return Bad.Render("critical")
	case "high":
		return Warn.Render("high")
	case "medium":
		return H2.Render("medium")
	case "low":
		return Muted.Render("low")
	default:
		return Muted.Render(priority)
	}
}

// Bar renders a fixed-width completion bar for a rate in [0, 1].
func Bar(rate float64, width int) string {
	if width <= 0 {
		width = 10
	}
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	filled := int(rate*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case rate >= 0.6:
		return Good.Render(bar)
	case rate >= 0.4:
		return Warn.Render(bar)
	default:
		return Bad.Render(bar)
	}
}
