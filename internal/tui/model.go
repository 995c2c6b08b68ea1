package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"zenith/internal/engine"
	"zenith/internal/ui"
)

type dashboardModel struct {
	ctx    context.Context
	svc    *engine.Service
	events <-chan engine.Event

	width  int
	height int

	points  engine.UserPoints
	streak  engine.Streak
	tasks   []engine.Task
	summary engine.StatsSummary

	timeframe engine.Timeframe
	selected  int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	points  engine.UserPoints
	streak  engine.Streak
	tasks   []engine.Task
	summary engine.StatsSummary
	err     error
}

type completedMsg struct {
	res *engine.CompleteResult
	err error
}

type eventMsg struct {
	engine.Event
}

func newDashboardModel(ctx context.Context, svc *engine.Service, events <-chan engine.Event) dashboardModel {
	return dashboardModel{
		ctx:       ctx,
		svc:       svc,
		events:    events,
		timeframe: engine.TimeframeWeek,
		loading:   true,
		lastLog:   "Loaded.",
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitForEvent())
}

// waitForEvent blocks on the next service change notification and turns
// it into a message.
func (m dashboardModel) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return nil
		}
		return eventMsg{e}
	}
}

func (m dashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{
			points:  m.svc.Points(),
			streak:  m.svc.StreakData(),
			tasks:   m.svc.Tasks(),
			summary: m.svc.Stats(m.timeframe),
		}
	}
}

func (m dashboardModel) completeCmd(id int) tea.Cmd {
	task := m.tasks[id]
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, task.ID)
		return completedMsg{res: res, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.points = msg.points
		m.streak = msg.streak
		m.tasks = msg.tasks
		m.summary = msg.summary
		if m.selected >= len(m.tasks) {
			m.selected = len(m.tasks) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case eventMsg:
		if msg.Kind == engine.EventLevelUp {
			m.lastLog = ui.IconSparkle + " " + ui.BadgeLevelUp
		}
		return m, tea.Batch(m.loadCmd(), m.waitForEvent())
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		line := fmt.Sprintf("Completed %q: +%d points", msg.res.Task.Title, msg.res.PointsAwarded)
		if msg.res.LevelUp {
			line += " " + ui.BadgeLevelUp
		}
		if msg.res.StreakExtended {
			line += fmt.Sprintf(" %s %d-day streak", ui.IconStreak, msg.res.CurrentStreak)
		}
		m.lastLog = line
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "1":
			m.timeframe = engine.TimeframeWeek
			return m, m.loadCmd()
		case "2":
			m.timeframe = engine.TimeframeMonth
			return m, m.loadCmd()
		case "3":
			m.timeframe = engine.TimeframeQuarter
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.tasks)-1 {
				m.selected++
			}
			return m, nil
		case "enter", " ":
			if len(m.tasks) == 0 {
				return m, nil
			}
			return m, m.completeCmd(m.selected)
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.loading {
		return "Loading…\n"
	}
	if m.err != nil {
		return ui.Bad.Render(ui.IconError+" "+m.err.Error()) + "\n"
	}

	var b strings.Builder

	b.WriteString(ui.Heading(ui.IconSparkle, "Zenith") + "\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n\n",
		ui.IconLevel, ui.Key.Render(fmt.Sprintf("Level %d", m.points.Level)),
		ui.IconPoints, ui.Key.Render(fmt.Sprintf("%d pts (%d today)", m.points.TotalPoints, m.points.DailyPoints)),
		ui.IconStreak, ui.Key.Render(fmt.Sprintf("%d-day streak (best %d)", m.streak.CurrentStreak, m.streak.BestStreak)),
	))

	b.WriteString(ui.H2.Render(fmt.Sprintf("%s Tasks", ui.IconTask)) + "\n")
	if len(m.tasks) == 0 {
		b.WriteString(ui.Muted.Render("  nothing pending — add or generate tasks") + "\n")
	}
	for i, t := range m.tasks {
		line := fmt.Sprintf("  %s %s %s", ui.PriorityText(string(t.Priority)), t.Title, ui.Muted.Render("("+string(t.Category)+")"))
		if i == m.selected {
			line = ui.SelectedRow.Render("▸" + line[1:])
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + ui.H2.Render(fmt.Sprintf("%s Stats (%s)", ui.IconChart, m.timeframe)) + "\n")
	if len(m.summary.Categories) == 0 {
		b.WriteString(ui.Muted.Render("  no tasks in this window") + "\n")
	}
	for _, s := range m.summary.Categories {
		b.WriteString(fmt.Sprintf("  %-9s %s %d/%d\n", s.Category, ui.Bar(s.Rate, 10), s.Completed, s.Total))
	}

	b.WriteString("\n" + ui.Muted.Render(m.lastLog) + "\n")
	b.WriteString(ui.Muted.Render("j/k move · enter complete · 1/2/3 timeframe · r refresh · q quit") + "\n")
	return b.String()
}
