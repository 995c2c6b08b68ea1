package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"zenith/internal/engine"
)

// subscribeEvents bridges service change notifications into a channel
// the dashboard can poll as a tea command. The send never blocks; a
// dropped event only costs one refresh, and the next event catches up.
func subscribeEvents(svc *engine.Service) chan engine.Event {
	events := make(chan engine.Event, 16)
	svc.Subscribe(func(e engine.Event) {
		select {
		case events <- e:
		default:
		}
	})
	return events
}

// RunDashboard runs the interactive dashboard until the user quits.
func RunDashboard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	m := newDashboardModel(ctx, svc, subscribeEvents(svc))
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
