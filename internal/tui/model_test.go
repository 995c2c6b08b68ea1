package tui

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenith/internal/engine"
	"zenith/internal/storage"
)

func newTestService(t *testing.T) *engine.Service {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "zenith.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc, err := engine.NewService(ctx, storage.NewStore(db))
	require.NoError(t, err)
	return svc
}

func TestSubscribeEventsDeliversMutations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	events := subscribeEvents(svc)

	task, err := svc.AddTask(ctx, "write report", "", engine.PriorityLow, engine.CategoryWork)
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, engine.EventTaskAdded, e.Kind)
		assert.Equal(t, task.ID, e.TaskID)
	default:
		t.Fatal("expected a change notification on the channel")
	}
}

func TestEventTriggersRefresh(t *testing.T) {
	svc := newTestService(t)
	events := make(chan engine.Event, 1)
	m := newDashboardModel(context.Background(), svc, events)

	_, cmd := m.Update(eventMsg{engine.Event{Kind: engine.EventTaskAdded}})
	assert.NotNil(t, cmd, "an event must schedule a reload")
}

func TestWaitForEventReadsChannel(t *testing.T) {
	svc := newTestService(t)
	events := make(chan engine.Event, 1)
	m := newDashboardModel(context.Background(), svc, events)

	events <- engine.Event{Kind: engine.EventLevelUp}
	msg := m.waitForEvent()()
	e, ok := msg.(eventMsg)
	require.True(t, ok)
	assert.Equal(t, engine.EventLevelUp, e.Kind)
}
