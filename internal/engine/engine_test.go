package engine

import (
	"io"
	"log/slog"
	"time"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// testClock is a settable clock for crossing calendar days in tests.
type testClock struct {
	t time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{t: t}
}

func (c *testClock) Now() time.Time {
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func (c *testClock) AdvanceDays(n int) {
	c.t = c.t.AddDate(0, 0, n)
}

func day(yyyy int, mm time.Month, dd, hour int) time.Time {
	return time.Date(yyyy, mm, dd, hour, 0, 0, 0, time.UTC)
}
