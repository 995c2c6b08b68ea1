package engine

import "time"

// Calendar-day helpers. Streaks and daily counters are gated on local
// calendar days, not 24h windows: completing a task at 23:59 and again
// at 00:01 counts as two separate days.

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// calendarDaysBetween returns the number of calendar-day boundaries
// between a and b (positive when b is after a). Anchoring both dates at
// noon UTC keeps the arithmetic stable across DST transitions.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	an := time.Date(ay, am, ad, 12, 0, 0, 0, time.UTC)
	bn := time.Date(by, bm, bd, 12, 0, 0, 0, time.UTC)
	return int(bn.Sub(an).Hours() / 24)
}

// startOfDay returns midnight at the start of t's calendar day, in t's
// location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
