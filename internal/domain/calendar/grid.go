package calendar

import (
	"sort"
	"time"

	"hearth/internal/domain/event"
)

// MaxDisplay is the number of events a day cell shows inline before the
// overflow marker takes over.
const MaxDisplay = 3

// Cell is one grid square representing a single calendar date. Cells are
// recomputed on every render pass and discarded afterwards — never
// persisted, never mutated in place.
type Cell struct {
	Date           time.Time
	InCurrentMonth bool
	IsToday        bool
	Events         []event.Event
}

// MonthGrid produces the ordered cell sequence for a month view: leading
// days borrowed from the previous month so day 1 lands in its weekday
// column, the month's own days, then trailing next-month days padding the
// total to a whole number of week rows.
// PRE: month is a valid time.Month
// POST: len(result) is a multiple of 7; dates are contiguous, strictly
// increasing by one calendar day, correct across month and year rollover
func MonthGrid(year int, month time.Month, weekStart time.Weekday) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7

	total := lead + daysInMonth
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	cells := make([]Cell, 0, total)
	d := first.AddDate(0, 0, -lead)
	for i := 0; i < total; i++ {
		cells = append(cells, Cell{
			Date:           d,
			InCurrentMonth: d.Month() == month && d.Year() == year,
		})
		d = d.AddDate(0, 0, 1)
	}
	return cells
}

// Bucket assigns each event to the cell matching its date and marks the
// cell holding today. Events dated outside the grid's covered range are
// dropped — the store's query range is the source of truth for scope.
// Within a cell, events without a start time come first, then start time
// ascending; ties keep the input list's order (stable sort), so the
// result is the same regardless of input order up to that stable rule.
// PRE: cells came from MonthGrid (contiguous dates)
// POST: no event appears in more than one cell; input slices are not mutated
func Bucket(cells []Cell, events []event.Event, today time.Time) []Cell {
	byDay := make(map[string][]event.Event)
	for _, e := range events {
		key := e.DateKey()
		byDay[key] = append(byDay[key], e)
	}
	for _, evs := range byDay {
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].Before(evs[j]) })
	}

	todayKey := today.Format(event.DateLayout)
	out := make([]Cell, len(cells))
	for i, c := range cells {
		key := c.Date.Format(event.DateLayout)
		c.Events = byDay[key]
		c.IsToday = key == todayKey
		out[i] = c
	}
	return out
}

// Summary is what a day cell shows inline: up to MaxDisplay labels in
// sorted order, plus the count hidden behind the overflow marker.
type Summary struct {
	Labels   []string
	Overflow int // events beyond MaxDisplay; 0 means no marker
}

// Summarize applies the day-cell display policy to a bucketed cell.
// POST: len(Labels) <= MaxDisplay; Overflow == max(0, len(c.Events)-MaxDisplay)
func Summarize(c Cell) Summary {
	n := len(c.Events)
	show := n
	if show > MaxDisplay {
		show = MaxDisplay
	}
	labels := make([]string, 0, show)
	for _, e := range c.Events[:show] {
		labels = append(labels, e.Label())
	}
	return Summary{Labels: labels, Overflow: n - show}
}

// Activation is the view a day cell transitions to when activated.
type Activation string

const (
	ActivateDayDetail     Activation = "day_detail"     // cell has events
	ActivateNewEvent      Activation = "new_event"      // empty cell, user logged in
	ActivateLoginRequired Activation = "login_required" // empty cell, nobody logged in
)

// Activate resolves the day-cell activation transition. This is the only
// stateful transition in the calendar core and it has no persistence or
// retry semantics.
func Activate(c Cell, loggedIn bool) Activation {
	switch {
	case len(c.Events) > 0:
		return ActivateDayDetail
	case loggedIn:
		return ActivateNewEvent
	default:
		return ActivateLoginRequired
	}
}
