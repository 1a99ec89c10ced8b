package calendar

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"hearth/internal/domain/event"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func novemberEvents() []event.Event {
	return []event.Event{
		{ID: "e1", Title: "Shift", Date: day(2024, 11, 12), StartTime: "19:30", EndTime: "22:00"},
		{ID: "e2", Title: "Recycling", Date: day(2024, 11, 12)},
		{ID: "e3", Title: "School run", Date: day(2024, 11, 12), StartTime: "09:00"},
		{ID: "e4", Title: "Dentist", Date: day(2024, 11, 3), StartTime: "14:00"},
		{ID: "e5", Title: "Stray", Date: day(2024, 12, 25)}, // outside the Nov grid
	}
}

func cellFor(t *testing.T, cells []Cell, date time.Time) Cell {
	t.Helper()
	for _, c := range cells {
		if c.Date.Equal(date) {
			return c
		}
	}
	t.Fatalf("no cell for %v", date)
	return Cell{}
}

// TestBucket_ExactDateMatch places each event in the one cell matching its
// date and drops events outside the grid's covered range.
func TestBucket_ExactDateMatch(t *testing.T) {
	grid := MonthGrid(2024, time.November, time.Sunday)
	cells := Bucket(grid, novemberEvents(), day(2024, 11, 12))

	seen := map[string]int{}
	for _, c := range cells {
		for _, e := range c.Events {
			seen[e.ID]++
		}
	}
	for _, id := range []string{"e1", "e2", "e3", "e4"} {
		if seen[id] != 1 {
			t.Errorf("event %s appears in %d cells, want exactly 1", id, seen[id])
		}
	}
	if seen["e5"] != 0 {
		t.Errorf("December event leaked into the November grid")
	}

	if got := len(cellFor(t, cells, day(2024, 11, 12)).Events); got != 3 {
		t.Errorf("Nov 12 holds %d events, want 3", got)
	}
}

// TestBucket_Ordering sorts a cell's events by start time ascending with
// untimed events first.
func TestBucket_Ordering(t *testing.T) {
	grid := MonthGrid(2024, time.November, time.Sunday)
	cells := Bucket(grid, novemberEvents(), day(2024, 11, 12))

	evs := cellFor(t, cells, day(2024, 11, 12)).Events
	wantOrder := []string{"e2", "e3", "e1"} // no time, 09:00, 19:30
	for i, want := range wantOrder {
		if evs[i].ID != want {
			t.Fatalf("position %d = %s, want %s (got order %v)", i, evs[i].ID, want, ids(evs))
		}
	}
}

// TestBucket_NullStartSortsFirst is the documented scenario: two events on
// one date, one untimed and one at 09:00 — the untimed one leads.
func TestBucket_NullStartSortsFirst(t *testing.T) {
	grid := MonthGrid(2024, time.November, time.Sunday)
	input := []event.Event{
		{ID: "timed", Title: "Breakfast", Date: day(2024, 11, 5), StartTime: "09:00"},
		{ID: "untimed", Title: "Bin day", Date: day(2024, 11, 5)},
	}
	cells := Bucket(grid, input, day(2024, 11, 5))
	evs := cellFor(t, cells, day(2024, 11, 5)).Events
	if evs[0].ID != "untimed" || evs[1].ID != "timed" {
		t.Fatalf("order = %v, want [untimed timed]", ids(evs))
	}
}

// TestBucket_IdempotentUnderShuffle re-buckets shuffled copies of the input
// and expects an identical cell→events mapping every time. Tie-breaking
// events share no equal start times here so the mapping is fully
// order-independent.
func TestBucket_IdempotentUnderShuffle(t *testing.T) {
	grid := MonthGrid(2024, time.November, time.Sunday)
	base := Bucket(grid, novemberEvents(), day(2024, 11, 12))

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		shuffled := novemberEvents()
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got := Bucket(grid, shuffled, day(2024, 11, 12))
		for i := range base {
			if !reflect.DeepEqual(ids(base[i].Events), ids(got[i].Events)) {
				t.Fatalf("trial %d cell %d: order %v, want %v", trial, i, ids(got[i].Events), ids(base[i].Events))
			}
		}
	}
}

// TestBucket_StableTies keeps input order for events with equal start times.
func TestBucket_StableTies(t *testing.T) {
	grid := MonthGrid(2024, time.November, time.Sunday)
	input := []event.Event{
		{ID: "first", Title: "A", Date: day(2024, 11, 8), StartTime: "10:00"},
		{ID: "second", Title: "B", Date: day(2024, 11, 8), StartTime: "10:00"},
	}
	cells := Bucket(grid, input, day(2024, 11, 8))
	evs := cellFor(t, cells, day(2024, 11, 8)).Events
	if evs[0].ID != "first" || evs[1].ID != "second" {
		t.Fatalf("tie order = %v, want input order preserved", ids(evs))
	}
}

// TestBucket_MarksToday sets IsToday on exactly the cell matching the
// injected clock, and nowhere when today is outside the grid.
func TestBucket_MarksToday(t *testing.T) {
	grid := MonthGrid(2024, time.November, time.Sunday)
	cells := Bucket(grid, nil, day(2024, 11, 12))
	todayCount := 0
	for _, c := range cells {
		if c.IsToday {
			todayCount++
			if c.Date.Day() != 12 {
				t.Errorf("IsToday on %v, want Nov 12", c.Date)
			}
		}
	}
	if todayCount != 1 {
		t.Fatalf("IsToday set on %d cells, want 1", todayCount)
	}

	cells = Bucket(grid, nil, day(2025, 6, 1))
	for _, c := range cells {
		if c.IsToday {
			t.Fatalf("IsToday set for a month that does not contain today")
		}
	}
}

// TestSummarize_Overflow is the documented scenario: 4 events show 3 inline
// plus an overflow count of 1.
func TestSummarize_Overflow(t *testing.T) {
	c := Cell{Events: []event.Event{
		{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"},
	}}
	s := Summarize(c)
	if len(s.Labels) != 3 {
		t.Fatalf("labels = %d, want 3", len(s.Labels))
	}
	if s.Overflow != 1 {
		t.Fatalf("overflow = %d, want 1", s.Overflow)
	}

	s = Summarize(Cell{Events: c.Events[:2]})
	if len(s.Labels) != 2 || s.Overflow != 0 {
		t.Fatalf("2-event cell: labels=%d overflow=%d, want 2 and 0", len(s.Labels), s.Overflow)
	}
}

// TestSummarize_LabelOrder renders labels in the cell's sorted order.
func TestSummarize_LabelOrder(t *testing.T) {
	grid := MonthGrid(2024, time.November, time.Sunday)
	cells := Bucket(grid, novemberEvents(), day(2024, 11, 12))
	s := Summarize(cellFor(t, cells, day(2024, 11, 12)))
	want := []string{"Recycling", "9:00 AM School run", "7:30 PM – 10:00 PM Shift"}
	if !reflect.DeepEqual(s.Labels, want) {
		t.Fatalf("labels = %v, want %v", s.Labels, want)
	}
}

// TestActivate covers the single UI-level transition for a day cell.
func TestActivate(t *testing.T) {
	withEvents := Cell{Events: []event.Event{{Title: "x"}}}
	empty := Cell{}

	if got := Activate(withEvents, false); got != ActivateDayDetail {
		t.Errorf("cell with events -> %v, want day_detail", got)
	}
	if got := Activate(withEvents, true); got != ActivateDayDetail {
		t.Errorf("cell with events (logged in) -> %v, want day_detail", got)
	}
	if got := Activate(empty, true); got != ActivateNewEvent {
		t.Errorf("empty cell logged in -> %v, want new_event", got)
	}
	if got := Activate(empty, false); got != ActivateLoginRequired {
		t.Errorf("empty cell logged out -> %v, want login_required", got)
	}
}

func ids(evs []event.Event) []string {
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.ID
	}
	return out
}
