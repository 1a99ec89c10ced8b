// Package ics renders the family calendar as an iCalendar feed so the
// household's phone calendars can subscribe to it.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"hearth/internal/domain/event"
)

// CalendarName is the display name subscribing clients show for the feed.
const CalendarName = "Hearth Family Calendar"

// BuildFeed serializes events into an iCalendar document. Untimed events
// become all-day VEVENTs; timed events carry wall-clock times in loc. An
// event with a start but no end is given a one-hour duration, which is
// what subscribing clients assume anyway.
// PRE: loc is the household timezone
// POST: output contains one VEVENT per input event, UID = event id
func BuildFeed(events []event.Event, loc *time.Location, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//Hearth//Family Calendar//EN")
	cal.SetXWRCalName(CalendarName)
	cal.SetXWRTimezone(loc.String())

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now.UTC())
		ve.SetSummary(e.Title)
		if e.Notes != "" {
			ve.SetDescription(e.Notes)
		}
		if e.OwnerName != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, e.OwnerName)
		}

		if e.StartTime == "" {
			day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, loc)
			ve.SetAllDayStartAt(day)
			ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}

		start := atClock(e.Date, e.StartTime, loc)
		end := start.Add(time.Hour)
		if e.EndTime != "" {
			end = atClock(e.Date, e.EndTime, loc)
		}
		ve.SetStartAt(start)
		ve.SetEndAt(end)
	}

	return cal.Serialize()
}

// atClock anchors an "HH:MM" wall-clock time onto a calendar date in loc.
// The time string was validated at event creation, so a parse failure here
// would be a programming error; midnight is the harmless fallback.
func atClock(date time.Time, hhmm string, loc *time.Location) time.Time {
	t, err := time.Parse(event.TimeLayout, hhmm)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}
