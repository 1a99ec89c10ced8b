package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	emailAdapter "hearth/internal/adapters/email"
	"hearth/internal/domain/event"
)

// EventStoreForDigest defines the store interface needed by the digest.
type EventStoreForDigest interface {
	ListRange(ctx context.Context, from, to time.Time) ([]event.Event, error)
}

// WeekDigestDeps holds dependencies for ExecuteSendWeekDigest.
type WeekDigestDeps struct {
	EventStore EventStoreForDigest
	Sender     emailAdapter.Sender
}

// ExecuteSendWeekDigest emails the coming seven days of family events to
// the configured recipients. A week with no events sends nothing.
// PRE: now reflects the household's timezone
// POST: at most one email is sent; failures are returned, never retried here
func ExecuteSendWeekDigest(ctx context.Context, now time.Time, recipients []string, deps WeekDigestDeps) error {
	if len(recipients) == 0 {
		return nil
	}

	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	events, err := deps.EventStore.ListRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if len(events) == 0 {
		slog.Info("digest_skipped", "reason", "no_events", "from", from.Format(event.DateLayout))
		return nil
	}

	subject := "This week on the family calendar"
	body := composeWeekDigest(events)
	_, err = deps.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      recipients,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}

	slog.Info("digest_sent", "events", len(events), "recipients", len(recipients))
	return nil
}

// composeWeekDigest renders the events grouped by day. The store returns
// them ordered by date then start time, so a single pass suffices.
func composeWeekDigest(events []event.Event) string {
	var b strings.Builder
	b.WriteString("<h2>This week</h2>")

	currentDay := ""
	for _, e := range events {
		if key := e.DateKey(); key != currentDay {
			if currentDay != "" {
				b.WriteString("</ul>")
			}
			currentDay = key
			b.WriteString("<h3>" + e.Date.Format("Monday, Jan 2") + "</h3><ul>")
		}
		b.WriteString(fmt.Sprintf(`<li><span style="color:%s">&#9679;</span> %s <em>(%s)</em></li>`,
			html.EscapeString(e.OwnerColor),
			html.EscapeString(e.Label()),
			html.EscapeString(e.OwnerName)))
	}
	b.WriteString("</ul>")
	return b.String()
}
