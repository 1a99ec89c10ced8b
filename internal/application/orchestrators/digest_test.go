package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hearth/internal/adapters/email"
	"hearth/internal/domain/event"
)

type mockDigestStore struct {
	from, to time.Time
	events   []event.Event
	err      error
}

func (m *mockDigestStore) ListRange(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	m.from, m.to = from, to
	return m.events, m.err
}

type mockSender struct {
	sent []email.SendRequest
	err  error
}

func (m *mockSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

func digestEvent(title, dateKey, start string) event.Event {
	d, _ := time.Parse(event.DateLayout, dateKey)
	return event.Event{
		ID: "e-" + title, Title: title, Date: d, StartTime: start,
		OwnerID: "u1", OwnerName: "Ana", OwnerColor: "#4A90D9",
	}
}

func TestExecuteSendWeekDigest(t *testing.T) {
	store := &mockDigestStore{events: []event.Event{
		digestEvent("Recycling", "2024-11-15", ""),
		digestEvent("Swimming", "2024-11-16", "16:00"),
	}}
	sender := &mockSender{}
	now := time.Date(2024, time.November, 15, 9, 30, 0, 0, time.UTC)

	err := ExecuteSendWeekDigest(context.Background(), now, []string{"family@example.com"}, WeekDigestDeps{EventStore: store, Sender: sender})
	if err != nil {
		t.Fatalf("ExecuteSendWeekDigest: %v", err)
	}

	wantFrom := time.Date(2024, time.November, 15, 0, 0, 0, 0, time.UTC)
	if !store.from.Equal(wantFrom) || !store.to.Equal(wantFrom.AddDate(0, 0, 7)) {
		t.Errorf("range = [%s, %s)", store.from, store.to)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.Subject != "This week on the family calendar" {
		t.Errorf("subject = %q", msg.Subject)
	}
	for _, want := range []string{"Friday, Nov 15", "Recycling", "4:00 PM Swimming", "#4A90D9", "Ana"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestExecuteSendWeekDigest_NoEventsSkips(t *testing.T) {
	sender := &mockSender{}
	now := time.Date(2024, time.November, 15, 9, 30, 0, 0, time.UTC)

	err := ExecuteSendWeekDigest(context.Background(), now, []string{"family@example.com"}, WeekDigestDeps{EventStore: &mockDigestStore{}, Sender: sender})
	if err != nil {
		t.Fatalf("ExecuteSendWeekDigest: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d emails for an empty week", len(sender.sent))
	}
}

func TestExecuteSendWeekDigest_NoRecipientsSkips(t *testing.T) {
	store := &mockDigestStore{events: []event.Event{digestEvent("Swimming", "2024-11-16", "")}}
	sender := &mockSender{}

	err := ExecuteSendWeekDigest(context.Background(), time.Now(), nil, WeekDigestDeps{EventStore: store, Sender: sender})
	if err != nil {
		t.Fatalf("ExecuteSendWeekDigest: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d emails with no recipients", len(sender.sent))
	}
}

func TestExecuteSendWeekDigest_SenderError(t *testing.T) {
	store := &mockDigestStore{events: []event.Event{digestEvent("Swimming", "2024-11-16", "")}}
	boom := errors.New("provider down")

	err := ExecuteSendWeekDigest(context.Background(), time.Now(), []string{"family@example.com"}, WeekDigestDeps{EventStore: store, Sender: &mockSender{err: boom}})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped sender error", err)
	}
}
