package domain

import (
	"testing"
	"time"
)

func TestIsEditableBoundary(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ticket := &Ticket{Status: TicketStatusNotStarted, EditableUntil: created.Add(EditWindow)}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just created", created, true},
		{"one second before deadline", created.Add(EditWindow - time.Second), true},
		{"exactly at deadline", created.Add(EditWindow), false},
		{"one second after deadline", created.Add(EditWindow + time.Second), false},
	}
	for _, tt := range tests {
		if got := IsEditable(ticket, tt.now); got != tt.want {
			t.Errorf("%s: IsEditable = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDoneNeverEditable(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ticket := &Ticket{Status: TicketStatusDone, EditableUntil: now.Add(time.Hour)}
	if IsEditable(ticket, now) {
		t.Fatal("DONE ticket must not be editable inside the window")
	}
}

func TestExtendEditWindowReplacesRemainingTime(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ticket := &Ticket{Status: TicketStatusNotStarted, EditableUntil: created.Add(EditWindow)}

	// Extend with 20 minutes still left: the result is a full window
	// from now, not remaining + window.
	now := created.Add(10 * time.Minute)
	got := ExtendEditWindow(ticket, now)
	want := now.Add(EditWindow)
	if !got.Equal(want) {
		t.Fatalf("EditableUntil = %v, want %v", got, want)
	}
}

func TestExtendEditWindowRevivesExpiredTicket(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ticket := &Ticket{Status: TicketStatusNotStarted, EditableUntil: created.Add(EditWindow)}

	now := created.Add(2 * time.Hour)
	if IsEditable(ticket, now) {
		t.Fatal("precondition: window should be expired")
	}
	ExtendEditWindow(ticket, now)
	if !IsEditable(ticket, now) {
		t.Fatal("extension should reopen an expired window")
	}
}

func TestEditCountdown(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ticket := &Ticket{EditableUntil: now.Add(5 * time.Minute)}

	if got := EditCountdown(ticket, now); got != 5*time.Minute {
		t.Fatalf("countdown = %v, want 5m", got)
	}
	if got := EditCountdown(ticket, now.Add(time.Hour)); got != 0 {
		t.Fatalf("expired countdown = %v, want 0", got)
	}
}
