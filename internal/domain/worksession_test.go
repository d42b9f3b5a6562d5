package domain

import (
	"errors"
	"testing"
	"time"
)

var sessionBase = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func specialist(name string) *User {
	return &User{Username: name, Role: ParseRole("specialist of support")}
}

func TestToggleWorkStartStop(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusNotStarted, AssignedTo: "alice"}
	actor := specialist("alice")

	if err := ToggleWork(ticket, actor, sessionBase); err != nil {
		t.Fatalf("start: %v", err)
	}
	if ticket.Status != TicketStatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", ticket.Status)
	}
	if ticket.WorkSessionStartedAt == nil || !ticket.WorkSessionStartedAt.Equal(sessionBase) {
		t.Fatal("session start not recorded")
	}

	stop := sessionBase.Add(125 * time.Second)
	if err := ToggleWork(ticket, actor, stop); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if ticket.Status != TicketStatusDone {
		t.Fatalf("status = %s, want DONE", ticket.Status)
	}
	if ticket.WorkSessionStartedAt != nil {
		t.Fatal("session start should be cleared on stop")
	}
	if ticket.TotalWorkDuration != 125 {
		t.Fatalf("duration = %d, want 125", ticket.TotalWorkDuration)
	}
}

func TestToggleWorkFloorsSubsecondElapsed(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusNotStarted}
	actor := specialist("alice")

	_ = ToggleWork(ticket, actor, sessionBase)
	if err := ToggleWork(ticket, actor, sessionBase.Add(90*time.Second+900*time.Millisecond)); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if ticket.TotalWorkDuration != 90 {
		t.Fatalf("duration = %d, want floored 90", ticket.TotalWorkDuration)
	}
}

func TestToggleWorkAccumulatesAcrossSessions(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusNotStarted}
	actor := specialist("alice")

	_ = ToggleWork(ticket, actor, sessionBase)
	_ = ToggleWork(ticket, actor, sessionBase.Add(60*time.Second))
	if err := Reopen(ticket, sessionBase.Add(time.Hour)); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = ToggleWork(ticket, actor, sessionBase.Add(2*time.Hour))
	_ = ToggleWork(ticket, actor, sessionBase.Add(2*time.Hour+40*time.Second))

	if ticket.TotalWorkDuration != 100 {
		t.Fatalf("duration = %d, want 100", ticket.TotalWorkDuration)
	}
}

func TestToggleWorkOnDoneRejected(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusDone, TotalWorkDuration: 50}
	err := ToggleWork(ticket, specialist("alice"), sessionBase)
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
	if ticket.TotalWorkDuration != 50 {
		t.Fatal("duration must not change on rejected toggle")
	}
}

func TestReferredTicketOnlyAssigneeMayStart(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusReferred, AssignedTo: "bob"}

	if err := ToggleWork(ticket, specialist("alice"), sessionBase); !errors.Is(err, ErrTicketReferred) {
		t.Fatalf("non-assignee err = %v, want ErrTicketReferred", err)
	}
	if ticket.Status != TicketStatusReferred {
		t.Fatal("rejected toggle must not change status")
	}

	if err := ToggleWork(ticket, specialist("bob"), sessionBase); err != nil {
		t.Fatalf("assignee start: %v", err)
	}
	if ticket.Status != TicketStatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", ticket.Status)
	}
}

func TestCloseSessionForReferralDiscardsElapsed(t *testing.T) {
	started := sessionBase
	ticket := &Ticket{
		Status:               TicketStatusInProgress,
		WorkSessionStartedAt: &started,
		TotalWorkDuration:    10,
	}
	CloseSessionForReferral(ticket)
	if ticket.WorkSessionStartedAt != nil {
		t.Fatal("session start should be cleared")
	}
	if ticket.TotalWorkDuration != 10 {
		t.Fatalf("duration = %d, in-flight time must be discarded not banked", ticket.TotalWorkDuration)
	}
}

func TestForceComplete(t *testing.T) {
	started := sessionBase
	ticket := &Ticket{Status: TicketStatusInProgress, WorkSessionStartedAt: &started, TotalWorkDuration: 30}

	if !ForceComplete(ticket, sessionBase.Add(time.Minute)) {
		t.Fatal("force complete should succeed from IN_PROGRESS")
	}
	if ticket.Status != TicketStatusDone || ticket.WorkSessionStartedAt != nil {
		t.Fatal("force complete must land on DONE with no open session")
	}
	if ticket.TotalWorkDuration != 30 {
		t.Fatal("force complete must not bank in-flight time")
	}

	if ForceComplete(ticket, sessionBase.Add(2*time.Minute)) {
		t.Fatal("force complete on DONE must report false")
	}
}

func TestReopenPreservesDuration(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusDone, TotalWorkDuration: 77}
	if err := Reopen(ticket, sessionBase); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if ticket.Status != TicketStatusNotStarted {
		t.Fatalf("status = %s, want NOT_STARTED", ticket.Status)
	}
	if ticket.TotalWorkDuration != 77 {
		t.Fatal("reopen must preserve accumulated duration")
	}
}

func TestReopenFromOpenStatusRejected(t *testing.T) {
	for _, status := range []TicketStatus{TicketStatusNotStarted, TicketStatusInProgress, TicketStatusReferred} {
		ticket := &Ticket{Status: status}
		if err := Reopen(ticket, sessionBase); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("reopen from %s: err = %v, want ErrInvalidTransition", status, err)
		}
	}
}
