package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

var testClock = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTicketFixture(t *testing.T) (*TicketService, *fakeTicketRepo, *fakeCustomerRepo, *time.Time) {
	t.Helper()
	now := testClock
	tickets := newFakeTicketRepo()
	customers := newFakeCustomerRepo()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		ReferralRepo: &fakeReferralRepo{},
		CustomerRepo: customers,
		ContractRepo: &fakeContractRepo{},
		Clock:        func() time.Time { return now },
	})
	return svc, tickets, customers, &now
}

func seedCustomer(t *testing.T, customers *fakeCustomerRepo) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{FirstName: "Acme", Level: domain.CustomerLevelB, Status: domain.CustomerStatusActive}
	if err := customers.Create(context.Background(), customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func manager() *domain.User {
	return &domain.User{ID: 1, Username: "boss", Role: domain.ParseRole("manager")}
}

func TestCreateTicketNumberAndWindow(t *testing.T) {
	svc, _, customers, _ := newTicketFixture(t)
	customer := seedCustomer(t, customers)

	ticket, err := svc.CreateTicket(context.Background(), manager(), TicketCreateInput{
		Title:      "printer down",
		CustomerID: customer.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.TicketNumber != "T-2025-0001" {
		t.Errorf("ticket number = %s, want T-2025-0001", ticket.TicketNumber)
	}
	if ticket.Status != domain.TicketStatusNotStarted {
		t.Errorf("status = %s, want NOT_STARTED", ticket.Status)
	}
	if !ticket.EditableUntil.Equal(testClock.Add(domain.EditWindow)) {
		t.Errorf("editable until = %v", ticket.EditableUntil)
	}

	second, err := svc.CreateTicket(context.Background(), manager(), TicketCreateInput{
		Title:      "printer still down",
		CustomerID: customer.ID,
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.TicketNumber != "T-2025-0002" {
		t.Errorf("second ticket number = %s, want T-2025-0002", second.TicketNumber)
	}
}

func TestUpdateTicketRespectsEditWindow(t *testing.T) {
	svc, _, customers, now := newTicketFixture(t)
	customer := seedCustomer(t, customers)

	ticket, err := svc.CreateTicket(context.Background(), manager(), TicketCreateInput{
		Title:      "before",
		CustomerID: customer.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "after"
	if _, err := svc.UpdateTicket(context.Background(), manager(), ticket.ID, TicketUpdateInput{Title: &title}); err != nil {
		t.Fatalf("update inside window: %v", err)
	}

	*now = now.Add(domain.EditWindow + time.Minute)
	if _, err := svc.UpdateTicket(context.Background(), manager(), ticket.ID, TicketUpdateInput{Title: &title}); err == nil {
		t.Fatal("update outside window should fail")
	}

	// Reads stay unaffected by the closed window.
	got, err := svc.GetTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if got.Title != "after" {
		t.Errorf("title = %s, want after", got.Title)
	}
}

func TestToggleWorkAccumulates(t *testing.T) {
	svc, _, customers, now := newTicketFixture(t)
	customer := seedCustomer(t, customers)
	actor := manager()

	ticket, _ := svc.CreateTicket(context.Background(), actor, TicketCreateInput{Title: "job", CustomerID: customer.ID})

	if _, err := svc.ToggleWork(context.Background(), actor, ticket.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	*now = now.Add(125 * time.Second)
	stopped, err := svc.ToggleWork(context.Background(), actor, ticket.ID)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.TotalWorkDuration != 125 {
		t.Errorf("duration = %d, want 125", stopped.TotalWorkDuration)
	}
	if stopped.Status != domain.TicketStatusDone {
		t.Errorf("status = %s, want DONE", stopped.Status)
	}

	if _, err := svc.ToggleWork(context.Background(), actor, ticket.ID); err == nil {
		t.Fatal("toggle on DONE should fail")
	}
}

func TestCompleteTicketsIsIdempotent(t *testing.T) {
	svc, _, customers, _ := newTicketFixture(t)
	customer := seedCustomer(t, customers)
	actor := manager()

	a, _ := svc.CreateTicket(context.Background(), actor, TicketCreateInput{Title: "a", CustomerID: customer.ID})
	b, _ := svc.CreateTicket(context.Background(), actor, TicketCreateInput{Title: "b", CustomerID: customer.ID})

	ids := []int64{a.ID, b.ID}
	completed, failures := svc.CompleteTickets(context.Background(), actor, ids)
	if len(failures) != 0 {
		t.Fatalf("first pass failures: %v", failures)
	}
	if len(completed) != 2 {
		t.Fatalf("completed %d, want 2", len(completed))
	}

	completed, failures = svc.CompleteTickets(context.Background(), actor, ids)
	if len(failures) != 0 {
		t.Fatalf("second pass failures: %v", failures)
	}
	if len(completed) != 2 {
		t.Fatalf("second pass completed %d, want 2 (already-done skipped without error)", len(completed))
	}
}

func TestCompleteTicketsReportsMissing(t *testing.T) {
	svc, _, customers, _ := newTicketFixture(t)
	customer := seedCustomer(t, customers)
	actor := manager()

	a, _ := svc.CreateTicket(context.Background(), actor, TicketCreateInput{Title: "a", CustomerID: customer.ID})

	completed, failures := svc.CompleteTickets(context.Background(), actor, []int64{a.ID, 999})
	if len(completed) != 1 {
		t.Fatalf("completed %d, want 1", len(completed))
	}
	if len(failures) != 1 || failures[0].TicketID != 999 {
		t.Fatalf("failures = %v, want one for id 999", failures)
	}
}

func TestReopenIsManagerOnly(t *testing.T) {
	svc, _, customers, _ := newTicketFixture(t)
	customer := seedCustomer(t, customers)
	actor := manager()

	ticket, _ := svc.CreateTicket(context.Background(), actor, TicketCreateInput{Title: "a", CustomerID: customer.ID})
	svc.CompleteTickets(context.Background(), actor, []int64{ticket.ID})

	specialist := &domain.User{ID: 2, Username: "spec", Role: domain.ParseRole("specialist of sales")}
	if _, err := svc.ReopenTicket(context.Background(), specialist, ticket.ID); err == nil {
		t.Fatal("specialist must not reopen")
	}

	reopened, err := svc.ReopenTicket(context.Background(), actor, ticket.ID)
	if err != nil {
		t.Fatalf("manager reopen: %v", err)
	}
	if reopened.Status != domain.TicketStatusNotStarted {
		t.Errorf("status = %s, want NOT_STARTED", reopened.Status)
	}
}

func TestExtendEditWindowResetsFromNow(t *testing.T) {
	svc, _, customers, now := newTicketFixture(t)
	customer := seedCustomer(t, customers)
	actor := manager()

	ticket, _ := svc.CreateTicket(context.Background(), actor, TicketCreateInput{Title: "a", CustomerID: customer.ID})

	*now = now.Add(45 * time.Minute)
	extended, err := svc.ExtendEditWindow(context.Background(), actor, ticket.ID)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if !extended.EditableUntil.Equal(now.Add(domain.EditWindow)) {
		t.Errorf("editable until = %v, want full window from now", extended.EditableUntil)
	}
}

func TestDeleteTicketsRemovesReferralHistoryFirst(t *testing.T) {
	now := testClock
	tickets := newFakeTicketRepo()
	referrals := &fakeReferralRepo{}
	customers := newFakeCustomerRepo()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		ReferralRepo: referrals,
		CustomerRepo: customers,
		ContractRepo: &fakeContractRepo{},
		Clock:        func() time.Time { return now },
	})
	customer := seedCustomer(t, customers)
	actor := manager()

	ticket, _ := svc.CreateTicket(context.Background(), actor, TicketCreateInput{Title: "a", CustomerID: customer.ID})
	_ = referrals.Create(context.Background(), &domain.Referral{TicketID: ticket.ID, ReferredBy: "x", ReferredTo: "y", ReferredAt: now})

	if err := svc.DeleteTickets(context.Background(), actor, []int64{ticket.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(referrals.referrals) != 0 {
		t.Error("referral history should be removed with the ticket")
	}
	if _, err := svc.GetTicket(context.Background(), ticket.ID); err == nil {
		t.Error("ticket should be gone")
	}
}
