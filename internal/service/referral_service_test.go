package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

type referralFixture struct {
	svc       *ReferralService
	tickets   *fakeTicketRepo
	referrals *fakeReferralRepo
	users     *fakeUserRepo
	intros    *fakeIntroductionRepo
	history   *fakeIntroReferralRepo
	now       time.Time
}

func newReferralFixture(t *testing.T) *referralFixture {
	t.Helper()
	f := &referralFixture{
		tickets:   newFakeTicketRepo(),
		referrals: &fakeReferralRepo{},
		users:     &fakeUserRepo{},
		intros:    newFakeIntroductionRepo(),
		history:   &fakeIntroReferralRepo{},
		now:       testClock,
	}
	for _, seed := range []struct{ username, role string }{
		{"boss", "manager"},
		{"lead_sales", "lead of sales"},
		{"spec_sales", "specialist of sales"},
		{"spec_sale2", "specialist of sales"},
		{"spec_supp", "specialist of support"},
	} {
		_ = f.users.Create(context.Background(), &domain.User{
			Username: seed.username,
			Role:     domain.ParseRole(seed.role),
		})
	}
	f.svc = NewReferralService(ReferralDependencies{
		TicketRepo:       f.tickets,
		ReferralRepo:     f.referrals,
		UserRepo:         f.users,
		IntroductionRepo: f.intros,
		IntroReferrals:   f.history,
		Clock:            func() time.Time { return f.now },
	})
	return f
}

func (f *referralFixture) user(username string) *domain.User {
	u, _ := f.users.GetByUsername(context.Background(), username)
	return u
}

func (f *referralFixture) seedTicket(t *testing.T, status domain.TicketStatus, assignee string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Title:      "job",
		Status:     status,
		AssignedTo: assignee,
	}
	if err := f.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return ticket
}

func TestReferTicketHappyPath(t *testing.T) {
	f := newReferralFixture(t)
	ticket := f.seedTicket(t, domain.TicketStatusNotStarted, "spec_sales")

	got, err := f.svc.ReferTicket(context.Background(), f.user("spec_sales"), ticket.ID, "spec_sale2")
	if err != nil {
		t.Fatalf("refer: %v", err)
	}
	if got.Status != domain.TicketStatusReferred {
		t.Errorf("status = %s, want REFERRED", got.Status)
	}
	if got.AssignedTo != "spec_sale2" {
		t.Errorf("assignee = %s, want spec_sale2", got.AssignedTo)
	}
	if len(f.referrals.referrals) != 1 {
		t.Fatalf("referral rows = %d, want 1", len(f.referrals.referrals))
	}
	row := f.referrals.referrals[0]
	if row.ReferredBy != "spec_sales" || row.ReferredTo != "spec_sale2" {
		t.Errorf("row = %+v", row)
	}
}

func TestReferTicketClearsRunningSession(t *testing.T) {
	f := newReferralFixture(t)
	started := f.now.Add(-10 * time.Minute)
	ticket := &domain.Ticket{
		Title:                "job",
		Status:               domain.TicketStatusInProgress,
		AssignedTo:           "spec_sales",
		WorkSessionStartedAt: &started,
		TotalWorkDuration:    40,
	}
	_ = f.tickets.Create(context.Background(), ticket)

	got, err := f.svc.ReferTicket(context.Background(), f.user("spec_sales"), ticket.ID, "lead_sales")
	if err != nil {
		t.Fatalf("refer: %v", err)
	}
	if got.WorkSessionStartedAt != nil {
		t.Error("open session should be cleared by the hand-over")
	}
	if got.TotalWorkDuration != 40 {
		t.Errorf("duration = %d, in-flight time must be discarded", got.TotalWorkDuration)
	}
}

func TestReferTicketRejectsIneligibleTarget(t *testing.T) {
	f := newReferralFixture(t)
	ticket := f.seedTicket(t, domain.TicketStatusNotStarted, "spec_sales")

	// Cross-department specialist.
	if _, err := f.svc.ReferTicket(context.Background(), f.user("spec_sales"), ticket.ID, "spec_supp"); err == nil {
		t.Fatal("cross-department referral should fail")
	}
	// Manager cannot target a specialist directly.
	if _, err := f.svc.ReferTicket(context.Background(), f.user("boss"), ticket.ID, "spec_sale2"); err == nil {
		t.Fatal("manager to specialist referral should fail")
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.Status != domain.TicketStatusNotStarted || stored.AssignedTo != "spec_sales" {
		t.Error("rejected referral must not mutate the ticket")
	}
	if len(f.referrals.referrals) != 0 {
		t.Error("rejected referral must not write history")
	}
}

func TestReferTicketRejectsCurrentAssignee(t *testing.T) {
	f := newReferralFixture(t)
	ticket := f.seedTicket(t, domain.TicketStatusNotStarted, "spec_sale2")

	if _, err := f.svc.ReferTicket(context.Background(), f.user("spec_sales"), ticket.ID, "spec_sale2"); err == nil {
		t.Fatal("referring to the current assignee should fail")
	}
}

func TestReferTicketRejectsDone(t *testing.T) {
	f := newReferralFixture(t)
	ticket := f.seedTicket(t, domain.TicketStatusDone, "spec_sales")

	if _, err := f.svc.ReferTicket(context.Background(), f.user("spec_sales"), ticket.ID, "spec_sale2"); err == nil {
		t.Fatal("referring a DONE ticket should fail")
	}
}

func TestReferTicketHistoryFailureKeepsTicketUpdate(t *testing.T) {
	f := newReferralFixture(t)
	ticket := f.seedTicket(t, domain.TicketStatusNotStarted, "spec_sales")
	f.referrals.createErr = errors.New("disk full")

	got, err := f.svc.ReferTicket(context.Background(), f.user("spec_sales"), ticket.ID, "spec_sale2")
	if err == nil {
		t.Fatal("history write failure should surface an error")
	}
	if got == nil || got.Status != domain.TicketStatusReferred {
		t.Fatal("ticket hand-over should stand even when history fails")
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.Status != domain.TicketStatusReferred || stored.AssignedTo != "spec_sale2" {
		t.Error("persisted ticket should reflect the hand-over")
	}
	if len(f.referrals.referrals) != 0 {
		t.Error("no history row should exist")
	}
}

func TestReferTicketsBestEffort(t *testing.T) {
	f := newReferralFixture(t)
	open := f.seedTicket(t, domain.TicketStatusNotStarted, "spec_sales")
	done := f.seedTicket(t, domain.TicketStatusDone, "spec_sales")

	result := f.svc.ReferTickets(context.Background(), f.user("spec_sales"), []int64{open.ID, done.ID}, "spec_sale2")
	if len(result.Referred) != 1 || result.Referred[0] != open.ID {
		t.Errorf("referred = %v, want just %d", result.Referred, open.ID)
	}
	if len(result.Failures) != 1 || result.Failures[0].TicketID != done.ID {
		t.Errorf("failures = %v, want just %d", result.Failures, done.ID)
	}
}

func TestEligibleTargetsExcludesAssignees(t *testing.T) {
	f := newReferralFixture(t)
	ticket := f.seedTicket(t, domain.TicketStatusNotStarted, "spec_sale2")

	targets, err := f.svc.EligibleTargets(context.Background(), f.user("spec_sales"), []int64{ticket.ID})
	if err != nil {
		t.Fatalf("eligible targets: %v", err)
	}
	for _, target := range targets {
		if target.Username == "spec_sale2" {
			t.Error("current assignee must not be offered as a target")
		}
		if target.Username == "spec_sales" {
			t.Error("actor must not be offered as a target")
		}
	}
}

func TestReferIntroduction(t *testing.T) {
	f := newReferralFixture(t)
	intro := &domain.CustomerIntroduction{
		IntroducedBy: "spec_sales",
		AssignedTo:   "spec_sales",
		Status:       domain.IntroductionStatusNew,
		ProspectName: "Globex",
	}
	_ = f.intros.Create(context.Background(), intro)

	got, err := f.svc.ReferIntroduction(context.Background(), f.user("spec_sales"), intro.ID, "spec_sale2")
	if err != nil {
		t.Fatalf("refer introduction: %v", err)
	}
	if got.AssignedTo != "spec_sale2" {
		t.Errorf("assignee = %s, want spec_sale2", got.AssignedTo)
	}
	if got.Status != domain.IntroductionStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", got.Status)
	}
	if len(f.history.referrals) != 1 {
		t.Fatalf("history rows = %d, want 1", len(f.history.referrals))
	}
}

func TestIntroductionHistoryDegradesWhenTableMissing(t *testing.T) {
	f := newReferralFixture(t)
	f.history.tableMissing = true
	intro := &domain.CustomerIntroduction{
		IntroducedBy: "spec_sales",
		AssignedTo:   "spec_sales",
		Status:       domain.IntroductionStatusNew,
		ProspectName: "Globex",
	}
	_ = f.intros.Create(context.Background(), intro)

	// The hand-over itself must succeed despite the missing table.
	got, err := f.svc.ReferIntroduction(context.Background(), f.user("spec_sales"), intro.ID, "spec_sale2")
	if err != nil {
		t.Fatalf("refer with missing history table: %v", err)
	}
	if got.AssignedTo != "spec_sale2" {
		t.Errorf("assignee = %s, want spec_sale2", got.AssignedTo)
	}
	if f.svc.HistoryEnabled() {
		t.Error("history feature should be disabled after the first failure")
	}

	// Listing reports empty history rather than an error.
	history, err := f.svc.ListIntroductionReferrals(context.Background(), intro.ID)
	if err != nil {
		t.Fatalf("list degraded history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("degraded history = %v, want empty", history)
	}
}
