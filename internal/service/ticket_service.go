package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// TicketService coordinates ticket workflows: CRUD, the work-session
// toggle, the edit window, reopen and bulk complete.
type TicketService struct {
	tickets    repository.TicketRepository
	referrals  repository.ReferralRepository
	customers  repository.CustomerRepository
	contracts  repository.ContractRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	ReferralRepo repository.ReferralRepository
	CustomerRepo repository.CustomerRepository
	ContractRepo repository.ContractRepository
	Dispatcher   events.Dispatcher
	Clock        func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	CustomerID  int64
	Priority    domain.TicketPriority
	Type        string
	Channel     domain.TicketChannel
	AssignedTo  string
	Attachments []string
}

// TicketUpdateInput describes mutable ticket fields. Nil pointers
// leave the field untouched.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.TicketPriority
	Type        *string
	Channel     *domain.TicketChannel
	Attachments []string
}

// BulkFailure reports one failed item of a bulk operation.
type BulkFailure struct {
	TicketID int64
	Reason   string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		referrals:  deps.ReferralRepo,
		customers:  deps.CustomerRepo,
		contracts:  deps.ContractRepo,
		dispatcher: deps.Dispatcher,
		now:        clock,
	}
}

// CreateTicket creates a ticket in the NOT_STARTED state with a fresh
// edit window and a sequential human ticket number.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": input.CustomerID})
		}
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	lastID, err := s.tickets.LastID(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		TicketNumber:      fmt.Sprintf("T-%d-%04d", now.Year(), lastID+1),
		Title:             strings.TrimSpace(input.Title),
		Description:       strings.TrimSpace(input.Description),
		CustomerID:        customer.ID,
		Status:            domain.TicketStatusNotStarted,
		Priority:          input.Priority,
		Type:              input.Type,
		Channel:           input.Channel,
		AssignedTo:        input.AssignedTo,
		Attachments:       input.Attachments,
		EditableUntil:     now.Add(domain.EditWindow),
		TotalWorkDuration: 0,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	ticket.Score = s.scoreTicket(ctx, ticket, customer, now)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewTransientIO("could not save ticket", err)
	}
	s.publish(ctx, events.EventTicketCreated, events.ChangeInsert, actorName(actor), ticket.ID, ticket)
	return ticket, nil
}

// Now exposes the service clock for presentation of derived fields.
func (s *TicketService) Now() time.Time {
	return s.now()
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListTickets returns tickets matching the filter, ordered by score.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateTicket mutates ticket fields while the edit window is open.
// DONE tickets are never editable; reads are unaffected.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.User, id int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !domain.IsEditable(ticket, now) {
		return nil, apperrors.NewValidationError(domain.ErrNotEditable.Error(), map[string]any{
			"editable_until": ticket.EditableUntil,
		})
	}

	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.Type != nil {
		ticket.Type = *input.Type
	}
	if input.Channel != nil {
		ticket.Channel = *input.Channel
	}
	if input.Attachments != nil {
		ticket.Attachments = input.Attachments
	}
	ticket.UpdatedAt = now
	ticket.Score = s.scoreTicket(ctx, ticket, nil, now)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, s.mapUpdateError(err, id)
	}
	s.publish(ctx, events.EventTicketUpdated, events.ChangeUpdate, actorName(actor), ticket.ID, ticket)
	return ticket, nil
}

// ToggleWork starts or stops the ticket's work session. The
// status/session-start/duration triple is read, recomputed through the
// domain rules and written back as one unit.
func (s *TicketService) ToggleWork(ctx context.Context, actor *domain.User, id int64) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	if err := domain.ToggleWork(ticket, actor, s.now()); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"status": oldStatus})
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, s.mapUpdateError(err, id)
	}
	s.publish(ctx, events.EventWorkSessionToggled, events.ChangeUpdate, actorName(actor), ticket.ID, ticket)
	return ticket, nil
}

// CompleteTickets forces every listed ticket to DONE. Already-DONE
// tickets are skipped without error, making the bulk action idempotent
// even though a single toggle is not. In-flight session time on a
// running ticket is dropped, by design of the bulk action.
func (s *TicketService) CompleteTickets(ctx context.Context, actor *domain.User, ids []int64) ([]domain.Ticket, []BulkFailure) {
	completed := make([]domain.Ticket, 0, len(ids))
	var failures []BulkFailure
	now := s.now()

	for _, id := range ids {
		ticket, err := s.GetTicket(ctx, id)
		if err != nil {
			failures = append(failures, BulkFailure{TicketID: id, Reason: err.Error()})
			continue
		}
		if ticket.Status == domain.TicketStatusDone {
			completed = append(completed, *ticket)
			continue
		}
		if !domain.ForceComplete(ticket, now) {
			failures = append(failures, BulkFailure{TicketID: id, Reason: domain.ErrInvalidTransition.Error()})
			continue
		}
		if err := s.tickets.Update(ctx, ticket); err != nil {
			failures = append(failures, BulkFailure{TicketID: id, Reason: err.Error()})
			continue
		}
		s.publish(ctx, events.EventTicketStatusChanged, events.ChangeUpdate, actorName(actor), ticket.ID, ticket)
		completed = append(completed, *ticket)
	}
	s.publish(ctx, events.EventBulkTicketsCompleted, events.ChangeUpdate, actorName(actor), 0, nil)
	return completed, failures
}

// ReopenTicket resets a DONE ticket to NOT_STARTED. Manager only;
// accumulated work time and referral history survive.
func (s *TicketService) ReopenTicket(ctx context.Context, actor *domain.User, id int64) (*domain.Ticket, error) {
	if actor == nil || !actor.Role.IsManager() {
		return nil, apperrors.NewForbidden("only a manager may reopen a ticket")
	}
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Reopen(ticket, s.now()); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"status": ticket.Status})
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, s.mapUpdateError(err, id)
	}
	s.publish(ctx, events.EventTicketReopened, events.ChangeUpdate, actorName(actor), ticket.ID, ticket)
	return ticket, nil
}

// ExtendEditWindow resets the ticket's edit window to a full window
// from now. Manager only; the window is replaced, not added to.
func (s *TicketService) ExtendEditWindow(ctx context.Context, actor *domain.User, id int64) (*domain.Ticket, error) {
	if actor == nil || !actor.Role.IsManager() {
		return nil, apperrors.NewForbidden("only a manager may extend the edit window")
	}
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	domain.ExtendEditWindow(ticket, now)
	ticket.UpdatedAt = now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, s.mapUpdateError(err, id)
	}
	s.publish(ctx, events.EventEditWindowExtended, events.ChangeUpdate, actorName(actor), ticket.ID, ticket)
	return ticket, nil
}

// DeleteTickets removes tickets and, first, their referral history.
func (s *TicketService) DeleteTickets(ctx context.Context, actor *domain.User, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.referrals.DeleteByTickets(ctx, ids); err != nil {
		return apperrors.NewTransientIO("could not delete referral history", err)
	}
	if err := s.tickets.DeleteMany(ctx, ids); err != nil {
		return apperrors.NewTransientIO("could not delete tickets", err)
	}
	for _, id := range ids {
		s.publish(ctx, events.EventTicketDeleted, events.ChangeDelete, actorName(actor), id, nil)
	}
	return nil
}

// RescoreTickets recomputes the derived score for every ticket from
// current customer and contract context, persists changed values and
// returns the tickets in display order. Scoring is an explicit step,
// never a side effect of unrelated mutations.
func (s *TicketService) RescoreTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{Limit: 10000})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	now := s.now()
	for i := range tickets {
		ticket := &tickets[i]
		score := s.scoreTicket(ctx, ticket, nil, now)
		if score == ticket.Score {
			continue
		}
		ticket.Score = score
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, s.mapUpdateError(err, ticket.ID)
		}
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		if tickets[i].Score != tickets[j].Score {
			return tickets[i].Score > tickets[j].Score
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

// ListReferrals returns the ticket's referral history, newest first.
func (s *TicketService) ListReferrals(ctx context.Context, ticketID int64) ([]domain.Referral, error) {
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	referrals, err := s.referrals.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return referrals, nil
}

// scoreTicket resolves customer/contract context and applies the pure
// scoring function. A nil customer is loaded on demand; lookup
// failures fall back to priority-only scoring.
func (s *TicketService) scoreTicket(ctx context.Context, ticket *domain.Ticket, customer *domain.Customer, now time.Time) int {
	if customer == nil {
		loaded, err := s.customers.GetByID(ctx, ticket.CustomerID)
		if err == nil {
			customer = loaded
		}
	}
	var best *domain.SupportContract
	if customer != nil {
		contracts, err := s.contracts.ListByCustomer(ctx, customer.ID)
		if err == nil {
			best = pickContract(contracts, now)
		}
	}
	return domain.Score(ticket, customer, best, now)
}

// pickContract selects the strongest contract covering now.
func pickContract(contracts []domain.SupportContract, now time.Time) *domain.SupportContract {
	rank := map[domain.ContractLevel]int{
		domain.ContractLevelGold:   3,
		domain.ContractLevelSilver: 2,
		domain.ContractLevelBronze: 1,
	}
	var best *domain.SupportContract
	for i := range contracts {
		contract := &contracts[i]
		if !contract.Covers(now) {
			continue
		}
		if best == nil || rank[contract.Level] > rank[best.Level] {
			best = contract
		}
	}
	return best
}

func (s *TicketService) mapUpdateError(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return apperrors.NewTransientIO("could not save ticket", err)
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, change events.ChangeKind, actor string, recordID int64, record any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Table:     "tickets",
		Change:    change,
		RecordID:  recordID,
		Actor:     actor,
		Timestamp: s.now(),
		Record:    record,
	})
}

func actorName(actor *domain.User) string {
	if actor == nil {
		return ""
	}
	return actor.Username
}
