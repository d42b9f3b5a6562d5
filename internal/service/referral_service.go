package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// ReferralService executes ticket and introduction hand-overs: policy
// check, state transition, ordered persistence, notification.
type ReferralService struct {
	tickets        repository.TicketRepository
	referrals      repository.ReferralRepository
	users          repository.UserRepository
	introductions  repository.IntroductionRepository
	introReferrals repository.IntroductionReferralRepository
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	now            func() time.Time

	// introduction referral history is optional; once its table turns
	// out to be missing the feature stays off for the session.
	historyDisabled atomic.Bool
}

// ReferralDependencies bundles collaborators.
type ReferralDependencies struct {
	TicketRepo       repository.TicketRepository
	ReferralRepo     repository.ReferralRepository
	UserRepo         repository.UserRepository
	IntroductionRepo repository.IntroductionRepository
	IntroReferrals   repository.IntroductionReferralRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	Clock            func() time.Time
}

// BulkReferResult collects per-ticket outcomes of a bulk referral.
type BulkReferResult struct {
	Referred []int64
	Failures []BulkFailure
}

// NewReferralService constructs the service.
func NewReferralService(deps ReferralDependencies) *ReferralService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferralService{
		tickets:        deps.TicketRepo,
		referrals:      deps.ReferralRepo,
		users:          deps.UserRepo,
		introductions:  deps.IntroductionRepo,
		introReferrals: deps.IntroReferrals,
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		now:            clock,
	}
}

// EligibleTargets returns the users the actor may refer the given
// tickets to, applying the role/department policy against the current
// assignee set.
func (s *ReferralService) EligibleTargets(ctx context.Context, actor *domain.User, ticketIDs []int64) ([]domain.User, error) {
	assignees := make(map[string]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		ticket, err := s.getTicket(ctx, id)
		if err != nil {
			return nil, err
		}
		if ticket.AssignedTo != "" {
			assignees[ticket.AssignedTo] = struct{}{}
		}
	}
	allUsers, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return domain.EligibleReferralTargets(actor, allUsers, assignees), nil
}

// ReferTicket hands one ticket to the target user.
//
// The ticket mutation is persisted before the referral row is
// appended: if the second write fails, the observable state is "new
// assignee, missing history entry", never a history entry pointing at
// an unchanged ticket.
func (s *ReferralService) ReferTicket(ctx context.Context, actor *domain.User, ticketID int64, targetUsername string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	target, err := s.validateTarget(ctx, actor, targetUsername, map[string]struct{}{ticket.AssignedTo: {}})
	if err != nil {
		return nil, err
	}

	next, ok := domain.NextStatus(ticket.Status, domain.TicketEventRefer)
	if !ok {
		return nil, apperrors.NewValidationError(domain.ErrInvalidTransition.Error(), map[string]any{
			"status": ticket.Status,
			"event":  domain.TicketEventRefer,
		})
	}

	now := s.now()
	domain.CloseSessionForReferral(ticket)
	ticket.Status = next
	ticket.AssignedTo = target.Username
	ticket.UpdatedAt = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewTransientIO("could not save ticket", err)
	}

	referral := &domain.Referral{
		TicketID:   ticket.ID,
		ReferredBy: actor.Username,
		ReferredTo: target.Username,
		ReferredAt: now,
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		// The ticket hand-over already happened; surface the history
		// gap instead of pretending the referral did not occur.
		return ticket, apperrors.NewTransientIO("referral recorded without history entry", err)
	}

	s.publishTicket(ctx, events.EventTicketReferred, actor.Username, ticket)
	s.publishReferral(ctx, actor.Username, referral)
	return ticket, nil
}

// ReferTickets applies ReferTicket to each id, best effort. One
// failure does not block the remaining tickets.
func (s *ReferralService) ReferTickets(ctx context.Context, actor *domain.User, ticketIDs []int64, targetUsername string) BulkReferResult {
	var result BulkReferResult
	for _, id := range ticketIDs {
		if _, err := s.ReferTicket(ctx, actor, id, targetUsername); err != nil {
			result.Failures = append(result.Failures, BulkFailure{TicketID: id, Reason: err.Error()})
			continue
		}
		result.Referred = append(result.Referred, id)
	}
	return result
}

// ReferIntroduction hands a customer introduction to the target user.
// The history append degrades gracefully when its table is missing.
func (s *ReferralService) ReferIntroduction(ctx context.Context, actor *domain.User, introductionID int64, targetUsername string) (*domain.CustomerIntroduction, error) {
	intro, err := s.getIntroduction(ctx, introductionID)
	if err != nil {
		return nil, err
	}
	target, err := s.validateTarget(ctx, actor, targetUsername, map[string]struct{}{intro.AssignedTo: {}})
	if err != nil {
		return nil, err
	}

	now := s.now()
	intro.AssignedTo = target.Username
	if intro.Status == domain.IntroductionStatusNew {
		intro.Status = domain.IntroductionStatusInProgress
	}
	intro.UpdatedAt = now

	if err := s.introductions.Update(ctx, intro); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("introduction", map[string]any{"introduction_id": introductionID})
		}
		return nil, apperrors.NewTransientIO("could not save introduction", err)
	}

	s.appendIntroductionHistory(ctx, &domain.IntroductionReferral{
		IntroductionID: intro.ID,
		ReferredBy:     actor.Username,
		ReferredTo:     target.Username,
		ReferredAt:     now,
	})

	s.publishIntroduction(ctx, events.EventIntroductionReferred, actor.Username, intro)
	return intro, nil
}

// ListIntroductionReferrals returns the introduction's history, or an
// empty list when the history feature is degraded.
func (s *ReferralService) ListIntroductionReferrals(ctx context.Context, introductionID int64) ([]domain.IntroductionReferral, error) {
	if s.historyDisabled.Load() {
		return []domain.IntroductionReferral{}, nil
	}
	history, err := s.introReferrals.ListByIntroduction(ctx, introductionID)
	if err != nil {
		if apperrors.IsDegradedFeature(err) {
			s.disableHistory(err)
			return []domain.IntroductionReferral{}, nil
		}
		return nil, apperrors.MapError(err)
	}
	return history, nil
}

// HistoryEnabled reports whether introduction referral history is
// currently available.
func (s *ReferralService) HistoryEnabled() bool {
	return !s.historyDisabled.Load()
}

func (s *ReferralService) appendIntroductionHistory(ctx context.Context, referral *domain.IntroductionReferral) {
	if s.historyDisabled.Load() {
		return
	}
	if err := s.introReferrals.Create(ctx, referral); err != nil {
		if apperrors.IsDegradedFeature(err) {
			s.disableHistory(err)
			return
		}
		s.logger.Warn("introduction referral history append failed", zap.Error(err))
	}
}

func (s *ReferralService) disableHistory(err error) {
	if s.historyDisabled.CompareAndSwap(false, true) {
		s.logger.Warn("introduction referral history disabled for this session", zap.Error(err))
	}
}

// validateTarget resolves the target user and checks it against the
// eligibility policy. Rejections happen before any persistence call.
func (s *ReferralService) validateTarget(ctx context.Context, actor *domain.User, targetUsername string, assignees map[string]struct{}) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": targetUsername})
		}
		return nil, apperrors.MapError(err)
	}
	allUsers, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, eligible := range domain.EligibleReferralTargets(actor, allUsers, assignees) {
		if eligible.Username == target.Username {
			return target, nil
		}
	}
	return nil, apperrors.NewValidationError(domain.ErrIneligibleTarget.Error(), map[string]any{
		"actor":  actor.Username,
		"target": targetUsername,
	})
}

func (s *ReferralService) getTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *ReferralService) getIntroduction(ctx context.Context, id int64) (*domain.CustomerIntroduction, error) {
	intro, err := s.introductions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("introduction", map[string]any{"introduction_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return intro, nil
}

func (s *ReferralService) publishTicket(ctx context.Context, eventType events.EventType, actor string, ticket *domain.Ticket) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Table:     "tickets",
		Change:    events.ChangeUpdate,
		RecordID:  ticket.ID,
		Actor:     actor,
		Timestamp: s.now(),
		Record:    ticket,
	})
}

func (s *ReferralService) publishReferral(ctx context.Context, actor string, referral *domain.Referral) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventReferralCreated,
		Table:     "referrals",
		Change:    events.ChangeInsert,
		RecordID:  referral.ID,
		Actor:     actor,
		Timestamp: s.now(),
		Record:    referral,
	})
}

func (s *ReferralService) publishIntroduction(ctx context.Context, eventType events.EventType, actor string, intro *domain.CustomerIntroduction) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Table:     "customer_introductions",
		Change:    events.ChangeUpdate,
		RecordID:  intro.ID,
		Actor:     actor,
		Timestamp: s.now(),
		Record:    intro,
	})
}
