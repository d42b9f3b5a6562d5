package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// IntroductionService manages sales leads from creation through
// conversion into customers.
type IntroductionService struct {
	introductions repository.IntroductionRepository
	customers     repository.CustomerRepository
	dispatcher    events.Dispatcher
	now           func() time.Time
}

// IntroductionDependencies bundles collaborators.
type IntroductionDependencies struct {
	IntroductionRepo repository.IntroductionRepository
	CustomerRepo     repository.CustomerRepository
	Dispatcher       events.Dispatcher
	Clock            func() time.Time
}

// IntroductionCreateInput describes a new lead.
type IntroductionCreateInput struct {
	AssignedTo    string
	ProspectName  string
	ProspectPhone string
	CompanyName   string
	Notes         string
}

// IntroductionUpdateInput carries mutable lead fields. Nil pointers
// leave the field untouched.
type IntroductionUpdateInput struct {
	AssignedTo    *string
	ProspectName  *string
	ProspectPhone *string
	CompanyName   *string
	Notes         *string
}

// ConvertInput supplies the customer fields that the lead does not
// carry on its own.
type ConvertInput struct {
	FirstName    string
	LastName     string
	MobileNumber string
	Email        string
	Address      string
	SoftwareType string
	Level        domain.CustomerLevel
}

// NewIntroductionService constructs the service.
func NewIntroductionService(deps IntroductionDependencies) *IntroductionService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &IntroductionService{
		introductions: deps.IntroductionRepo,
		customers:     deps.CustomerRepo,
		dispatcher:    deps.Dispatcher,
		now:           clock,
	}
}

// CreateIntroduction registers a new lead in the NEW status, assigned
// to the given user or, absent one, to the actor.
func (s *IntroductionService) CreateIntroduction(ctx context.Context, actor *domain.User, input IntroductionCreateInput) (*domain.CustomerIntroduction, error) {
	if strings.TrimSpace(input.ProspectName) == "" {
		return nil, apperrors.NewValidationError("prospect name required", nil)
	}
	assignee := input.AssignedTo
	if assignee == "" {
		assignee = actor.Username
	}
	intro := &domain.CustomerIntroduction{
		IntroducedBy:  actor.Username,
		AssignedTo:    assignee,
		Status:        domain.IntroductionStatusNew,
		ProspectName:  strings.TrimSpace(input.ProspectName),
		ProspectPhone: strings.TrimSpace(input.ProspectPhone),
		CompanyName:   strings.TrimSpace(input.CompanyName),
		Notes:         input.Notes,
	}
	if err := s.introductions.Create(ctx, intro); err != nil {
		return nil, apperrors.NewTransientIO("could not create introduction", err)
	}
	s.publish(ctx, events.EventIntroductionCreated, events.ChangeInsert, actor.Username, intro)
	return intro, nil
}

// GetIntroduction fetches one lead.
func (s *IntroductionService) GetIntroduction(ctx context.Context, id int64) (*domain.CustomerIntroduction, error) {
	return s.get(ctx, id)
}

// ListIntroductions pages through leads, newest first.
func (s *IntroductionService) ListIntroductions(ctx context.Context, limit, offset int) ([]domain.CustomerIntroduction, error) {
	list, err := s.introductions.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UpdateIntroduction edits lead details. Won and lost leads are
// settled and reject further edits.
func (s *IntroductionService) UpdateIntroduction(ctx context.Context, actor *domain.User, id int64, input IntroductionUpdateInput) (*domain.CustomerIntroduction, error) {
	intro, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if intro.Status == domain.IntroductionStatusWon || intro.Status == domain.IntroductionStatusLost {
		return nil, apperrors.NewValidationError("introduction already settled", map[string]any{"status": intro.Status})
	}

	if input.AssignedTo != nil {
		intro.AssignedTo = *input.AssignedTo
	}
	if input.ProspectName != nil {
		intro.ProspectName = strings.TrimSpace(*input.ProspectName)
	}
	if input.ProspectPhone != nil {
		intro.ProspectPhone = strings.TrimSpace(*input.ProspectPhone)
	}
	if input.CompanyName != nil {
		intro.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.Notes != nil {
		intro.Notes = *input.Notes
	}
	intro.UpdatedAt = s.now()

	if err := s.introductions.Update(ctx, intro); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventIntroductionUpdated, events.ChangeUpdate, actor.Username, intro)
	return intro, nil
}

// StartIntroduction moves a NEW lead into IN_PROGRESS.
func (s *IntroductionService) StartIntroduction(ctx context.Context, actor *domain.User, id int64) (*domain.CustomerIntroduction, error) {
	return s.changeStatus(ctx, actor, id, domain.IntroductionStatusNew, domain.IntroductionStatusInProgress)
}

// LoseIntroduction settles a lead as LOST.
func (s *IntroductionService) LoseIntroduction(ctx context.Context, actor *domain.User, id int64) (*domain.CustomerIntroduction, error) {
	intro, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if intro.Status == domain.IntroductionStatusWon || intro.Status == domain.IntroductionStatusLost {
		return nil, apperrors.NewValidationError("introduction already settled", map[string]any{"status": intro.Status})
	}
	intro.Status = domain.IntroductionStatusLost
	intro.UpdatedAt = s.now()
	if err := s.introductions.Update(ctx, intro); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventIntroductionUpdated, events.ChangeUpdate, actor.Username, intro)
	return intro, nil
}

// ConvertIntroduction wins the lead: a customer record is created from
// it and linked back, then the lead is marked WON. The customer write
// happens first so a failure leaves the lead open for retry.
func (s *IntroductionService) ConvertIntroduction(ctx context.Context, actor *domain.User, id int64, input ConvertInput) (*domain.CustomerIntroduction, *domain.Customer, error) {
	intro, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if intro.Status == domain.IntroductionStatusWon {
		return nil, nil, apperrors.NewConflict("introduction already converted", map[string]any{"customer_id": intro.CustomerID})
	}
	if intro.Status == domain.IntroductionStatusLost {
		return nil, nil, apperrors.NewValidationError("lost introduction cannot be converted", nil)
	}

	level := input.Level
	if level == "" {
		level = domain.CustomerLevelD
	}
	customer := &domain.Customer{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		CompanyName:  intro.CompanyName,
		MobileNumber: firstNonEmpty(strings.TrimSpace(input.MobileNumber), intro.ProspectPhone),
		Email:        strings.TrimSpace(input.Email),
		Address:      strings.TrimSpace(input.Address),
		SoftwareType: strings.TrimSpace(input.SoftwareType),
		Level:        level,
		Status:       domain.CustomerStatusActive,
	}
	if customer.FirstName == "" && customer.LastName == "" {
		customer.FirstName = intro.ProspectName
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, nil, apperrors.NewTransientIO("could not create customer", err)
	}

	intro.Status = domain.IntroductionStatusWon
	intro.CustomerID = &customer.ID
	intro.UpdatedAt = s.now()
	if err := s.introductions.Update(ctx, intro); err != nil {
		return nil, customer, apperrors.NewTransientIO("customer created but introduction not settled", err)
	}

	s.publish(ctx, events.EventIntroductionConverted, events.ChangeUpdate, actor.Username, intro)
	s.publishCustomer(ctx, actor.Username, customer)
	return intro, customer, nil
}

// DeleteIntroduction removes a lead.
func (s *IntroductionService) DeleteIntroduction(ctx context.Context, actor *domain.User, id int64) error {
	intro, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.introductions.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventIntroductionUpdated,
			Table:     "customer_introductions",
			Change:    events.ChangeDelete,
			RecordID:  intro.ID,
			Actor:     actor.Username,
			Timestamp: s.now(),
		})
	}
	return nil
}

func (s *IntroductionService) changeStatus(ctx context.Context, actor *domain.User, id int64, from, to domain.IntroductionStatus) (*domain.CustomerIntroduction, error) {
	intro, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if intro.Status != from {
		return nil, apperrors.NewValidationError("invalid introduction status change", map[string]any{
			"status": intro.Status,
			"target": to,
		})
	}
	intro.Status = to
	intro.UpdatedAt = s.now()
	if err := s.introductions.Update(ctx, intro); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventIntroductionUpdated, events.ChangeUpdate, actor.Username, intro)
	return intro, nil
}

func (s *IntroductionService) get(ctx context.Context, id int64) (*domain.CustomerIntroduction, error) {
	intro, err := s.introductions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("introduction", map[string]any{"introduction_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return intro, nil
}

func (s *IntroductionService) publish(ctx context.Context, eventType events.EventType, change events.ChangeKind, actor string, intro *domain.CustomerIntroduction) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Table:     "customer_introductions",
		Change:    change,
		RecordID:  intro.ID,
		Actor:     actor,
		Timestamp: s.now(),
		Record:    intro,
	})
}

func (s *IntroductionService) publishCustomer(ctx context.Context, actor string, customer *domain.Customer) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCustomerChanged,
		Table:     "customers",
		Change:    events.ChangeInsert,
		RecordID:  customer.ID,
		Actor:     actor,
		Timestamp: s.now(),
		Record:    customer,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
