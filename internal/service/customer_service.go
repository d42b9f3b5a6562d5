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

// CustomerService manages customer accounts.
type CustomerService struct {
	customers  repository.CustomerRepository
	contracts  repository.ContractRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// CustomerDependencies bundles collaborators.
type CustomerDependencies struct {
	CustomerRepo repository.CustomerRepository
	ContractRepo repository.ContractRepository
	Dispatcher   events.Dispatcher
	Clock        func() time.Time
}

// CustomerInput describes customer creation payload.
type CustomerInput struct {
	FirstName    string
	LastName     string
	CompanyName  string
	MobileNumber string
	Email        string
	Address      string
	SoftwareType string
	Level        domain.CustomerLevel
	Status       domain.CustomerStatus
}

// NewCustomerService constructs the service.
func NewCustomerService(deps CustomerDependencies) *CustomerService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &CustomerService{
		customers:  deps.CustomerRepo,
		contracts:  deps.ContractRepo,
		dispatcher: deps.Dispatcher,
		now:        clock,
	}
}

// CreateCustomer registers an account. Level defaults to D and status
// to ACTIVE when omitted.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor *domain.User, input CustomerInput) (*domain.Customer, error) {
	if strings.TrimSpace(input.FirstName) == "" && strings.TrimSpace(input.CompanyName) == "" {
		return nil, apperrors.NewValidationError("customer name or company required", nil)
	}
	customer := &domain.Customer{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		CompanyName:  strings.TrimSpace(input.CompanyName),
		MobileNumber: strings.TrimSpace(input.MobileNumber),
		Email:        strings.TrimSpace(input.Email),
		Address:      strings.TrimSpace(input.Address),
		SoftwareType: strings.TrimSpace(input.SoftwareType),
		Level:        input.Level,
		Status:       input.Status,
	}
	if customer.Level == "" {
		customer.Level = domain.CustomerLevelD
	}
	if customer.Status == "" {
		customer.Status = domain.CustomerStatusActive
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.NewTransientIO("could not create customer", err)
	}
	s.publish(ctx, events.ChangeInsert, actor.Username, customer)
	return customer, nil
}

// GetCustomer fetches one account.
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.get(ctx, id)
}

// ListCustomers pages through accounts.
func (s *CustomerService) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	list, err := s.customers.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UpdateCustomer overwrites the mutable fields of an account.
func (s *CustomerService) UpdateCustomer(ctx context.Context, actor *domain.User, id int64, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.FirstName = strings.TrimSpace(input.FirstName)
	customer.LastName = strings.TrimSpace(input.LastName)
	customer.CompanyName = strings.TrimSpace(input.CompanyName)
	customer.MobileNumber = strings.TrimSpace(input.MobileNumber)
	customer.Email = strings.TrimSpace(input.Email)
	customer.Address = strings.TrimSpace(input.Address)
	customer.SoftwareType = strings.TrimSpace(input.SoftwareType)
	if input.Level != "" {
		customer.Level = input.Level
	}
	if input.Status != "" {
		customer.Status = input.Status
	}
	customer.UpdatedAt = s.now()

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.ChangeUpdate, actor.Username, customer)
	return customer, nil
}

// DeleteCustomer removes an account.
func (s *CustomerService) DeleteCustomer(ctx context.Context, actor *domain.User, id int64) error {
	customer, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCustomerChanged,
			Table:     "customers",
			Change:    events.ChangeDelete,
			RecordID:  customer.ID,
			Actor:     actor.Username,
			Timestamp: s.now(),
		})
	}
	return nil
}

// ListContracts returns the support contracts of one customer.
func (s *CustomerService) ListContracts(ctx context.Context, customerID int64) ([]domain.SupportContract, error) {
	if _, err := s.get(ctx, customerID); err != nil {
		return nil, err
	}
	contracts, err := s.contracts.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return contracts, nil
}

func (s *CustomerService) get(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

func (s *CustomerService) publish(ctx context.Context, change events.ChangeKind, actor string, customer *domain.Customer) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCustomerChanged,
		Table:     "customers",
		Change:    change,
		RecordID:  customer.ID,
		Actor:     actor,
		Timestamp: s.now(),
		Record:    customer,
	})
}
