package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/pkg/util"
)

type fakeTicketRepo struct {
	tickets   map[int64]domain.Ticket
	nextID    int64
	updateErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	r.nextID++
	t.ID = r.nextID
	r.tickets[t.ID] = *t
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, t *domain.Ticket) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.tickets[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.tickets[t.ID] = *t
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) DeleteMany(_ context.Context, ids []int64) error {
	for _, id := range ids {
		delete(r.tickets, id)
	}
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := t
	return &copied, nil
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for _, t := range r.tickets {
		if t.TicketNumber == number {
			copied := t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTicketRepo) LastID(context.Context) (int64, error) {
	return r.nextID, nil
}

type fakeReferralRepo struct {
	referrals []domain.Referral
	createErr error
}

func (r *fakeReferralRepo) Create(_ context.Context, referral *domain.Referral) error {
	if r.createErr != nil {
		return r.createErr
	}
	referral.ID = int64(len(r.referrals) + 1)
	r.referrals = append(r.referrals, *referral)
	return nil
}

func (r *fakeReferralRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Referral, error) {
	var out []domain.Referral
	for _, ref := range r.referrals {
		if ref.TicketID == ticketID {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (r *fakeReferralRepo) DeleteByTickets(_ context.Context, ticketIDs []int64) error {
	keep := r.referrals[:0]
	drop := map[int64]struct{}{}
	for _, id := range ticketIDs {
		drop[id] = struct{}{}
	}
	for _, ref := range r.referrals {
		if _, gone := drop[ref.TicketID]; !gone {
			keep = append(keep, ref)
		}
	}
	r.referrals = keep
	return nil
}

type fakeUserRepo struct {
	users []domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = int64(len(r.users) + 1)
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			copied := r.users[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			copied := r.users[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	return append([]domain.User{}, r.users...), nil
}

type fakeCustomerRepo struct {
	customers map[int64]domain.Customer
	nextID    int64
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[int64]domain.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.nextID++
	c.ID = r.nextID
	r.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := c
	return &copied, nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _, _ int) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, nil
}

type fakeContractRepo struct {
	contracts []domain.SupportContract
}

func (r *fakeContractRepo) Create(_ context.Context, c *domain.SupportContract) error {
	c.ID = int64(len(r.contracts) + 1)
	r.contracts = append(r.contracts, *c)
	return nil
}

func (r *fakeContractRepo) Update(_ context.Context, c *domain.SupportContract) error {
	for i := range r.contracts {
		if r.contracts[i].ID == c.ID {
			r.contracts[i] = *c
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeContractRepo) GetByID(_ context.Context, id int64) (*domain.SupportContract, error) {
	for i := range r.contracts {
		if r.contracts[i].ID == id {
			copied := r.contracts[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContractRepo) ListByCustomer(_ context.Context, customerID int64) ([]domain.SupportContract, error) {
	var out []domain.SupportContract
	for _, c := range r.contracts {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContractRepo) ListAll(context.Context) ([]domain.SupportContract, error) {
	return append([]domain.SupportContract{}, r.contracts...), nil
}

type fakeIntroductionRepo struct {
	intros map[int64]domain.CustomerIntroduction
	nextID int64
}

func newFakeIntroductionRepo() *fakeIntroductionRepo {
	return &fakeIntroductionRepo{intros: map[int64]domain.CustomerIntroduction{}}
}

func (r *fakeIntroductionRepo) Create(_ context.Context, intro *domain.CustomerIntroduction) error {
	r.nextID++
	intro.ID = r.nextID
	r.intros[intro.ID] = *intro
	return nil
}

func (r *fakeIntroductionRepo) Update(_ context.Context, intro *domain.CustomerIntroduction) error {
	if _, ok := r.intros[intro.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.intros[intro.ID] = *intro
	return nil
}

func (r *fakeIntroductionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.intros[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.intros, id)
	return nil
}

func (r *fakeIntroductionRepo) GetByID(_ context.Context, id int64) (*domain.CustomerIntroduction, error) {
	intro, ok := r.intros[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := intro
	return &copied, nil
}

func (r *fakeIntroductionRepo) List(_ context.Context, _, _ int) ([]domain.CustomerIntroduction, error) {
	out := make([]domain.CustomerIntroduction, 0, len(r.intros))
	for _, intro := range r.intros {
		out = append(out, intro)
	}
	return out, nil
}

// fakeIntroReferralRepo can simulate the missing history table.
type fakeIntroReferralRepo struct {
	referrals    []domain.IntroductionReferral
	tableMissing bool
}

var errTableMissing = errors.New("relation does not exist")

func (r *fakeIntroReferralRepo) Create(_ context.Context, referral *domain.IntroductionReferral) error {
	if r.tableMissing {
		return util.NewDegradedFeature("introduction referral history", errTableMissing)
	}
	referral.ID = int64(len(r.referrals) + 1)
	r.referrals = append(r.referrals, *referral)
	return nil
}

func (r *fakeIntroReferralRepo) ListByIntroduction(_ context.Context, introductionID int64) ([]domain.IntroductionReferral, error) {
	if r.tableMissing {
		return nil, util.NewDegradedFeature("introduction referral history", errTableMissing)
	}
	var out []domain.IntroductionReferral
	for _, ref := range r.referrals {
		if ref.IntroductionID == introductionID {
			out = append(out, ref)
		}
	}
	return out, nil
}
