package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// ReferralRepository stores the append-only referral history.
type ReferralRepository interface {
	Create(ctx context.Context, referral *domain.Referral) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Referral, error)
	DeleteByTickets(ctx context.Context, ticketIDs []int64) error
}

type referralRepository struct {
	pool *pgxpool.Pool
}

// NewReferralRepository instantiates repository.
func NewReferralRepository(pool *pgxpool.Pool) ReferralRepository {
	return &referralRepository{pool: pool}
}

func (r *referralRepository) Create(ctx context.Context, referral *domain.Referral) error {
	const query = `
        INSERT INTO referrals (ticket_id, referred_by, referred_to, referred_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		referral.TicketID,
		referral.ReferredBy,
		referral.ReferredTo,
		referral.ReferredAt,
	).Scan(&referral.ID)
}

func (r *referralRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Referral, error) {
	const query = `
        SELECT id, ticket_id, referred_by, referred_to, referred_at
        FROM referrals WHERE ticket_id=$1 ORDER BY referred_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReferrals(rows)
}

// DeleteByTickets removes referral history as part of ticket deletion.
func (r *referralRepository) DeleteByTickets(ctx context.Context, ticketIDs []int64) error {
	if len(ticketIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM referrals WHERE ticket_id = ANY($1)`, ticketIDs)
	return err
}

func scanReferrals(rows pgx.Rows) ([]domain.Referral, error) {
	var result []domain.Referral
	for rows.Next() {
		var referral domain.Referral
		if err := rows.Scan(
			&referral.ID,
			&referral.TicketID,
			&referral.ReferredBy,
			&referral.ReferredTo,
			&referral.ReferredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, referral)
	}
	return result, rows.Err()
}
