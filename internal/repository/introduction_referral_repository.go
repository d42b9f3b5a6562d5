package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/pkg/util"
)

// undefinedTable is the postgres error code raised when the backing
// table for the introduction referral history does not exist. The
// feature degrades instead of failing every request.
const undefinedTable = "42P01"

// IntroductionReferralRepository stores the append-only introduction
// referral history. The backing table is optional.
type IntroductionReferralRepository interface {
	Create(ctx context.Context, referral *domain.IntroductionReferral) error
	ListByIntroduction(ctx context.Context, introductionID int64) ([]domain.IntroductionReferral, error)
}

type introductionReferralRepository struct {
	pool *pgxpool.Pool
}

// NewIntroductionReferralRepository instantiates repository.
func NewIntroductionReferralRepository(pool *pgxpool.Pool) IntroductionReferralRepository {
	return &introductionReferralRepository{pool: pool}
}

func (r *introductionReferralRepository) Create(ctx context.Context, referral *domain.IntroductionReferral) error {
	const query = `
        INSERT INTO introduction_referrals (introduction_id, referred_by, referred_to, referred_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		referral.IntroductionID,
		referral.ReferredBy,
		referral.ReferredTo,
		referral.ReferredAt,
	).Scan(&referral.ID)
	return mapMissingTable(err)
}

func (r *introductionReferralRepository) ListByIntroduction(ctx context.Context, introductionID int64) ([]domain.IntroductionReferral, error) {
	const query = `
        SELECT id, introduction_id, referred_by, referred_to, referred_at
        FROM introduction_referrals WHERE introduction_id=$1 ORDER BY referred_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, introductionID)
	if err != nil {
		return nil, mapMissingTable(err)
	}
	defer rows.Close()

	var result []domain.IntroductionReferral
	for rows.Next() {
		var referral domain.IntroductionReferral
		if err := rows.Scan(
			&referral.ID,
			&referral.IntroductionID,
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

func mapMissingTable(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return util.NewDegradedFeature("introduction referral history", err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return err
}
