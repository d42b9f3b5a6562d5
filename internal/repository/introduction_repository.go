package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// IntroductionRepository encapsulates customer introduction persistence.
type IntroductionRepository interface {
	Create(ctx context.Context, intro *domain.CustomerIntroduction) error
	Update(ctx context.Context, intro *domain.CustomerIntroduction) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.CustomerIntroduction, error)
	List(ctx context.Context, limit, offset int) ([]domain.CustomerIntroduction, error)
}

type introductionRepository struct {
	pool *pgxpool.Pool
}

// NewIntroductionRepository instantiates repository.
func NewIntroductionRepository(pool *pgxpool.Pool) IntroductionRepository {
	return &introductionRepository{pool: pool}
}

func (r *introductionRepository) Create(ctx context.Context, intro *domain.CustomerIntroduction) error {
	const query = `
        INSERT INTO customer_introductions (introduced_by, assigned_to, status, prospect_name, prospect_phone, company_name, notes, customer_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		intro.IntroducedBy,
		intro.AssignedTo,
		intro.Status,
		intro.ProspectName,
		intro.ProspectPhone,
		intro.CompanyName,
		intro.Notes,
		intro.CustomerID,
	).Scan(&intro.ID, &intro.CreatedAt, &intro.UpdatedAt)
}

func (r *introductionRepository) Update(ctx context.Context, intro *domain.CustomerIntroduction) error {
	const query = `
        UPDATE customer_introductions SET assigned_to=$1, status=$2, prospect_name=$3, prospect_phone=$4,
            company_name=$5, notes=$6, customer_id=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		intro.AssignedTo,
		intro.Status,
		intro.ProspectName,
		intro.ProspectPhone,
		intro.CompanyName,
		intro.Notes,
		intro.CustomerID,
		intro.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *introductionRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customer_introductions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *introductionRepository) GetByID(ctx context.Context, id int64) (*domain.CustomerIntroduction, error) {
	return scanIntroduction(r.pool.QueryRow(ctx, introductionSelect+` WHERE id=$1`, id))
}

func (r *introductionRepository) List(ctx context.Context, limit, offset int) ([]domain.CustomerIntroduction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, introductionSelect+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CustomerIntroduction
	for rows.Next() {
		intro, err := scanIntroduction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *intro)
	}
	return result, rows.Err()
}

const introductionSelect = `
        SELECT id, introduced_by, assigned_to, status, prospect_name, prospect_phone, company_name, notes,
               customer_id, created_at, updated_at
        FROM customer_introductions`

func scanIntroduction(row pgx.Row) (*domain.CustomerIntroduction, error) {
	var intro domain.CustomerIntroduction
	if err := row.Scan(
		&intro.ID,
		&intro.IntroducedBy,
		&intro.AssignedTo,
		&intro.Status,
		&intro.ProspectName,
		&intro.ProspectPhone,
		&intro.CompanyName,
		&intro.Notes,
		&intro.CustomerID,
		&intro.CreatedAt,
		&intro.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &intro, nil
}
