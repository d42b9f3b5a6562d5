package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// ContractRepository encapsulates support contract persistence.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.SupportContract) error
	Update(ctx context.Context, contract *domain.SupportContract) error
	GetByID(ctx context.Context, id int64) (*domain.SupportContract, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.SupportContract, error)
	ListAll(ctx context.Context) ([]domain.SupportContract, error)
}

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository instantiates repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

func (r *contractRepository) Create(ctx context.Context, contract *domain.SupportContract) error {
	const query = `
        INSERT INTO support_contracts (customer_id, organization_name, software_name, level, status, start_date, end_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		contract.CustomerID,
		contract.OrganizationName,
		contract.SoftwareName,
		contract.Level,
		contract.Status,
		contract.StartDate,
		contract.EndDate,
	).Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt)
}

func (r *contractRepository) Update(ctx context.Context, contract *domain.SupportContract) error {
	const query = `
        UPDATE support_contracts SET customer_id=$1, organization_name=$2, software_name=$3, level=$4,
            status=$5, start_date=$6, end_date=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		contract.CustomerID,
		contract.OrganizationName,
		contract.SoftwareName,
		contract.Level,
		contract.Status,
		contract.StartDate,
		contract.EndDate,
		contract.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id int64) (*domain.SupportContract, error) {
	return scanContract(r.pool.QueryRow(ctx, contractSelect+` WHERE id=$1`, id))
}

func (r *contractRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.SupportContract, error) {
	rows, err := r.pool.Query(ctx, contractSelect+` WHERE customer_id=$1 ORDER BY end_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContracts(rows)
}

func (r *contractRepository) ListAll(ctx context.Context) ([]domain.SupportContract, error) {
	rows, err := r.pool.Query(ctx, contractSelect+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContracts(rows)
}

const contractSelect = `
        SELECT id, customer_id, organization_name, software_name, level, status, start_date, end_date,
               created_at, updated_at
        FROM support_contracts`

func collectContracts(rows pgx.Rows) ([]domain.SupportContract, error) {
	var result []domain.SupportContract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *contract)
	}
	return result, rows.Err()
}

func scanContract(row pgx.Row) (*domain.SupportContract, error) {
	var contract domain.SupportContract
	if err := row.Scan(
		&contract.ID,
		&contract.CustomerID,
		&contract.OrganizationName,
		&contract.SoftwareName,
		&contract.Level,
		&contract.Status,
		&contract.StartDate,
		&contract.EndDate,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}
