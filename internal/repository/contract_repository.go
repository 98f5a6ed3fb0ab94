package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ledgerpath/backend/internal/model"
)

var ErrContractNotFound = errors.New("contract not found")

type ContractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	query := `
		INSERT INTO contracts (id, user_id, name, description, type, status, monthly_amount, start_date, end_date, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at`

	contract.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		contract.ID, contract.UserID, contract.Name, contract.Description,
		contract.Type, contract.Status, contract.MonthlyAmount,
		contract.StartDate, contract.EndDate, contract.Metadata,
	).Scan(&contract.CreatedAt, &contract.UpdatedAt)
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	query := `SELECT * FROM contracts WHERE id = $1`
	err := r.db.GetContext(ctx, &contract, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	return &contract, err
}

func (r *ContractRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	var contracts []model.Contract
	// Creation order keeps snapshot contributions stable across reads.
	query := `SELECT * FROM contracts WHERE user_id = $1 ORDER BY created_at, id`
	err := r.db.SelectContext(ctx, &contracts, query, userID)
	return contracts, err
}

func (r *ContractRepository) ListByStatus(ctx context.Context, userID uuid.UUID, status model.ContractStatus) ([]model.Contract, error) {
	var contracts []model.Contract
	query := `SELECT * FROM contracts WHERE user_id = $1 AND status = $2 ORDER BY created_at, id`
	err := r.db.SelectContext(ctx, &contracts, query, userID, status)
	return contracts, err
}

func (r *ContractRepository) Update(ctx context.Context, contract *model.Contract) error {
	query := `
		UPDATE contracts
		SET name = $2, description = $3, status = $4, monthly_amount = $5,
			start_date = $6, end_date = $7, metadata = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $9
		RETURNING updated_at`
	result := r.db.QueryRowxContext(ctx, query,
		contract.ID, contract.Name, contract.Description, contract.Status,
		contract.MonthlyAmount, contract.StartDate, contract.EndDate,
		contract.Metadata, contract.UserID,
	)
	err := result.Scan(&contract.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrContractNotFound
	}
	return err
}

func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM contracts WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContractNotFound
	}
	return nil
}
