package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/model"
)

// Service-level errors for contract management.
var (
	ErrInvalidAmount    = errors.New("monthly amount must be greater than zero")
	ErrInvalidType      = errors.New("type must be 'reducing', 'growing' or 'fixed'")
	ErrInvalidStatus    = errors.New("status must be 'active', 'paused' or 'closed'")
	ErrContractNotFound = errors.New("contract not found")
)

// ContractRepositoryInterface defines the contract for contract data access.
// Implementations must be safe for concurrent use.
type ContractRepositoryInterface interface {
	Create(ctx context.Context, contract *model.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ContractService handles business logic for contract management.
type ContractService struct {
	repo ContractRepositoryInterface
}

// NewContractService creates a new ContractService with the given repository.
func NewContractService(repo ContractRepositoryInterface) *ContractService {
	return &ContractService{repo: repo}
}

type CreateContractInput struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Type          model.ContractType `json:"type"`
	MonthlyAmount decimal.Decimal    `json:"monthlyAmount"`
	StartDate     time.Time          `json:"startDate"`
	EndDate       *time.Time         `json:"endDate"`
	Metadata      model.Metadata     `json:"metadata"`
}

type UpdateContractInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	MonthlyAmount *decimal.Decimal `json:"monthlyAmount"`
	StartDate     *time.Time       `json:"startDate"`
	EndDate       *time.Time       `json:"endDate"`
	Metadata      *model.Metadata  `json:"metadata"`
}

// Create creates a new contract for the given user. The metadata variant must
// match the declared type; a reducing contract with no remaining balance set
// defaults it to the principal.
func (s *ContractService) Create(ctx context.Context, userID uuid.UUID, input CreateContractInput) (*model.Contract, error) {
	if input.MonthlyAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if !input.Type.IsValid() {
		return nil, ErrInvalidType
	}

	contract := &model.Contract{
		UserID:        userID,
		Name:          input.Name,
		Description:   input.Description,
		Type:          input.Type,
		Status:        model.ContractStatusActive,
		MonthlyAmount: input.MonthlyAmount,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Metadata:      input.Metadata,
	}

	if err := contract.ValidateMetadata(); err != nil {
		return nil, err
	}

	if meta := contract.Metadata.Reducing; meta != nil && meta.RemainingBalance.IsZero() {
		meta.RemainingBalance = meta.Principal
	}
	if meta := contract.Metadata.Reducing; meta != nil && meta.EMIAmount.IsZero() {
		meta.EMIAmount = contract.MonthlyAmount
	}

	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("creating contract: %w", err)
	}

	return contract, nil
}

// Get retrieves a contract by ID, ensuring it belongs to the user.
func (s *ContractService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting contract %s: %w", id, err)
	}
	if contract.UserID != userID {
		return nil, ErrContractNotFound
	}
	return contract, nil
}

// List retrieves all contracts for a user.
func (s *ContractService) List(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	contracts, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing contracts for user %s: %w", userID, err)
	}
	return contracts, nil
}

// Update modifies an existing contract. The contract's type is fixed for its
// lifetime; replacement metadata must still match it.
func (s *ContractService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateContractInput) (*model.Contract, error) {
	contract, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching contract %s for update: %w", id, err)
	}
	if contract.UserID != userID {
		return nil, ErrContractNotFound
	}

	if input.Name != nil {
		contract.Name = *input.Name
	}
	if input.Description != nil {
		contract.Description = *input.Description
	}
	if input.MonthlyAmount != nil {
		if input.MonthlyAmount.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidAmount
		}
		contract.MonthlyAmount = *input.MonthlyAmount
	}
	if input.StartDate != nil {
		contract.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		contract.EndDate = input.EndDate
	}
	if input.Metadata != nil {
		contract.Metadata = *input.Metadata
		if err := contract.ValidateMetadata(); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("updating contract %s: %w", id, err)
	}

	return contract, nil
}

// Delete removes a contract by ID for the given user.
func (s *ContractService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting contract %s: %w", id, err)
	}
	return nil
}

// Pause marks a contract paused; it contributes nothing while paused.
func (s *ContractService) Pause(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error) {
	return s.setStatus(ctx, userID, id, model.ContractStatusPaused)
}

// Resume reactivates a paused contract.
func (s *ContractService) Resume(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error) {
	return s.setStatus(ctx, userID, id, model.ContractStatusActive)
}

// Close marks a contract closed permanently.
func (s *ContractService) Close(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error) {
	return s.setStatus(ctx, userID, id, model.ContractStatusClosed)
}

func (s *ContractService) setStatus(ctx context.Context, userID, id uuid.UUID, status model.ContractStatus) (*model.Contract, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	contract, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching contract %s: %w", id, err)
	}
	if contract.UserID != userID {
		return nil, ErrContractNotFound
	}

	contract.Status = status
	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("updating contract %s status: %w", id, err)
	}
	return contract, nil
}
