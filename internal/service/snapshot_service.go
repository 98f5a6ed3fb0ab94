package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/model"
)

// SnapshotRepositoryInterface defines the contract for snapshot persistence.
// There is at most one stored snapshot per (user, year, month); Upsert
// replaces any prior record for that key.
type SnapshotRepositoryInterface interface {
	Upsert(ctx context.Context, userID uuid.UUID, snapshot *model.MonthlySnapshot) error
	GetByMonth(ctx context.Context, userID uuid.UUID, month time.Month, year int) (*model.MonthlySnapshot, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.MonthlySnapshot, error)
}

// SnapshotService computes monthly snapshots on demand and persists the
// canonical record at month close.
type SnapshotService struct {
	repo      SnapshotRepositoryInterface
	contracts ContractRepositoryInterface
	engine    *ExecutionService
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(repo SnapshotRepositoryInterface, contracts ContractRepositoryInterface, engine *ExecutionService) *SnapshotService {
	return &SnapshotService{repo: repo, contracts: contracts, engine: engine}
}

// Compute builds a snapshot for the given month from the user's current
// contracts. Nothing is persisted; stored history is not consulted.
func (s *SnapshotService) Compute(ctx context.Context, userID uuid.UUID, month time.Month, year int, totalIncome decimal.Decimal) (*model.MonthlySnapshot, error) {
	contracts, err := s.contracts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing contracts for snapshot: %w", err)
	}
	return s.engine.ExecuteMonth(contracts, int(month), year, totalIncome)
}

// CloseMonth computes the snapshot for the given month and upserts it as the
// canonical record, then advances every contributing contract's stored state.
// Running it twice for the same month recomputes from the already-advanced
// contracts, so callers should invoke it once per month per user.
func (s *SnapshotService) CloseMonth(ctx context.Context, userID uuid.UUID, month time.Month, year int, totalIncome decimal.Decimal) (*model.MonthlySnapshot, error) {
	contracts, err := s.contracts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing contracts for month close: %w", err)
	}

	snapshot, advanced, err := s.engine.ExecuteAndAdvance(contracts, int(month), year, totalIncome)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, userID, snapshot); err != nil {
		return nil, fmt.Errorf("storing snapshot %d-%02d: %w", year, month, err)
	}

	for i := range advanced {
		if err := s.contracts.Update(ctx, &advanced[i]); err != nil {
			return nil, fmt.Errorf("advancing contract %s: %w", advanced[i].ID, err)
		}
	}

	return snapshot, nil
}

// GetStored returns the persisted snapshot for a month, if one exists.
func (s *SnapshotService) GetStored(ctx context.Context, userID uuid.UUID, month time.Month, year int) (*model.MonthlySnapshot, error) {
	snapshot, err := s.repo.GetByMonth(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("getting snapshot %d-%02d: %w", year, month, err)
	}
	return snapshot, nil
}

// History returns all persisted snapshots for a user, newest first.
func (s *SnapshotService) History(ctx context.Context, userID uuid.UUID) ([]model.MonthlySnapshot, error) {
	snapshots, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots for user %s: %w", userID, err)
	}
	return snapshots, nil
}

// Project builds a multi-month projection from the user's current contracts.
func (s *SnapshotService) Project(ctx context.Context, userID uuid.UUID, startMonth time.Month, startYear, monthCount int, totalIncome decimal.Decimal) (*model.Projection, error) {
	contracts, err := s.contracts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing contracts for projection: %w", err)
	}
	return s.engine.GenerateProjection(contracts, int(startMonth), startYear, monthCount, totalIncome)
}

// TypeOutflow sums one contract type's outflow across the horizon.
func (s *SnapshotService) TypeOutflow(ctx context.Context, userID uuid.UUID, contractType model.ContractType, startMonth time.Month, startYear, monthCount int) (decimal.Decimal, error) {
	contracts, err := s.contracts.List(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing contracts for outflow: %w", err)
	}
	return s.engine.CalculateTypeOutflow(contracts, contractType, int(startMonth), startYear, monthCount)
}
