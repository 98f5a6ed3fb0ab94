package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/model"
	"github.com/ledgerpath/backend/internal/service"
)

// ContractServiceInterface for handler testing
type ContractServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input service.CreateContractInput) (*model.Contract, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Contract, error)
	Update(ctx context.Context, userID, id uuid.UUID, input service.UpdateContractInput) (*model.Contract, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Pause(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error)
	Resume(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error)
	Close(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error)
}

// SnapshotServiceInterface for handler testing
type SnapshotServiceInterface interface {
	Compute(ctx context.Context, userID uuid.UUID, month time.Month, year int, totalIncome decimal.Decimal) (*model.MonthlySnapshot, error)
	CloseMonth(ctx context.Context, userID uuid.UUID, month time.Month, year int, totalIncome decimal.Decimal) (*model.MonthlySnapshot, error)
	GetStored(ctx context.Context, userID uuid.UUID, month time.Month, year int) (*model.MonthlySnapshot, error)
	History(ctx context.Context, userID uuid.UUID) ([]model.MonthlySnapshot, error)
	Project(ctx context.Context, userID uuid.UUID, startMonth time.Month, startYear, monthCount int, totalIncome decimal.Decimal) (*model.Projection, error)
	TypeOutflow(ctx context.Context, userID uuid.UUID, contractType model.ContractType, startMonth time.Month, startYear, monthCount int) (decimal.Decimal, error)
}

// AmortizationServiceInterface for handler testing
type AmortizationServiceInterface interface {
	GenerateSchedule(input service.ScheduleInput) (*model.LoanSummary, error)
	CalculateEMI(principal, annualRate decimal.Decimal, tenureMonths int) (decimal.Decimal, error)
}

// UserServiceInterface for handler testing
type UserServiceInterface interface {
	Register(ctx context.Context, input service.RegisterInput) (*service.AuthResponse, error)
	Login(ctx context.Context, input service.LoginInput) (*service.AuthResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, input service.UpdateSettingsInput) (*model.User, error)
}
