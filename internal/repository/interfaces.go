package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerpath/backend/internal/model"
)

//go:generate mockery --name=UserRepositoryInterface --output=../mocks --outpkg=mocks
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

//go:generate mockery --name=ContractRepositoryInterface --output=../mocks --outpkg=mocks
type ContractRepositoryInterface interface {
	Create(ctx context.Context, contract *model.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Contract, error)
	ListByStatus(ctx context.Context, userID uuid.UUID, status model.ContractStatus) ([]model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

//go:generate mockery --name=SnapshotRepositoryInterface --output=../mocks --outpkg=mocks
type SnapshotRepositoryInterface interface {
	Upsert(ctx context.Context, userID uuid.UUID, snapshot *model.MonthlySnapshot) error
	GetByMonth(ctx context.Context, userID uuid.UUID, month time.Month, year int) (*model.MonthlySnapshot, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.MonthlySnapshot, error)
}
