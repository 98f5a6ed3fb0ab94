package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerpath/backend/internal/model"
)

// MockContractRepo implements ContractRepositoryInterface for testing
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Create(ctx context.Context, contract *model.Contract) error {
	args := m.Called(ctx, contract)
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractRepo) List(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contract), args.Error(1)
}

func (m *MockContractRepo) Update(ctx context.Context, contract *model.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func TestContractService_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		input     CreateContractInput
		setupMock func(*MockContractRepo)
		wantErr   error
		check     func(*testing.T, *model.Contract)
	}{
		{
			name: "reducing contract defaults balance to principal",
			input: CreateContractInput{
				Name:          "Home loan",
				Type:          model.ContractTypeReducing,
				MonthlyAmount: decimal.NewFromInt(10000),
				StartDate:     start,
				Metadata: model.Metadata{Reducing: &model.ReducingMetadata{
					Principal:    decimal.NewFromInt(100000),
					AnnualRate:   decimal.NewFromInt(12),
					TenureMonths: 12,
				}},
			},
			setupMock: func(m *MockContractRepo) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, c *model.Contract) {
				assert.Equal(t, model.ContractStatusActive, c.Status)
				assert.True(t, c.Metadata.Reducing.RemainingBalance.Equal(decimal.NewFromInt(100000)))
				assert.True(t, c.Metadata.Reducing.EMIAmount.Equal(decimal.NewFromInt(10000)))
			},
		},
		{
			name: "growing contract",
			input: CreateContractInput{
				Name:          "Index SIP",
				Type:          model.ContractTypeGrowing,
				MonthlyAmount: decimal.NewFromInt(12000),
				StartDate:     start,
				Metadata:      model.Metadata{Growing: &model.GrowingMetadata{}},
			},
			setupMock: func(m *MockContractRepo) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, c *model.Contract) {
				assert.Equal(t, userID, c.UserID)
			},
		},
		{
			name: "zero amount rejected",
			input: CreateContractInput{
				Name:          "Broken",
				Type:          model.ContractTypeFixed,
				MonthlyAmount: decimal.Zero,
				StartDate:     start,
				Metadata:      model.Metadata{Fixed: &model.FixedMetadata{BillingCycle: model.CycleMonthly}},
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "unknown type rejected",
			input: CreateContractInput{
				Name:          "Broken",
				Type:          model.ContractType("revolving"),
				MonthlyAmount: decimal.NewFromInt(100),
				StartDate:     start,
			},
			wantErr: ErrInvalidType,
		},
		{
			name: "metadata variant must match type",
			input: CreateContractInput{
				Name:          "Mismatched",
				Type:          model.ContractTypeReducing,
				MonthlyAmount: decimal.NewFromInt(100),
				StartDate:     start,
				Metadata:      model.Metadata{Growing: &model.GrowingMetadata{}},
			},
			wantErr: model.ErrMetadataMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := new(MockContractRepo)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := NewContractService(repo)
			contract, err := svc.Create(context.Background(), userID, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, contract)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestContractService_Get_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	intruder := uuid.New()
	contract := fixedContract("Rent", 20000)
	contract.UserID = owner

	repo := new(MockContractRepo)
	repo.On("GetByID", mock.Anything, contract.ID).Return(&contract, nil)

	svc := NewContractService(repo)

	got, err := svc.Get(context.Background(), owner, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.Name, got.Name)

	_, err = svc.Get(context.Background(), intruder, contract.ID)
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestContractService_Update(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	contract := growingContract("Index SIP", 12000, 50000)
	contract.UserID = userID

	repo := new(MockContractRepo)
	repo.On("GetByID", mock.Anything, contract.ID).Return(&contract, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewContractService(repo)

	newAmount := decimal.NewFromInt(15000)
	newName := "Bigger SIP"
	got, err := svc.Update(context.Background(), userID, contract.ID, UpdateContractInput{
		Name:          &newName,
		MonthlyAmount: &newAmount,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bigger SIP", got.Name)
	assert.True(t, got.MonthlyAmount.Equal(newAmount))

	// Replacement metadata still has to match the contract's type.
	_, err = svc.Update(context.Background(), userID, contract.ID, UpdateContractInput{
		Metadata: &model.Metadata{Fixed: &model.FixedMetadata{BillingCycle: model.CycleMonthly}},
	})
	assert.ErrorIs(t, err, model.ErrMetadataMismatch)

	zero := decimal.Zero
	_, err = svc.Update(context.Background(), userID, contract.ID, UpdateContractInput{
		MonthlyAmount: &zero,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestContractService_StatusTransitions(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	contract := fixedContract("Insurance", 5000)
	contract.UserID = userID

	repo := new(MockContractRepo)
	repo.On("GetByID", mock.Anything, contract.ID).Return(&contract, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewContractService(repo)

	got, err := svc.Pause(context.Background(), userID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusPaused, got.Status)

	got, err = svc.Resume(context.Background(), userID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusActive, got.Status)

	got, err = svc.Close(context.Background(), userID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusClosed, got.Status)
}

func TestContractService_Delete_PropagatesError(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	id := uuid.New()
	repoErr := errors.New("boom")

	repo := new(MockContractRepo)
	repo.On("Delete", mock.Anything, id, userID).Return(repoErr)

	svc := NewContractService(repo)
	err := svc.Delete(context.Background(), userID, id)
	assert.ErrorIs(t, err, repoErr)
}
