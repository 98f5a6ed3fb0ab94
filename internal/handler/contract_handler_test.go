package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerpath/backend/internal/model"
	"github.com/ledgerpath/backend/internal/service"
)

// MockContractService implements ContractServiceInterface for testing
type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) Create(ctx context.Context, userID uuid.UUID, input service.CreateContractInput) (*model.Contract, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) List(ctx context.Context, userID uuid.UUID) ([]model.Contract, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contract), args.Error(1)
}

func (m *MockContractService) Update(ctx context.Context, userID, id uuid.UUID, input service.UpdateContractInput) (*model.Contract, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockContractService) Pause(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) Resume(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) Close(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

// authedRequest builds a request carrying the user ID the way AuthMiddleware
// would.
func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(context.WithValue(req.Context(), userIDKey, userID))
}

// withURLParam attaches a chi route parameter to the request, reusing the
// route context if one is already present.
func withURLParam(req *http.Request, key, value string) *http.Request {
	if rctx, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context); ok {
		rctx.URLParams.Add(key, value)
		return req
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func sampleContract(userID uuid.UUID) *model.Contract {
	return &model.Contract{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "Home loan",
		Type:          model.ContractTypeReducing,
		Status:        model.ContractStatusActive,
		MonthlyAmount: decimal.NewFromInt(10000),
		StartDate:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Metadata: model.Metadata{Reducing: &model.ReducingMetadata{
			Principal:        decimal.NewFromInt(100000),
			AnnualRate:       decimal.NewFromInt(12),
			TenureMonths:     12,
			RemainingBalance: decimal.NewFromInt(100000),
			EMIAmount:        decimal.NewFromInt(10000),
		}},
	}
}

func TestContractHandler_Create(t *testing.T) {
	userID := uuid.New()
	contract := sampleContract(userID)

	svc := new(MockContractService)
	svc.On("Create", mock.Anything, userID, mock.Anything).Return(contract, nil)

	h := NewContractHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{
		"name":          "Home loan",
		"type":          "reducing",
		"monthlyAmount": "10000",
		"startDate":     "2026-01-01T00:00:00Z",
		"metadata": map[string]interface{}{
			"reducing": map[string]interface{}{
				"principal":    "100000",
				"annualRate":   "12",
				"tenureMonths": 12,
			},
		},
	})

	req := authedRequest(http.MethodPost, "/api/contracts", body, userID)
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Home loan")
	svc.AssertExpectations(t)
}

func TestContractHandler_Create_ValidationError(t *testing.T) {
	userID := uuid.New()

	svc := new(MockContractService)
	svc.On("Create", mock.Anything, userID, mock.Anything).Return(nil, service.ErrInvalidAmount)

	h := NewContractHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{"name": "Broken", "type": "fixed", "monthlyAmount": "0"})
	req := authedRequest(http.MethodPost, "/api/contracts", body, userID)
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContractHandler_Create_BadBody(t *testing.T) {
	h := NewContractHandler(new(MockContractService))

	req := authedRequest(http.MethodPost, "/api/contracts", []byte("{not json"), uuid.New())
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContractHandler_Get(t *testing.T) {
	userID := uuid.New()
	contract := sampleContract(userID)

	svc := new(MockContractService)
	svc.On("Get", mock.Anything, userID, contract.ID).Return(contract, nil)

	h := NewContractHandler(svc)

	req := authedRequest(http.MethodGet, "/api/contracts/"+contract.ID.String(), nil, userID)
	req = withURLParam(req, "id", contract.ID.String())
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.Contract
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, contract.ID, got.ID)
}

func TestContractHandler_Get_InvalidID(t *testing.T) {
	h := NewContractHandler(new(MockContractService))

	req := authedRequest(http.MethodGet, "/api/contracts/nope", nil, uuid.New())
	req = withURLParam(req, "id", "nope")
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContractHandler_List(t *testing.T) {
	userID := uuid.New()

	svc := new(MockContractService)
	svc.On("List", mock.Anything, userID).Return([]model.Contract{*sampleContract(userID)}, nil)

	h := NewContractHandler(svc)

	req := authedRequest(http.MethodGet, "/api/contracts", nil, userID)
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Home loan")
}

func TestContractHandler_Delete(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	svc := new(MockContractService)
	svc.On("Delete", mock.Anything, userID, id).Return(nil)

	h := NewContractHandler(svc)

	req := authedRequest(http.MethodDelete, "/api/contracts/"+id.String(), nil, userID)
	req = withURLParam(req, "id", id.String())
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestContractHandler_Pause(t *testing.T) {
	userID := uuid.New()
	contract := sampleContract(userID)
	contract.Status = model.ContractStatusPaused

	svc := new(MockContractService)
	svc.On("Pause", mock.Anything, userID, contract.ID).Return(contract, nil)

	h := NewContractHandler(svc)

	req := authedRequest(http.MethodPost, "/api/contracts/"+contract.ID.String()+"/pause", nil, userID)
	req = withURLParam(req, "id", contract.ID.String())
	w := httptest.NewRecorder()
	h.Pause(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "paused")
}

func TestContractHandler_Close_NotFound(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	svc := new(MockContractService)
	svc.On("Close", mock.Anything, userID, id).Return(nil, service.ErrContractNotFound)

	h := NewContractHandler(svc)

	req := authedRequest(http.MethodPost, "/api/contracts/"+id.String()+"/close", nil, userID)
	req = withURLParam(req, "id", id.String())
	w := httptest.NewRecorder()
	h.Close(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
