package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/apperror"
	"github.com/ledgerpath/backend/internal/service"
)

type LoanHandler struct {
	service AmortizationServiceInterface
}

func NewLoanHandler(service AmortizationServiceInterface) *LoanHandler {
	return &LoanHandler{service: service}
}

// Schedule computes the full amortization schedule for the posted loan terms.
func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var input service.ScheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.service.GenerateSchedule(input)
	if err != nil {
		respondAppError(w, scheduleError(err))
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

type emiRequest struct {
	Principal    decimal.Decimal `json:"principal"`
	AnnualRate   decimal.Decimal `json:"annualRate"`
	TenureMonths int             `json:"tenureMonths"`
}

type emiResponse struct {
	EMI decimal.Decimal `json:"emi"`
}

// EMI computes the fixed monthly installment for the posted loan terms.
func (h *LoanHandler) EMI(w http.ResponseWriter, r *http.Request) {
	var input emiRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emi, err := h.service.CalculateEMI(input.Principal, input.AnnualRate, input.TenureMonths)
	if err != nil {
		respondAppError(w, scheduleError(err))
		return
	}

	respondJSON(w, http.StatusOK, emiResponse{EMI: emi})
}

// scheduleError maps engine errors to field-level validation responses.
func scheduleError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidPrincipal):
		return apperror.ValidationError("principal", err.Error())
	case errors.Is(err, service.ErrInvalidRate):
		return apperror.ValidationError("annualRate", err.Error())
	case errors.Is(err, service.ErrInvalidTenure):
		return apperror.ValidationError("tenureMonths", err.Error())
	case errors.Is(err, service.ErrInvalidEMI), errors.Is(err, service.ErrEMITooLow):
		return apperror.ValidationError("emi", err.Error())
	default:
		return apperror.Internal(err)
	}
}
