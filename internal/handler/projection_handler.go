package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/model"
	"github.com/ledgerpath/backend/internal/service"
)

// maxProjectionMonths caps the horizon a single request may ask for.
const maxProjectionMonths = 360

type ProjectionHandler struct {
	snapshots SnapshotServiceInterface
	users     UserServiceInterface
	now       func() time.Time
}

func NewProjectionHandler(snapshots SnapshotServiceInterface, users UserServiceInterface) *ProjectionHandler {
	return &ProjectionHandler{snapshots: snapshots, users: users, now: time.Now}
}

// Project rolls the user's contracts forward over the requested horizon.
// Defaults: start at the current month, 12 months, profile income.
func (h *ProjectionHandler) Project(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	startMonth, startYear, months, ok := h.parseHorizon(w, r)
	if !ok {
		return
	}

	income := decimal.Zero
	if raw := r.URL.Query().Get("income"); raw != "" {
		parsed, err := parseDecimal(raw)
		if err != nil || parsed.IsNegative() {
			respondError(w, http.StatusBadRequest, "invalid income")
			return
		}
		income = parsed
	} else {
		user, err := h.users.GetByID(r.Context(), userID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load user profile")
			return
		}
		income = user.MonthlyIncome
	}

	projection, err := h.snapshots.Project(r.Context(), userID, startMonth, startYear, months, income)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) || errors.Is(err, service.ErrInvalidMonthCount) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to generate projection")
		return
	}

	respondJSON(w, http.StatusOK, projection)
}

type typeOutflowResponse struct {
	Type         model.ContractType `json:"type"`
	StartMonth   int                `json:"startMonth"`
	StartYear    int                `json:"startYear"`
	MonthCount   int                `json:"monthCount"`
	TotalOutflow decimal.Decimal    `json:"totalOutflow"`
}

// TypeOutflow sums a single contract type's outflow over the requested
// horizon, using the same walk as a full projection.
func (h *ProjectionHandler) TypeOutflow(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	contractType := model.ContractType(r.URL.Query().Get("type"))
	if !contractType.IsValid() {
		respondError(w, http.StatusBadRequest, "type must be 'reducing', 'growing' or 'fixed'")
		return
	}

	startMonth, startYear, months, ok := h.parseHorizon(w, r)
	if !ok {
		return
	}

	total, err := h.snapshots.TypeOutflow(r.Context(), userID, contractType, startMonth, startYear, months)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) || errors.Is(err, service.ErrInvalidMonthCount) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to compute outflow")
		return
	}

	respondJSON(w, http.StatusOK, typeOutflowResponse{
		Type:         contractType,
		StartMonth:   int(startMonth),
		StartYear:    startYear,
		MonthCount:   months,
		TotalOutflow: total,
	})
}

// parseHorizon reads the startMonth/startYear/months query params, defaulting
// to the current month and a 12-month horizon.
func (h *ProjectionHandler) parseHorizon(w http.ResponseWriter, r *http.Request) (time.Month, int, int, bool) {
	query := r.URL.Query()

	now := h.now().UTC()
	startMonth := now.Month()
	startYear := now.Year()

	if raw := query.Get("startMonth"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			respondError(w, http.StatusBadRequest, "startMonth must be between 1 and 12")
			return 0, 0, 0, false
		}
		startMonth = time.Month(m)
	}
	if raw := query.Get("startYear"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			respondError(w, http.StatusBadRequest, "invalid startYear")
			return 0, 0, 0, false
		}
		startYear = y
	}

	months := 12
	if raw := query.Get("months"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > maxProjectionMonths {
			respondError(w, http.StatusBadRequest, "months must be between 1 and 360")
			return 0, 0, 0, false
		}
		months = m
	}

	return startMonth, startYear, months, true
}
