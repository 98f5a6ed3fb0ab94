package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/repository"
	"github.com/ledgerpath/backend/internal/service"
)

type SnapshotHandler struct {
	snapshots SnapshotServiceInterface
	users     UserServiceInterface
	now       func() time.Time
}

func NewSnapshotHandler(snapshots SnapshotServiceInterface, users UserServiceInterface) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots, users: users, now: time.Now}
}

// Current computes this month's snapshot on the fly.
func (h *SnapshotHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	income, ok := h.resolveIncome(w, r)
	if !ok {
		return
	}

	now := h.now().UTC()
	snapshot, err := h.snapshots.Compute(r.Context(), userID, now.Month(), now.Year(), income)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute snapshot")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// ByMonth computes a snapshot for an arbitrary month from current contract
// state.
func (h *SnapshotHandler) ByMonth(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	month, year, ok := parseMonthYear(w, r)
	if !ok {
		return
	}

	income, ok := h.resolveIncome(w, r)
	if !ok {
		return
	}

	snapshot, err := h.snapshots.Compute(r.Context(), userID, month, year, income)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to compute snapshot")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// Stored returns the persisted snapshot for a closed month.
func (h *SnapshotHandler) Stored(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	month, year, ok := parseMonthYear(w, r)
	if !ok {
		return
	}

	snapshot, err := h.snapshots.GetStored(r.Context(), userID, month, year)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			respondError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// History lists all persisted snapshots, newest first.
func (h *SnapshotHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	snapshots, err := h.snapshots.History(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}

	respondJSON(w, http.StatusOK, snapshots)
}

// CloseMonth persists the month's canonical snapshot and rolls contract state
// forward.
func (h *SnapshotHandler) CloseMonth(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	month, year, ok := parseMonthYear(w, r)
	if !ok {
		return
	}

	income, ok := h.resolveIncome(w, r)
	if !ok {
		return
	}

	snapshot, err := h.snapshots.CloseMonth(r.Context(), userID, month, year, income)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to close month")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// resolveIncome takes income from the query string when present, otherwise
// from the user's profile.
func (h *SnapshotHandler) resolveIncome(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	if raw := r.URL.Query().Get("income"); raw != "" {
		income, err := parseDecimal(raw)
		if err != nil || income.IsNegative() {
			respondError(w, http.StatusBadRequest, "invalid income")
			return decimal.Zero, false
		}
		return income, true
	}

	user, err := h.users.GetByID(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load user profile")
		return decimal.Zero, false
	}
	return user.MonthlyIncome, true
}

// parseMonthYear reads {year} and {month} URL params.
func parseMonthYear(w http.ResponseWriter, r *http.Request) (time.Month, int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		respondError(w, http.StatusBadRequest, "invalid year")
		return 0, 0, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return 0, 0, false
	}
	return time.Month(month), year, true
}
