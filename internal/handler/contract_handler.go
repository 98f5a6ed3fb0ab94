package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ledgerpath/backend/internal/model"
	"github.com/ledgerpath/backend/internal/service"
)

type ContractHandler struct {
	service ContractServiceInterface
}

func NewContractHandler(service ContractServiceInterface) *ContractHandler {
	return &ContractHandler{service: service}
}

// Create adds a new contract for the current user.
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input service.CreateContractInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contract, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		if isContractValidationErr(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create contract")
		return
	}

	respondJSON(w, http.StatusCreated, contract)
}

// Get returns one contract by ID.
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	contract, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, http.StatusNotFound, "contract not found")
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

// List returns all contracts for the current user.
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	contracts, err := h.service.List(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list contracts")
		return
	}

	respondJSON(w, http.StatusOK, contracts)
}

// Update modifies an existing contract.
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input service.UpdateContractInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contract, err := h.service.Update(r.Context(), userID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContractNotFound):
			respondError(w, http.StatusNotFound, "contract not found")
		case isContractValidationErr(err):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update contract")
		}
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

// Delete removes a contract.
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		respondError(w, http.StatusNotFound, "contract not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Pause suspends a contract's contributions.
func (h *ContractHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Pause)
}

// Resume reactivates a paused contract.
func (h *ContractHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Resume)
}

// Close marks a contract closed.
func (h *ContractHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Close)
}

func (h *ContractHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, id uuid.UUID) (*model.Contract, error)) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	contract, err := fn(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			respondError(w, http.StatusNotFound, "contract not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update contract status")
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

// isContractValidationErr reports whether the error is a caller mistake
// rather than a server fault.
func isContractValidationErr(err error) bool {
	return errors.Is(err, service.ErrInvalidAmount) ||
		errors.Is(err, service.ErrInvalidType) ||
		errors.Is(err, service.ErrInvalidStatus) ||
		errors.Is(err, model.ErrMetadataMismatch)
}
