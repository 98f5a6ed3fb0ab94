package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ledgerpath/backend/internal/service"
)

type AuthHandler struct {
	userService UserServiceInterface
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register creates a new account and returns a signed token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if input.Email == "" || input.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	resp, err := h.userService.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(w, http.StatusConflict, "email already in use")
		case errors.Is(err, service.ErrUnsupportedCurrency):
			respondError(w, http.StatusBadRequest, "unsupported currency")
		case errors.Is(err, service.ErrInvalidIncome):
			respondError(w, http.StatusBadRequest, "monthly income must not be negative")
		default:
			respondError(w, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.userService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateSettings updates name, currency and monthly income.
func (h *AuthHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input service.UpdateSettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateSettings(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedCurrency):
			respondError(w, http.StatusBadRequest, "unsupported currency")
		case errors.Is(err, service.ErrInvalidIncome):
			respondError(w, http.StatusBadRequest, "monthly income must not be negative")
		default:
			respondError(w, http.StatusInternalServerError, "failed to update settings")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}
