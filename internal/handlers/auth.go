package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mkalobwe/atm-ledger/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

type loginResponse struct {
	User accountResponse `json:"user"`
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorCode(w, http.StatusBadRequest, service.ErrCodeInvalidAccount, "malformed request body")
		return
	}

	if err := service.ValidateUsername(req.Username); err != nil {
		h.writeErrorCode(w, http.StatusBadRequest, service.ErrCodeInvalidAccount, err.Error())
		return
	}
	if err := service.ValidatePIN(req.PIN); err != nil {
		h.writeErrorCode(w, http.StatusBadRequest, service.ErrCodeInvalidAccount, err.Error())
		return
	}

	acct, err := h.auth.Authenticate(r.Context(), req.Username, req.PIN)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{User: toAccountResponse(acct)})
}
