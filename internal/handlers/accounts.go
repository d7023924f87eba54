package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mkalobwe/atm-ledger/internal/models"
	"github.com/mkalobwe/atm-ledger/internal/money"
	"github.com/mkalobwe/atm-ledger/internal/service"
)

type createAccountRequest struct {
	Username      string `json:"username"`
	PIN           string `json:"pin"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	Balance       string `json:"balance"`
}

// GetAccount handles GET /api/users/{id}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDFromPath(r)
	if err != nil {
		h.writeErrorCode(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	acct, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

// CreateAccount handles POST /api/users
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorCode(w, http.StatusBadRequest, service.ErrCodeInvalidAccount, "malformed request body")
		return
	}

	// Starting balance defaults to zero; unlike deposits, "0.00" is allowed here
	balanceCents := int64(0)
	if req.Balance != "" {
		cents, err := money.ParseAmount(req.Balance)
		if err != nil || cents < 0 {
			h.writeErrorCode(w, http.StatusBadRequest, service.ErrCodeInvalidAmount, "invalid starting balance")
			return
		}
		balanceCents = cents
	}

	acct, err := h.accounts.CreateAccount(r.Context(), &models.Account{
		Username:      req.Username,
		PIN:           req.PIN,
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		BalanceCents:  balanceCents,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toAccountResponse(acct))
}
