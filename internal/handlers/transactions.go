package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mkalobwe/atm-ledger/internal/models"
	"github.com/mkalobwe/atm-ledger/internal/service"
)

type transactionRequest struct {
	Amount string `json:"amount"`
}

// mutationResponse pairs the updated account with the ledger entry that
// recorded the mutation.
type mutationResponse struct {
	User        accountResponse     `json:"user"`
	Transaction transactionResponse `json:"transaction"`
}

// Deposit handles POST /api/users/{id}/deposit
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.handleMutation(w, r, h.txns.Deposit)
}

// Withdraw handles POST /api/users/{id}/withdraw
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.handleMutation(w, r, h.txns.Withdraw)
}

func (h *Handler) handleMutation(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, accountID, amountCents int64) (*models.Account, *models.Transaction, error),
) {
	id, err := accountIDFromPath(r)
	if err != nil {
		h.writeErrorCode(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorCode(w, http.StatusBadRequest, service.ErrCodeInvalidAmount, "malformed request body")
		return
	}

	amountCents, svcErr := parseAmountField(req.Amount)
	if svcErr != nil {
		h.writeServiceError(w, svcErr)
		return
	}

	acct, txn, err := op(r.Context(), id, amountCents)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, mutationResponse{
		User:        toAccountResponse(acct),
		Transaction: toTransactionResponse(txn),
	})
}

// ListTransactions handles GET /api/users/{id}/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDFromPath(r)
	if err != nil {
		h.writeErrorCode(w, http.StatusNotFound, service.ErrCodeAccountNotFound, "account not found")
		return
	}

	txns, err := h.txns.ListTransactions(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, toTransactionResponse(txn))
	}

	h.writeJSON(w, http.StatusOK, out)
}
