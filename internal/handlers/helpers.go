package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mkalobwe/atm-ledger/internal/models"
	"github.com/mkalobwe/atm-ledger/internal/money"
	"github.com/mkalobwe/atm-ledger/internal/service"
)

// accountResponse is the client-facing view of an account. The PIN is the
// one field that never crosses this boundary.
type accountResponse struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	Balance       string `json:"balance"`
}

// transactionResponse is the client-facing view of a ledger entry. Amounts
// are two-decimal strings and timestamps are ISO-8601.
type transactionResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balanceAfter"`
	ReferenceID  string `json:"referenceId"`
	Timestamp    string `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func toAccountResponse(acct *models.Account) accountResponse {
	return accountResponse{
		ID:            acct.ID,
		Username:      acct.Username,
		Name:          acct.Name,
		AccountNumber: acct.AccountNumber,
		Balance:       money.FormatCents(acct.BalanceCents),
	}
}

func toTransactionResponse(txn *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:           txn.ID,
		UserID:       txn.AccountID,
		Type:         string(txn.Type),
		Amount:       money.FormatCents(txn.AmountCents),
		BalanceAfter: money.FormatCents(txn.BalanceAfterCents),
		ReferenceID:  txn.ReferenceID,
		Timestamp:    txn.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to the appropriate HTTP response
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	svcErr := extractServiceError(err)
	if svcErr == nil {
		h.logger.Error("unexpected error", "error", err)
		h.writeErrorCode(w, http.StatusInternalServerError, service.ErrCodeInternalError, "internal error")
		return
	}

	status := statusForCode(svcErr.Code)
	if status == http.StatusInternalServerError {
		h.logger.Error("internal service error", "code", svcErr.Code, "error", err)
	}
	h.writeErrorCode(w, status, svcErr.Code, svcErr.Message)
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case service.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case service.ErrCodeInvalidAmount, service.ErrCodeInvalidAccount:
		return http.StatusBadRequest
	case service.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case service.ErrCodeDuplicateAccount:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// accountIDFromPath parses the {id} path segment
func accountIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseAmountField converts a boundary amount string ("50.00") to positive
// cents. Malformed and non-positive values both read as an invalid amount.
func parseAmountField(amount string) (int64, *service.ServiceError) {
	cents, err := money.ParseAmount(amount)
	if err != nil {
		return 0, &service.ServiceError{
			Code:    service.ErrCodeInvalidAmount,
			Message: err.Error(),
		}
	}
	if cents <= 0 {
		return 0, &service.ServiceError{
			Code:    service.ErrCodeInvalidAmount,
			Message: "invalid amount: must be greater than 0",
		}
	}
	return cents, nil
}
