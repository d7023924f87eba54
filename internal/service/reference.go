package service

import (
	"strings"

	"github.com/google/uuid"
)

// referencePrefix is the display prefix for transaction reference codes
const referencePrefix = "TXN"

// NewReferenceID generates a transaction reference code: "TXN" followed by
// six uppercase hex characters taken from a fresh UUID. Uniqueness is
// ultimately enforced by the store; callers retry on collision.
func NewReferenceID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return referencePrefix + strings.ToUpper(hex[:6])
}
