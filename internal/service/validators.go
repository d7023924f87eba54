package service

import "fmt"

// ValidateAmount checks that a cents amount is positive
func ValidateAmount(amountCents int64) error {
	if amountCents <= 0 {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}
	return nil
}

// ValidatePIN checks that a PIN is exactly four digits
func ValidatePIN(pin string) error {
	if len(pin) != 4 {
		return fmt.Errorf("invalid PIN: must be exactly 4 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid PIN: must contain only digits")
		}
	}
	return nil
}

// ValidateUsername checks that a username is present
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}
