package models

import "errors"

// Domain errors that can be returned by store implementations
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateAccount indicates an account with the same username or
	// account number already exists
	ErrDuplicateAccount = errors.New("duplicate account")

	// ErrDuplicateReference indicates a transaction with the same reference_id
	// already exists
	ErrDuplicateReference = errors.New("duplicate reference")
)
