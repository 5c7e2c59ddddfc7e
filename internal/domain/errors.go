package domain

import "errors"

// Error taxonomy returned by every core operation. The web layer maps each
// to an HTTP status with errors.Is; nothing in the core panics.
var (
	ErrNotFound     = errors.New("not found")     // Referenced entity does not exist
	ErrConflict     = errors.New("conflict")      // State precondition violated
	ErrUnauthorized = errors.New("unauthorized")  // Actor lacks rights over the resource
	ErrValidation   = errors.New("invalid input") // Malformed input fields
)
