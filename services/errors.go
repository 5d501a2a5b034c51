package services

import "errors"

// Failure taxonomy shared by handlers. Validation and auth errors are
// surfaced to the caller; cooldown rejections are silent no-ops carried in
// the result value, never as an error.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAuthRequired = errors.New("authentication required")
)
