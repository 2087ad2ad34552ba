package utils

import "errors"

// Common application errors used across services.
var (
	ErrNotFound         = errors.New("NOT_FOUND")
	ErrInvalidInput     = errors.New("INVALID_INPUT")
	ErrModelUnavailable = errors.New("MODEL_UNAVAILABLE")
	ErrInvalidToken     = errors.New("INVALID_TOKEN")
)
