package tournament

import "errors"

var (
	ErrNotFound        = errors.New("tournament_not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrInvalidState    = errors.New("invalid_state")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrDuplicateAction = errors.New("duplicate_action")
	ErrPaymentMismatch = errors.New("payment_mismatch")
	ErrCapacity        = errors.New("capacity_exceeded")
	ErrTooEarly        = errors.New("too_early")
)
