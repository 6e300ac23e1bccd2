package match

import "errors"

var (
	ErrInvalidState       = errors.New("invalid_state")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDuplicateAction    = errors.New("duplicate_action")
	ErrPaymentMismatch    = errors.New("payment_mismatch")
	ErrCommitmentMismatch = errors.New("commitment_mismatch")
	ErrInvalidVote        = errors.New("invalid_vote")
)
