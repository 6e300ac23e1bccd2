package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"bracket-arbiter/internal/match"
	"bracket-arbiter/internal/tournament"
)

type errorResponse struct {
	Error string `json:"error"`
}

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: code})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

// writeDomainError maps protocol error kinds onto HTTP statuses so a caller
// can tell a retryable failure (wrong payment) from a permanent one
// (duplicate action).
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tournament.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, match.ErrUnauthorized), errors.Is(err, tournament.ErrUnauthorized):
		WriteHTTPError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, match.ErrInvalidState), errors.Is(err, tournament.ErrInvalidState),
		errors.Is(err, match.ErrDuplicateAction), errors.Is(err, tournament.ErrDuplicateAction),
		errors.Is(err, tournament.ErrCapacity), errors.Is(err, tournament.ErrTooEarly):
		WriteHTTPError(w, http.StatusConflict, err.Error())
	case errors.Is(err, match.ErrPaymentMismatch), errors.Is(err, tournament.ErrPaymentMismatch),
		errors.Is(err, match.ErrCommitmentMismatch), errors.Is(err, match.ErrInvalidVote),
		errors.Is(err, tournament.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, err.Error())
	case err.Error() == "insufficient_balance":
		WriteHTTPError(w, http.StatusBadRequest, "insufficient_balance")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
