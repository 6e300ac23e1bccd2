package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ParticipantReputation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet := chi.URLParam(r, "wallet")
		score, err := h.registry.ReputationOf(r.Context(), wallet)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		stake, err := h.registry.StakeAmountFor(r.Context(), wallet)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"wallet":         wallet,
			"reputation":     score,
			"required_stake": stake,
		})
	}
}

func (h *Handlers) ParticipantBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet := chi.URLParam(r, "wallet")
		balance, err := h.ledger.Balance(r.Context(), wallet)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, map[string]any{"wallet": wallet, "balance": balance})
	}
}
