package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type createTournamentRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	EntryFee        int64  `json:"entry_fee"`
	MaxParticipants int    `json:"max_participants"`
	StartTime       int64  `json:"start_time"` // unix seconds
}

func (h *Handlers) CreateTournament() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if !decodeJSON(r, &req) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		snap, err := h.coord.Create(r.Context(), callerWallet(r), req.Name, req.Description, req.EntryFee, req.MaxParticipants, time.Unix(req.StartTime, 0))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, snap)
	}
}

func (h *Handlers) ListTournaments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": h.coord.List()})
	}
}

func (h *Handlers) TournamentDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.coord.Details(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, snap)
	}
}

type registerRequest struct {
	Payment int64 `json:"payment"`
}

func (h *Handlers) RegisterForTournament() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeJSON(r, &req) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.coord.Register(r.Context(), callerWallet(r), chi.URLParam(r, "id"), req.Payment); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "registered"})
	}
}

func (h *Handlers) StartTournament() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.coord.Start(r.Context(), callerWallet(r), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "started"})
	}
}

func (h *Handlers) CancelTournament() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.coord.Cancel(r.Context(), callerWallet(r), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "cancelled"})
	}
}

func (h *Handlers) TournamentMatches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.coord.Matches(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, map[string]any{"items": items})
	}
}

func (h *Handlers) RoundWinners() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := strconv.Atoi(chi.URLParam(r, "round"))
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		winners, derr := h.coord.RoundWinners(chi.URLParam(r, "id"), round)
		if derr != nil {
			writeDomainError(w, derr)
			return
		}
		writeJSON(w, map[string]any{"round": round, "winners": winners})
	}
}
