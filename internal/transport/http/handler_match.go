package httptransport

import (
	"net/http"

	"bracket-arbiter/internal/match"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) matchEngine(w http.ResponseWriter, r *http.Request) (*match.Engine, bool) {
	e, ok := h.coord.MatchEngine(chi.URLParam(r, "id"))
	if !ok {
		WriteHTTPError(w, http.StatusNotFound, "match_not_found")
		return nil, false
	}
	return e, true
}

type joinRequest struct {
	Payment int64 `json:"payment"`
}

func (h *Handlers) JoinMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		var req joinRequest
		if !decodeJSON(r, &req) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := e.Join(r.Context(), callerWallet(r), req.Payment); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, e.Snapshot())
	}
}

type commitRequest struct {
	Commitment string `json:"commitment"`
	Payment    int64  `json:"payment"`
}

func (h *Handlers) CommitResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		var req commitRequest
		if !decodeJSON(r, &req) || req.Commitment == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := e.Commit(r.Context(), callerWallet(r), req.Commitment, req.Payment); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, e.Snapshot())
	}
}

type revealRequest struct {
	Secret     string `json:"secret"`
	ClaimedWin bool   `json:"claimed_win"`
}

func (h *Handlers) RevealResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		var req revealRequest
		if !decodeJSON(r, &req) || req.Secret == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := e.Reveal(r.Context(), callerWallet(r), req.Secret, req.ClaimedWin); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, e.Snapshot())
	}
}

type commitRevealRequest struct {
	Secret     string `json:"secret"`
	ClaimedWin bool   `json:"claimed_win"`
	Payment    int64  `json:"payment"`
}

func (h *Handlers) CommitAndRevealResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		var req commitRevealRequest
		if !decodeJSON(r, &req) || req.Secret == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := e.CommitAndReveal(r.Context(), callerWallet(r), req.Secret, req.ClaimedWin, req.Payment); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, e.Snapshot())
	}
}

type juryVoteRequest struct {
	Choice  int   `json:"choice"`
	Payment int64 `json:"payment"`
}

func (h *Handlers) JoinJuryAndVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		var req juryVoteRequest
		if !decodeJSON(r, &req) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := e.JoinJuryAndVote(r.Context(), callerWallet(r), req.Choice, req.Payment); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, e.Snapshot())
	}
}

type matchLogRequest struct {
	ContentID string `json:"content_id"`
}

func (h *Handlers) StoreMatchLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		var req matchLogRequest
		if !decodeJSON(r, &req) || req.ContentID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := e.StoreLog(r.Context(), callerWallet(r), req.ContentID); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "stored"})
	}
}

func (h *Handlers) MatchLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		log1, log2 := e.Logs()
		writeJSON(w, map[string]string{"log1": log1, "log2": log2})
	}
}

func (h *Handlers) MatchDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		writeJSON(w, e.Snapshot())
	}
}

func (h *Handlers) MatchJurors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.matchEngine(w, r)
		if !ok {
			return
		}
		resp := map[string]any{"jurors": e.Jurors()}
		if wallet := r.URL.Query().Get("wallet"); wallet != "" {
			resp["is_juror"] = e.IsJuror(wallet)
		}
		writeJSON(w, resp)
	}
}
