package httptransport

import (
	"net/http"

	"bracket-arbiter/internal/events"
	"bracket-arbiter/internal/ledger"
	"bracket-arbiter/internal/reputation"
	"bracket-arbiter/internal/tournament"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	coord    *tournament.Coordinator
	ledger   *ledger.Ledger
	registry reputation.Registry
	events   *events.Buffer
}

func NewHandlers(coord *tournament.Coordinator, led *ledger.Ledger, registry reputation.Registry, buf *events.Buffer) *Handlers {
	return &Handlers{coord: coord, ledger: led, registry: registry, events: buf}
}

func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLogMiddleware())

		api.Get("/events", h.EventFeed())

		api.Route("/tournaments", func(tr chi.Router) {
			tr.Get("/", h.ListTournaments())
			tr.Get("/{id}", h.TournamentDetails())
			tr.Get("/{id}/matches", h.TournamentMatches())
			tr.Get("/{id}/rounds/{round}/winners", h.RoundWinners())

			tr.Group(func(g chi.Router) {
				g.Use(requireWallet)
				g.Post("/", h.CreateTournament())
				g.Post("/{id}/register", h.RegisterForTournament())
				g.Post("/{id}/start", h.StartTournament())
				g.Post("/{id}/cancel", h.CancelTournament())
			})
		})

		api.Route("/matches", func(mr chi.Router) {
			mr.Get("/{id}", h.MatchDetails())
			mr.Get("/{id}/jurors", h.MatchJurors())
			mr.Get("/{id}/logs", h.MatchLogs())

			mr.Group(func(g chi.Router) {
				g.Use(requireWallet)
				g.Post("/{id}/join", h.JoinMatch())
				g.Post("/{id}/commit", h.CommitResult())
				g.Post("/{id}/reveal", h.RevealResult())
				g.Post("/{id}/commit-reveal", h.CommitAndRevealResult())
				g.Post("/{id}/jury-vote", h.JoinJuryAndVote())
				g.Post("/{id}/logs", h.StoreMatchLog())
			})
		})

		api.Route("/participants", func(pr chi.Router) {
			pr.Get("/{wallet}/reputation", h.ParticipantReputation())
			pr.Get("/{wallet}/balance", h.ParticipantBalance())
		})
	})

	return r
}
