package match

import (
	"context"

	"bracket-arbiter/internal/events"
	"bracket-arbiter/internal/ledger"
	"bracket-arbiter/internal/reputation"
	"bracket-arbiter/internal/store"
)

// Factory produces match engines on behalf of the scheduler, so the
// scheduler never touches engine construction details.
type Factory struct {
	Ledger         *ledger.Ledger
	Registry       reputation.Registry
	Store          *store.Store // optional
	Events         *events.Buffer
	JuryCollateral int64
}

func (f *Factory) NewMatch(ctx context.Context, tournamentID string, round, idx int, player1, player2 string, entryFee int64, onComplete ResultSink) *Engine {
	state := &State{
		ID:             store.NewID(),
		TournamentID:   tournamentID,
		Round:          round,
		Idx:            idx,
		EntryFee:       entryFee,
		JuryCollateral: f.JuryCollateral,
		Slots:          [2]*Slot{{Wallet: player1}, {Wallet: player2}},
		Status:         StatusPending,
	}
	e := &Engine{
		ledger:     f.Ledger,
		registry:   f.Registry,
		store:      f.Store,
		events:     f.Events,
		state:      state,
		onComplete: onComplete,
	}
	if f.Store != nil {
		_ = f.Store.InsertMatch(ctx, store.Match{
			ID:           state.ID,
			TournamentID: tournamentID,
			Round:        round,
			Idx:          idx,
			Player1:      player1,
			Player2:      player2,
			Status:       string(StatusPending),
		})
	}
	if f.Events != nil {
		f.Events.Append(events.MatchCreated, state.ID, map[string]any{
			"tournament_id": tournamentID,
			"round":         round,
			"match_id":      state.ID,
		})
	}
	return e
}
