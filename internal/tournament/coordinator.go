package tournament

import (
	"context"
	"math/bits"
	"sort"
	"sync"
	"time"

	"bracket-arbiter/internal/events"
	"bracket-arbiter/internal/ledger"
	"bracket-arbiter/internal/match"
	"bracket-arbiter/internal/store"

	"github.com/rs/zerolog/log"
)

type matchRef struct {
	tournamentID string
	round        int
	idx          int
}

// Payout kinds parked when a settlement-time credit fails.
const (
	PayoutPrize  = "prize"
	PayoutRefund = "registration_refund"
)

// PendingPayout is a credit the bank rejected at settlement time. It stays
// owed until FlushPendingPayouts lands it.
type PendingPayout struct {
	TournamentID string
	Wallet       string
	Amount       int64
	Kind         string
}

// Coordinator owns tournament state and holds match engines by handle.
// Engines own their match state; the coordinator only learns of results
// through the completion callback.
//
// Lock order: an engine callback may take c.mu while holding its own lock,
// so the coordinator never calls into an engine while holding c.mu.
type Coordinator struct {
	ledger  *ledger.Ledger
	factory *match.Factory
	store   *store.Store // optional write-through
	events  *events.Buffer
	now     func() time.Time

	mu          sync.Mutex
	tournaments map[string]*Tournament
	engines     map[string]*match.Engine
	refs        map[string]matchRef
	rounds      map[string]map[int][]string // tournament -> round -> ordered match ids
	winners     map[string]map[int][]string // tournament -> round -> winner per match idx
	pending     []PendingPayout
}

func NewCoordinator(led *ledger.Ledger, factory *match.Factory, st *store.Store, buf *events.Buffer) *Coordinator {
	return &Coordinator{
		ledger:      led,
		factory:     factory,
		store:       st,
		events:      buf,
		now:         time.Now,
		tournaments: map[string]*Tournament{},
		engines:     map[string]*match.Engine{},
		refs:        map[string]matchRef{},
		rounds:      map[string]map[int][]string{},
		winners:     map[string]map[int][]string{},
	}
}

// SetClock overrides the scheduler's clock.
func (c *Coordinator) SetClock(now func() time.Time) {
	c.now = now
}

func isPowerOfTwo(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

// Create registers a new tournament in the registration phase.
// maxParticipants must be a power of two >= 2; odd field sizes are rejected
// here, never padded with byes at runtime.
func (c *Coordinator) Create(ctx context.Context, caller, name, description string, entryFee int64, maxParticipants int, startTime time.Time) (Snapshot, error) {
	if caller == "" || name == "" || entryFee <= 0 {
		return Snapshot{}, ErrInvalidRequest
	}
	if !isPowerOfTwo(maxParticipants) {
		return Snapshot{}, ErrCapacity
	}
	t := &Tournament{
		ID:              store.NewID(),
		Name:            name,
		Description:     description,
		Creator:         caller,
		EntryFee:        entryFee,
		MaxParticipants: maxParticipants,
		StartTime:       startTime,
		Status:          StatusRegistration,
		TotalRounds:     bits.TrailingZeros(uint(maxParticipants)),
		CreatedAt:       c.now().UTC(),
	}

	c.mu.Lock()
	c.tournaments[t.ID] = t
	c.rounds[t.ID] = map[int][]string{}
	c.winners[t.ID] = map[int][]string{}
	snap := t.snapshot()
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.InsertTournament(ctx, store.Tournament{
			ID:              t.ID,
			Name:            t.Name,
			Description:     t.Description,
			Creator:         t.Creator,
			EntryFee:        t.EntryFee,
			MaxParticipants: t.MaxParticipants,
			StartTime:       t.StartTime,
			Status:          string(t.Status),
			TotalRounds:     t.TotalRounds,
		})
	}
	c.emit(events.TournamentCreated, t.ID, map[string]any{"name": t.Name, "creator": caller})
	log.Info().Str("tournament_id", t.ID).Str("name", t.Name).Msg("tournament created")
	return snap, nil
}

// registrable reports whether caller may still take a slot. Caller holds c.mu.
func registrable(t *Tournament, caller string) error {
	if t.Status != StatusRegistration {
		return ErrInvalidState
	}
	if len(t.Participants) >= t.MaxParticipants {
		return ErrCapacity
	}
	for _, p := range t.Participants {
		if p == caller {
			return ErrDuplicateAction
		}
	}
	return nil
}

// Register admits the caller, debiting the entry fee into the prize pool.
// Preconditions are checked twice: once before the debit to fail fast, and
// again after it, because the debit runs outside c.mu and a racing caller,
// cancel, or start can change the tournament in that window. A registration
// that loses the race gets its fee back.
func (c *Coordinator) Register(ctx context.Context, caller, tournamentID string, payment int64) error {
	c.mu.Lock()
	t, ok := c.tournaments[tournamentID]
	if !ok {
		c.mu.Unlock()
		return ErrNotFound
	}
	if err := registrable(t, caller); err != nil {
		c.mu.Unlock()
		return err
	}
	if payment != t.EntryFee {
		c.mu.Unlock()
		return ErrPaymentMismatch
	}
	c.mu.Unlock()

	if _, err := c.ledger.DebitRegistration(ctx, caller, tournamentID, payment); err != nil {
		return err
	}

	c.mu.Lock()
	if err := registrable(t, caller); err != nil {
		c.mu.Unlock()
		c.refundRegistration(ctx, tournamentID, caller, payment)
		return err
	}
	position := len(t.Participants)
	t.Participants = append(t.Participants, caller)
	t.PrizePool += payment
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.AddTournamentParticipant(ctx, tournamentID, caller, position)
	}
	c.persistTournament(ctx, t)
	c.emit(events.ParticipantRegistered, tournamentID, map[string]any{"wallet": caller})
	return nil
}

// Start builds the round-1 bracket by sequential adjacency over registration
// order and moves the tournament in progress. Fails fast with no partial
// bracket when a precondition is unmet.
func (c *Coordinator) Start(ctx context.Context, caller, tournamentID string) error {
	c.mu.Lock()
	t, ok := c.tournaments[tournamentID]
	if !ok {
		c.mu.Unlock()
		return ErrNotFound
	}
	if t.Status != StatusRegistration || len(t.Participants) != t.MaxParticipants {
		c.mu.Unlock()
		return ErrInvalidState
	}
	if c.now().Before(t.StartTime) {
		c.mu.Unlock()
		return ErrTooEarly
	}
	if !c.mayStart(t, caller) {
		c.mu.Unlock()
		return ErrUnauthorized
	}

	t.Status = StatusInProgress
	t.CurrentRound = 1
	c.buildRound(ctx, t, 1, t.Participants)
	c.mu.Unlock()

	c.persistTournament(ctx, t)
	c.emit(events.TournamentStarted, tournamentID, map[string]any{"round": 1})
	log.Info().Str("tournament_id", tournamentID).Msg("tournament started")
	return nil
}

// Cancel refunds all registration fees. Only reachable from registration;
// a running bracket cannot be abandoned.
func (c *Coordinator) Cancel(ctx context.Context, caller, tournamentID string) error {
	c.mu.Lock()
	t, ok := c.tournaments[tournamentID]
	if !ok {
		c.mu.Unlock()
		return ErrNotFound
	}
	if t.Creator != caller {
		c.mu.Unlock()
		return ErrUnauthorized
	}
	if t.Status != StatusRegistration {
		c.mu.Unlock()
		return ErrInvalidState
	}
	t.Status = StatusCancelled
	refunds := make([]string, len(t.Participants))
	copy(refunds, t.Participants)
	fee := t.EntryFee
	t.PrizePool = 0
	c.mu.Unlock()

	for _, wallet := range refunds {
		c.refundRegistration(ctx, tournamentID, wallet, fee)
	}
	c.persistTournament(ctx, t)
	c.emit(events.TournamentCancelled, tournamentID, nil)
	return nil
}

// refundRegistration returns a registration fee, parking it as a pending
// payout when the credit fails so the funds are never silently dropped.
func (c *Coordinator) refundRegistration(ctx context.Context, tournamentID, wallet string, amount int64) {
	if _, err := c.ledger.CreditRegistrationRefund(ctx, wallet, tournamentID, amount); err != nil {
		log.Error().Err(err).Str("wallet", wallet).Str("tournament_id", tournamentID).Msg("registration refund failed")
		c.park(PendingPayout{TournamentID: tournamentID, Wallet: wallet, Amount: amount, Kind: PayoutRefund})
	}
}

func (c *Coordinator) park(p PendingPayout) {
	c.mu.Lock()
	c.pending = append(c.pending, p)
	c.mu.Unlock()
}

// PendingPayouts lists credits that failed at settlement time and await retry.
func (c *Coordinator) PendingPayouts() []PendingPayout {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]PendingPayout, len(c.pending))
	copy(out, c.pending)
	return out
}

// FlushPendingPayouts retries parked credits. Payouts that fail again stay
// parked; the first retry error is returned.
func (c *Coordinator) FlushPendingPayouts(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	var firstErr error
	for _, p := range pending {
		var err error
		switch p.Kind {
		case PayoutPrize:
			_, err = c.ledger.CreditPrize(ctx, p.Wallet, p.TournamentID, p.Amount)
		default:
			_, err = c.ledger.CreditRegistrationRefund(ctx, p.Wallet, p.TournamentID, p.Amount)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			c.park(p)
		}
	}
	return firstErr
}

// mayStart gates starting to the creator or any registered participant.
func (c *Coordinator) mayStart(t *Tournament, caller string) bool {
	if caller == t.Creator {
		return true
	}
	for _, p := range t.Participants {
		if p == caller {
			return true
		}
	}
	return false
}

// buildRound pairs consecutive entrants and instantiates one engine per
// pairing. Caller holds c.mu.
func (c *Coordinator) buildRound(ctx context.Context, t *Tournament, round int, entrants []string) {
	n := len(entrants) / 2
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		e := c.factory.NewMatch(ctx, t.ID, round, i, entrants[2*i], entrants[2*i+1], t.EntryFee, c.matchCompleted)
		c.engines[e.ID()] = e
		c.refs[e.ID()] = matchRef{tournamentID: t.ID, round: round, idx: i}
		ids = append(ids, e.ID())
	}
	c.rounds[t.ID][round] = ids
	c.winners[t.ID][round] = make([]string, n)
}

// matchCompleted harvests a winner into its round slot and advances the
// bracket once the round has no open slots. Called from engine settlement;
// re-checking an incomplete round is a no-op.
func (c *Coordinator) matchCompleted(matchID, winner string) {
	ctx := context.Background()

	c.mu.Lock()
	ref, ok := c.refs[matchID]
	if !ok {
		c.mu.Unlock()
		return
	}
	t := c.tournaments[ref.tournamentID]
	slots := c.winners[ref.tournamentID][ref.round]
	slots[ref.idx] = winner
	if t.Status != StatusInProgress || ref.round != t.CurrentRound {
		c.mu.Unlock()
		return
	}
	for _, w := range slots {
		if w == "" {
			c.mu.Unlock()
			return
		}
	}

	if len(slots) == 1 {
		t.Status = StatusCompleted
		t.Champion = winner
		prize := t.PrizePool
		c.mu.Unlock()

		if _, err := c.ledger.CreditPrize(ctx, winner, t.ID, prize); err != nil {
			log.Error().Err(err).Str("tournament_id", t.ID).Msg("prize payout failed")
			c.park(PendingPayout{TournamentID: t.ID, Wallet: winner, Amount: prize, Kind: PayoutPrize})
		}
		c.persistTournament(ctx, t)
		c.emit(events.TournamentCompleted, t.ID, map[string]any{"champion": winner, "prize": prize})
		log.Info().Str("tournament_id", t.ID).Str("champion", winner).Msg("tournament completed")
		return
	}

	next := ref.round + 1
	t.CurrentRound = next
	advancing := make([]string, len(slots))
	copy(advancing, slots)
	c.buildRound(ctx, t, next, advancing)
	c.mu.Unlock()

	c.persistTournament(ctx, t)
	log.Info().Str("tournament_id", t.ID).Int("round", next).Msg("round advanced")
}

func (c *Coordinator) persistTournament(ctx context.Context, t *Tournament) {
	if c.store == nil {
		return
	}
	c.mu.Lock()
	id, status, round, pool := t.ID, string(t.Status), t.CurrentRound, t.PrizePool
	c.mu.Unlock()
	_ = c.store.UpdateTournament(ctx, id, status, round, pool)
}

func (c *Coordinator) emit(event, refID string, data any) {
	if c.events == nil {
		return
	}
	c.events.Append(event, refID, data)
}

// Details returns the tournament projection.
func (c *Coordinator) Details(tournamentID string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tournaments[tournamentID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return t.snapshot(), nil
}

func (c *Coordinator) List() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Snapshot, 0, len(c.tournaments))
	for _, t := range c.tournaments {
		out = append(out, t.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Matches returns projections of every match in the tournament, in
// (round, idx) order.
func (c *Coordinator) Matches(tournamentID string) ([]match.Snapshot, error) {
	c.mu.Lock()
	t, ok := c.tournaments[tournamentID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrNotFound
	}
	engines := []*match.Engine{}
	for round := 1; round <= t.TotalRounds; round++ {
		for _, id := range c.rounds[tournamentID][round] {
			engines = append(engines, c.engines[id])
		}
	}
	c.mu.Unlock()

	out := make([]match.Snapshot, 0, len(engines))
	for _, e := range engines {
		out = append(out, e.Snapshot())
	}
	return out, nil
}

// RoundWinners returns the winner slots for a round in match order; slots
// of unresolved matches are empty.
func (c *Coordinator) RoundWinners(tournamentID string, round int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tournaments[tournamentID]; !ok {
		return nil, ErrNotFound
	}
	slots, ok := c.winners[tournamentID][round]
	if !ok {
		return nil, ErrInvalidRequest
	}
	out := make([]string, len(slots))
	copy(out, slots)
	return out, nil
}

// MatchEngine resolves a match handle.
func (c *Coordinator) MatchEngine(matchID string) (*match.Engine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.engines[matchID]
	return e, ok
}
