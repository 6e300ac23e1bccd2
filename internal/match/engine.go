package match

import (
	"context"
	"sync"

	"bracket-arbiter/internal/events"
	"bracket-arbiter/internal/ledger"
	"bracket-arbiter/internal/reputation"
	"bracket-arbiter/internal/store"
)

// A dispute needs at least this many ballots before a strict lead resolves
// it. A lone first vote is never decisive; a 2-0 split is.
const minJuryVotes = 2

// ResultSink is invoked exactly once, at the transition into the completed
// state. The scheduler uses it to harvest round winners.
type ResultSink func(matchID, winner string)

// Engine runs the outcome-agreement protocol for a single match. External
// callers race to invoke operations; the engine serializes them and each
// call either completes its transition or fails with state unchanged.
type Engine struct {
	mu         sync.Mutex
	ledger     *ledger.Ledger
	registry   reputation.Registry
	store      *store.Store // optional write-through
	events     *events.Buffer
	state      *State
	onComplete ResultSink
}

func (e *Engine) ID() string { return e.state.ID }

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Status
}

// Winner is empty until the match completes.
func (e *Engine) Winner() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Winner
}

func (e *Engine) Jurors() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.state.Votes))
	for _, v := range e.state.Votes {
		out = append(out, v.Juror)
	}
	return out
}

func (e *Engine) IsJuror(wallet string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voteIndex(wallet) >= 0
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.snapshot()
}

// Join escrows the caller's entry fee. When both participants have joined
// the match moves to the commit phase.
func (e *Engine) Join(ctx context.Context, caller string, payment int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	if s.Status != StatusPending {
		return ErrInvalidState
	}
	idx := e.slotIndex(caller)
	if idx < 0 {
		return ErrUnauthorized
	}
	slot := s.Slots[idx]
	if slot.Joined {
		return ErrDuplicateAction
	}
	if payment != s.EntryFee {
		return ErrPaymentMismatch
	}
	if _, err := e.ledger.DebitEntryFee(ctx, caller, s.ID, payment); err != nil {
		return err
	}
	slot.Joined = true
	s.Escrow += payment
	e.emit(events.ParticipantJoined, map[string]any{"match_id": s.ID, "wallet": caller})
	if s.Slots[0].Joined && s.Slots[1].Joined {
		s.Status = StatusCommit
	}
	e.persist(ctx)
	return nil
}

// Commit stores the caller's hash commitment together with their result
// stake, sized from the registry at call time.
func (e *Engine) Commit(ctx context.Context, caller, commitment string, payment int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	if s.Status != StatusCommit {
		return ErrInvalidState
	}
	idx := e.slotIndex(caller)
	if idx < 0 {
		return ErrUnauthorized
	}
	slot := s.Slots[idx]
	if slot.Commitment != "" {
		return ErrDuplicateAction
	}
	required, err := e.registry.StakeAmountFor(ctx, caller)
	if err != nil {
		return err
	}
	if payment != required {
		return ErrPaymentMismatch
	}
	if _, err := e.ledger.DebitStake(ctx, caller, s.ID, payment); err != nil {
		return err
	}
	slot.Commitment = commitment
	slot.Stake = payment
	s.Escrow += payment
	if s.Slots[0].Commitment != "" && s.Slots[1].Commitment != "" {
		s.Status = StatusReveal
	}
	e.persist(ctx)
	return nil
}

// Reveal discloses the secret behind the commitment and the caller's claim.
// When both sides have revealed, agreeing claims settle the match and
// conflicting claims open a dispute.
func (e *Engine) Reveal(ctx context.Context, caller, secret string, claimedWin bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	if s.Status != StatusReveal {
		return ErrInvalidState
	}
	idx := e.slotIndex(caller)
	if idx < 0 {
		return ErrUnauthorized
	}
	slot := s.Slots[idx]
	if slot.Revealed {
		return ErrDuplicateAction
	}
	if Commitment(secret) != slot.Commitment {
		return ErrCommitmentMismatch
	}
	slot.Revealed = true
	slot.ClaimedWin = claimedWin
	if s.Slots[0].Revealed && s.Slots[1].Revealed {
		return e.resolveClaims(ctx)
	}
	e.persist(ctx)
	return nil
}

// CommitAndReveal performs commit and reveal in one call. The commitment is
// derived from the supplied secret by the engine itself, so this path can
// never carry an unverified claim; what it trades away is the anti-grief
// property of committing before the opponent reports.
func (e *Engine) CommitAndReveal(ctx context.Context, caller, secret string, claimedWin bool, payment int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	if s.Status != StatusCommit {
		return ErrInvalidState
	}
	idx := e.slotIndex(caller)
	if idx < 0 {
		return ErrUnauthorized
	}
	slot := s.Slots[idx]
	if slot.Commitment != "" {
		return ErrDuplicateAction
	}
	required, err := e.registry.StakeAmountFor(ctx, caller)
	if err != nil {
		return err
	}
	if payment != required {
		return ErrPaymentMismatch
	}
	if _, err := e.ledger.DebitStake(ctx, caller, s.ID, payment); err != nil {
		return err
	}
	slot.Commitment = Commitment(secret)
	slot.Stake = payment
	slot.Revealed = true
	slot.ClaimedWin = claimedWin
	s.Escrow += payment
	if s.Slots[0].Commitment != "" && s.Slots[1].Commitment != "" {
		s.Status = StatusReveal
	}
	if s.Slots[0].Revealed && s.Slots[1].Revealed {
		return e.resolveClaims(ctx)
	}
	e.persist(ctx)
	return nil
}

// JoinJuryAndVote records a third-party ballot on a disputed match, with
// collateral. Each ballot re-checks for a decisive majority.
func (e *Engine) JoinJuryAndVote(ctx context.Context, caller string, choice int, payment int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	if s.Status != StatusDispute {
		return ErrInvalidState
	}
	if e.slotIndex(caller) >= 0 {
		return ErrUnauthorized
	}
	if choice != 1 && choice != 2 {
		return ErrInvalidVote
	}
	if e.voteIndex(caller) >= 0 {
		return ErrDuplicateAction
	}
	if payment != s.JuryCollateral {
		return ErrPaymentMismatch
	}
	if _, err := e.ledger.DebitJuryCollateral(ctx, caller, s.ID, payment); err != nil {
		return err
	}
	s.Votes = append(s.Votes, Vote{Juror: caller, Choice: choice, Collateral: payment})
	s.Escrow += payment
	if e.store != nil {
		_ = e.store.InsertJuror(ctx, store.Juror{MatchID: s.ID, Wallet: caller, Choice: choice, Collateral: payment})
	}
	e.emit(events.JuryVote, map[string]any{"match_id": s.ID, "juror": caller})

	var tally [3]int
	for _, v := range s.Votes {
		tally[v.Choice]++
	}
	if len(s.Votes) >= minJuryVotes && tally[1] != tally[2] {
		verdict := 1
		if tally[2] > tally[1] {
			verdict = 2
		}
		return e.settleVerdict(ctx, verdict)
	}
	e.persist(ctx)
	return nil
}

// StoreLog records an opaque content identifier for the caller's match log.
// The engine never interprets the content.
func (e *Engine) StoreLog(ctx context.Context, caller, contentID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.slotIndex(caller)
	if idx < 0 {
		return ErrUnauthorized
	}
	e.state.Slots[idx].Log = contentID
	if e.store != nil {
		_ = e.store.UpdateMatchLog(ctx, e.state.ID, idx, contentID)
	}
	return nil
}

func (e *Engine) Logs() (string, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Slots[0].Log, e.state.Slots[1].Log
}

func (e *Engine) slotIndex(wallet string) int {
	for i, slot := range e.state.Slots {
		if slot.Wallet == wallet {
			return i
		}
	}
	return -1
}

func (e *Engine) voteIndex(wallet string) int {
	for i, v := range e.state.Votes {
		if v.Juror == wallet {
			return i
		}
	}
	return -1
}

// resolveClaims runs once both reveals are in. One win claim and one loss
// claim settle immediately; two win claims or two loss claims disagree and
// open the dispute path.
func (e *Engine) resolveClaims(ctx context.Context) error {
	s := e.state
	if s.Slots[0].ClaimedWin == s.Slots[1].ClaimedWin {
		s.Status = StatusDispute
		e.persist(ctx)
		e.emit(events.DisputeOpened, map[string]any{
			"match_id":      s.ID,
			"tournament_id": s.TournamentID,
			"round":         s.Round,
		})
		return nil
	}
	winIdx := 0
	if s.Slots[1].ClaimedWin {
		winIdx = 1
	}
	return e.settleAgreed(ctx, winIdx)
}

// settleAgreed is the single settlement point for the agreement path:
// both entry fees to the winner, both stakes returned, reputation raised
// for the truthful pair. Escrow drains to zero.
func (e *Engine) settleAgreed(ctx context.Context, winIdx int) error {
	s := e.state
	winner := s.Slots[winIdx].Wallet
	if _, err := e.ledger.CreditFees(ctx, winner, s.ID, 2*s.EntryFee); err != nil {
		return err
	}
	s.Escrow -= 2 * s.EntryFee
	for _, slot := range s.Slots {
		if _, err := e.ledger.CreditStakeReturn(ctx, slot.Wallet, s.ID, slot.Stake); err != nil {
			return err
		}
		s.Escrow -= slot.Stake
		if err := e.registry.Adjust(ctx, slot.Wallet, reputation.DeltaAgreement); err != nil {
			return err
		}
	}
	e.complete(ctx, winner)
	return nil
}

// settleVerdict is the single settlement point for the jury path. The
// claimant whose report matches the verdict keeps their stake; the other
// forfeits it. The forfeited stake plus minority collateral funds the
// majority jurors' reward.
func (e *Engine) settleVerdict(ctx context.Context, verdict int) error {
	s := e.state
	winIdx := verdict - 1
	winner := s.Slots[winIdx].Wallet

	if _, err := e.ledger.CreditFees(ctx, winner, s.ID, 2*s.EntryFee); err != nil {
		return err
	}
	s.Escrow -= 2 * s.EntryFee

	var pool int64
	for i, slot := range s.Slots {
		honest := slot.ClaimedWin == (i == winIdx)
		if honest {
			if _, err := e.ledger.CreditStakeReturn(ctx, slot.Wallet, s.ID, slot.Stake); err != nil {
				return err
			}
			s.Escrow -= slot.Stake
			if err := e.registry.Adjust(ctx, slot.Wallet, reputation.DeltaHonestClaim); err != nil {
				return err
			}
		} else {
			pool += slot.Stake
			if err := e.registry.Adjust(ctx, slot.Wallet, reputation.DeltaFalseClaim); err != nil {
				return err
			}
		}
	}

	majority := make([]Vote, 0, len(s.Votes))
	for _, v := range s.Votes {
		if v.Choice == verdict {
			majority = append(majority, v)
			continue
		}
		pool += v.Collateral
		if err := e.registry.Adjust(ctx, v.Juror, reputation.DeltaMinorityJuror); err != nil {
			return err
		}
	}

	reward := pool / int64(len(majority))
	remainder := pool % int64(len(majority))
	for i, v := range majority {
		payout := v.Collateral + reward
		if i == 0 {
			payout += remainder
		}
		if _, err := e.ledger.CreditJuryCollateralReturn(ctx, v.Juror, s.ID, v.Collateral); err != nil {
			return err
		}
		if _, err := e.ledger.CreditJuryReward(ctx, v.Juror, s.ID, payout-v.Collateral); err != nil {
			return err
		}
		if err := e.registry.Adjust(ctx, v.Juror, reputation.DeltaMajorityJuror); err != nil {
			return err
		}
	}
	s.Escrow -= pool
	for _, v := range majority {
		s.Escrow -= v.Collateral
	}

	e.complete(ctx, winner)
	return nil
}

func (e *Engine) complete(ctx context.Context, winner string) {
	s := e.state
	s.Status = StatusCompleted
	s.Winner = winner
	e.persist(ctx)
	e.emit(events.MatchCompleted, map[string]any{
		"match_id":      s.ID,
		"tournament_id": s.TournamentID,
		"round":         s.Round,
		"winner":        winner,
	})
	if e.onComplete != nil {
		e.onComplete(s.ID, winner)
	}
}

func (e *Engine) persist(ctx context.Context) {
	if e.store == nil {
		return
	}
	s := e.state
	_ = e.store.UpdateMatch(ctx, s.ID, string(s.Status), s.Winner, s.Escrow)
}

func (e *Engine) emit(event string, data any) {
	if e.events == nil {
		return
	}
	e.events.Append(event, e.state.ID, data)
}
