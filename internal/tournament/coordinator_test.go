package tournament

import (
	"context"
	"errors"
	"testing"
	"time"

	"bracket-arbiter/internal/events"
	"bracket-arbiter/internal/ledger"
	"bracket-arbiter/internal/match"
	"bracket-arbiter/internal/reputation"
)

const (
	testInitial    = 1000
	testBaseStake  = 100
	testCollateral = 25
	testFee        = 5
)

type coordFixture struct {
	bank     ledger.Bank
	registry reputation.Registry
	buf      *events.Buffer
	coord    *Coordinator
}

func newCoordFixture(t *testing.T) *coordFixture {
	t.Helper()
	return newCoordFixtureWithBank(t, ledger.NewMemBank(testInitial))
}

func newCoordFixtureWithBank(t *testing.T, bank ledger.Bank) *coordFixture {
	t.Helper()
	f := &coordFixture{
		bank: bank,
		buf:  events.NewBuffer(100),
	}
	f.registry = reputation.NewService(reputation.NewMemScores(), testBaseStake)
	led := ledger.New(f.bank)
	factory := &match.Factory{
		Ledger:         led,
		Registry:       f.registry,
		Events:         f.buf,
		JuryCollateral: testCollateral,
	}
	f.coord = NewCoordinator(led, factory, nil, f.buf)
	return f
}

func (f *coordFixture) create(t *testing.T, creator string, max int) string {
	t.Helper()
	snap, err := f.coord.Create(context.Background(), creator, "cup", "", testFee, max, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return snap.ID
}

func (f *coordFixture) register(t *testing.T, id string, wallets ...string) {
	t.Helper()
	for _, w := range wallets {
		if err := f.coord.Register(context.Background(), w, id, testFee); err != nil {
			t.Fatalf("register %s: %v", w, err)
		}
	}
}

func (f *coordFixture) balance(t *testing.T, wallet string) int64 {
	t.Helper()
	bal, err := f.bank.Balance(context.Background(), wallet)
	if err != nil {
		t.Fatalf("balance %s: %v", wallet, err)
	}
	return bal
}

// playAgreement settles a match by agreement in favor of player1.
func (f *coordFixture) playAgreement(t *testing.T, matchID string) {
	t.Helper()
	ctx := context.Background()
	e, ok := f.coord.MatchEngine(matchID)
	if !ok {
		t.Fatalf("no engine for %s", matchID)
	}
	snap := e.Snapshot()
	for _, p := range []string{snap.Player1, snap.Player2} {
		if err := e.Join(ctx, p, snap.EntryFee); err != nil {
			t.Fatalf("join %s: %v", p, err)
		}
	}
	for _, p := range []string{snap.Player1, snap.Player2} {
		stake, err := f.registry.StakeAmountFor(ctx, p)
		if err != nil {
			t.Fatalf("stake %s: %v", p, err)
		}
		if err := e.CommitAndReveal(ctx, p, "secret-"+p, p == snap.Player1, stake); err != nil {
			t.Fatalf("commit-reveal %s: %v", p, err)
		}
	}
	if e.Winner() != snap.Player1 {
		t.Fatalf("expected %s to win, got %q", snap.Player1, e.Winner())
	}
}

func TestCreateValidation(t *testing.T) {
	f := newCoordFixture(t)
	ctx := context.Background()
	if _, err := f.coord.Create(ctx, "a", "", "", testFee, 4, time.Unix(0, 0)); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("missing name: %v", err)
	}
	for _, max := range []int{0, 1, 3, 6} {
		if _, err := f.coord.Create(ctx, "a", "cup", "", testFee, max, time.Unix(0, 0)); !errors.Is(err, ErrCapacity) {
			t.Fatalf("max %d: %v", max, err)
		}
	}
	snap, err := f.coord.Create(ctx, "a", "cup", "", testFee, 8, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if snap.TotalRounds != 3 {
		t.Fatalf("eight entrants need 3 rounds, got %d", snap.TotalRounds)
	}
	if snap.Status != string(StatusRegistration) {
		t.Fatalf("status %s", snap.Status)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newCoordFixture(t)
	ctx := context.Background()
	id := f.create(t, "a", 2)

	if err := f.coord.Register(ctx, "a", "missing", testFee); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing tournament: %v", err)
	}
	if err := f.coord.Register(ctx, "a", id, testFee+1); !errors.Is(err, ErrPaymentMismatch) {
		t.Fatalf("wrong payment: %v", err)
	}
	f.register(t, id, "a")
	if err := f.coord.Register(ctx, "a", id, testFee); !errors.Is(err, ErrDuplicateAction) {
		t.Fatalf("duplicate: %v", err)
	}
	f.register(t, id, "b")
	if err := f.coord.Register(ctx, "c", id, testFee); !errors.Is(err, ErrCapacity) {
		t.Fatalf("over capacity: %v", err)
	}

	snap, err := f.coord.Details(id)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if snap.PrizePool != 2*testFee {
		t.Fatalf("prize pool %d", snap.PrizePool)
	}
	if got := f.balance(t, "a"); got != testInitial-testFee {
		t.Fatalf("fee not debited, balance %d", got)
	}
}

func TestStartPreconditions(t *testing.T) {
	f := newCoordFixture(t)
	ctx := context.Background()

	snap, err := f.coord.Create(ctx, "a", "cup", "", testFee, 2, time.Unix(5000, 0))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := snap.ID
	f.coord.SetClock(func() time.Time { return time.Unix(1000, 0) })

	if err := f.coord.Start(ctx, "a", id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("start before full: %v", err)
	}
	f.register(t, id, "a", "b")
	if err := f.coord.Start(ctx, "a", id); !errors.Is(err, ErrTooEarly) {
		t.Fatalf("start before start time: %v", err)
	}
	f.coord.SetClock(func() time.Time { return time.Unix(6000, 0) })
	if err := f.coord.Start(ctx, "stranger", id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stranger start: %v", err)
	}
	// Any registered participant may start, not only the creator.
	if err := f.coord.Start(ctx, "b", id); err != nil {
		t.Fatalf("participant start: %v", err)
	}
	if err := f.coord.Start(ctx, "b", id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double start: %v", err)
	}
	if err := f.coord.Register(ctx, "c", id, testFee); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("register after start: %v", err)
	}
}

func TestCancelRefundsRegistrations(t *testing.T) {
	f := newCoordFixture(t)
	ctx := context.Background()
	id := f.create(t, "a", 4)
	f.register(t, id, "a", "b")

	if err := f.coord.Cancel(ctx, "b", id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-creator cancel: %v", err)
	}
	if err := f.coord.Cancel(ctx, "a", id); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	for _, w := range []string{"a", "b"} {
		if got := f.balance(t, w); got != testInitial {
			t.Fatalf("%s not refunded, balance %d", w, got)
		}
	}
	snap, _ := f.coord.Details(id)
	if snap.Status != string(StatusCancelled) || snap.PrizePool != 0 {
		t.Fatalf("after cancel: %+v", snap)
	}
	if err := f.coord.Register(ctx, "c", id, testFee); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("register after cancel: %v", err)
	}
	if err := f.coord.Cancel(ctx, "a", id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double cancel: %v", err)
	}
}

func TestBracketRunsToChampion(t *testing.T) {
	f := newCoordFixture(t)
	ctx := context.Background()
	id := f.create(t, "a", 4)
	f.register(t, id, "a", "b", "c", "d")
	if err := f.coord.Start(ctx, "a", id); err != nil {
		t.Fatalf("start: %v", err)
	}

	matches, err := f.coord.Matches(id)
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 round-1 matches, got %d", len(matches))
	}
	// Registration order pairs adjacent entrants.
	if matches[0].Player1 != "a" || matches[0].Player2 != "b" || matches[1].Player1 != "c" || matches[1].Player2 != "d" {
		t.Fatalf("unexpected pairings: %+v", matches)
	}

	f.playAgreement(t, matches[0].ID)
	f.playAgreement(t, matches[1].ID)

	winners, err := f.coord.RoundWinners(id, 1)
	if err != nil {
		t.Fatalf("round winners: %v", err)
	}
	if len(winners) != 2 || winners[0] != "a" || winners[1] != "c" {
		t.Fatalf("round 1 winners %v", winners)
	}

	matches, err = f.coord.Matches(id)
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected a final to exist, got %d matches", len(matches))
	}
	final := matches[2]
	if final.Round != 2 || final.Player1 != "a" || final.Player2 != "c" {
		t.Fatalf("unexpected final: %+v", final)
	}
	f.playAgreement(t, final.ID)

	snap, err := f.coord.Details(id)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if snap.Status != string(StatusCompleted) || snap.Champion != "a" {
		t.Fatalf("after final: %+v", snap)
	}

	// Champion: registration fee out, two match wins, the 20-unit pool in.
	if got := f.balance(t, "a"); got != testInitial-testFee+testFee+testFee+4*testFee {
		t.Fatalf("champion balance %d", got)
	}
	// Runner-up won round 1 and lost the final.
	if got := f.balance(t, "c"); got != testInitial-testFee+testFee-testFee {
		t.Fatalf("runner-up balance %d", got)
	}
	for _, w := range []string{"b", "d"} {
		if got := f.balance(t, w); got != testInitial-2*testFee {
			t.Fatalf("%s balance %d", w, got)
		}
	}
}

func TestDisputedFinalStillCrownsChampion(t *testing.T) {
	f := newCoordFixture(t)
	ctx := context.Background()
	id := f.create(t, "a", 4)
	f.register(t, id, "a", "b", "c", "d")
	if err := f.coord.Start(ctx, "a", id); err != nil {
		t.Fatalf("start: %v", err)
	}
	matches, _ := f.coord.Matches(id)
	f.playAgreement(t, matches[0].ID)
	f.playAgreement(t, matches[1].ID)

	matches, _ = f.coord.Matches(id)
	final, ok := f.coord.MatchEngine(matches[2].ID)
	if !ok {
		t.Fatalf("no final engine")
	}
	snap := final.Snapshot()
	for _, p := range []string{snap.Player1, snap.Player2} {
		if err := final.Join(ctx, p, snap.EntryFee); err != nil {
			t.Fatalf("join %s: %v", p, err)
		}
	}
	for _, p := range []string{snap.Player1, snap.Player2} {
		stake, err := f.registry.StakeAmountFor(ctx, p)
		if err != nil {
			t.Fatalf("stake %s: %v", p, err)
		}
		if err := final.CommitAndReveal(ctx, p, "secret-"+p, true, stake); err != nil {
			t.Fatalf("commit-reveal %s: %v", p, err)
		}
	}
	if got := final.Status(); got != match.StatusDispute {
		t.Fatalf("conflicting claims should dispute, got %s", got)
	}
	for _, j := range []string{"j1", "j2"} {
		if err := final.JoinJuryAndVote(ctx, j, 1, testCollateral); err != nil {
			t.Fatalf("vote %s: %v", j, err)
		}
	}

	snapT, err := f.coord.Details(id)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if snapT.Status != string(StatusCompleted) || snapT.Champion != "a" {
		t.Fatalf("after disputed final: %+v", snapT)
	}
	if snapT.PrizePool != 4*testFee {
		t.Fatalf("prize pool %d", snapT.PrizePool)
	}
}

func TestPartialRoundDoesNotAdvance(t *testing.T) {
	f := newCoordFixture(t)
	ctx := context.Background()
	id := f.create(t, "a", 4)
	f.register(t, id, "a", "b", "c", "d")
	if err := f.coord.Start(ctx, "a", id); err != nil {
		t.Fatalf("start: %v", err)
	}
	matches, _ := f.coord.Matches(id)
	f.playAgreement(t, matches[0].ID)

	snap, _ := f.coord.Details(id)
	if snap.CurrentRound != 1 {
		t.Fatalf("round advanced early: %+v", snap)
	}
	if got, _ := f.coord.Matches(id); len(got) != 2 {
		t.Fatalf("final built early, %d matches", len(got))
	}
	winners, _ := f.coord.RoundWinners(id, 1)
	if winners[0] != "a" || winners[1] != "" {
		t.Fatalf("winners %v", winners)
	}
}

func TestListOrdersByCreation(t *testing.T) {
	f := newCoordFixture(t)
	base := time.Unix(9000, 0)
	step := 0
	f.coord.SetClock(func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	})
	first := f.create(t, "a", 2)
	second := f.create(t, "a", 2)
	items := f.coord.List()
	if len(items) != 2 || items[0].ID != first || items[1].ID != second {
		t.Fatalf("list order wrong: %+v", items)
	}
}
