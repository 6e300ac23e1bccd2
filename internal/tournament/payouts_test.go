package tournament

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bracket-arbiter/internal/ledger"
)

// failingBank rejects credits of the configured entry types.
type failingBank struct {
	*ledger.MemBank
	mu        sync.Mutex
	failTypes map[string]bool
}

func newFailingBank(initial int64) *failingBank {
	return &failingBank{
		MemBank:   ledger.NewMemBank(initial),
		failTypes: map[string]bool{},
	}
}

func (b *failingBank) setFail(entryType string, fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failTypes[entryType] = fail
}

func (b *failingBank) Credit(ctx context.Context, wallet string, amount int64, entryType, refType, refID string) (int64, error) {
	b.mu.Lock()
	fail := b.failTypes[entryType]
	b.mu.Unlock()
	if fail {
		return 0, errors.New("bank_unavailable")
	}
	return b.MemBank.Credit(ctx, wallet, amount, entryType, refType, refID)
}

func TestFailedPrizePayoutParkedAndRetried(t *testing.T) {
	bank := newFailingBank(testInitial)
	f := newCoordFixtureWithBank(t, bank)
	ctx := context.Background()
	id := f.create(t, "a", 2)
	f.register(t, id, "a", "b")
	if err := f.coord.Start(ctx, "a", id); err != nil {
		t.Fatalf("start: %v", err)
	}

	bank.setFail("prize_credit", true)
	matches, _ := f.coord.Matches(id)
	f.playAgreement(t, matches[0].ID)

	snap, err := f.coord.Details(id)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if snap.Status != string(StatusCompleted) || snap.Champion != "a" {
		t.Fatalf("after final: %+v", snap)
	}
	pending := f.coord.PendingPayouts()
	if len(pending) != 1 || pending[0].Kind != PayoutPrize || pending[0].Wallet != "a" || pending[0].Amount != 2*testFee {
		t.Fatalf("pending %+v", pending)
	}
	if got := f.balance(t, "a"); got != testInitial {
		t.Fatalf("prize should still be owed, balance %d", got)
	}

	// A retry against a still-broken bank keeps the payout parked.
	if err := f.coord.FlushPendingPayouts(ctx); err == nil {
		t.Fatal("flush against broken bank should fail")
	}
	if got := f.coord.PendingPayouts(); len(got) != 1 {
		t.Fatalf("payout dropped on failed retry: %+v", got)
	}

	bank.setFail("prize_credit", false)
	if err := f.coord.FlushPendingPayouts(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := f.coord.PendingPayouts(); len(got) != 0 {
		t.Fatalf("pending not drained: %+v", got)
	}
	if got := f.balance(t, "a"); got != testInitial+2*testFee {
		t.Fatalf("champion balance %d", got)
	}
}

func TestFailedCancelRefundsParked(t *testing.T) {
	bank := newFailingBank(testInitial)
	f := newCoordFixtureWithBank(t, bank)
	ctx := context.Background()
	id := f.create(t, "a", 4)
	f.register(t, id, "a", "b")

	bank.setFail("registration_refund", true)
	if err := f.coord.Cancel(ctx, "a", id); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	pending := f.coord.PendingPayouts()
	if len(pending) != 2 {
		t.Fatalf("expected both refunds parked, got %+v", pending)
	}
	for _, p := range pending {
		if p.Kind != PayoutRefund || p.Amount != testFee {
			t.Fatalf("unexpected parked payout %+v", p)
		}
	}

	bank.setFail("registration_refund", false)
	if err := f.coord.FlushPendingPayouts(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	for _, w := range []string{"a", "b"} {
		if got := f.balance(t, w); got != testInitial {
			t.Fatalf("%s not made whole, balance %d", w, got)
		}
	}
}
