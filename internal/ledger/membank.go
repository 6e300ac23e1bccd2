package ledger

import (
	"context"
	"errors"
	"sync"
)

// MemBank keeps balances in memory. First-seen wallets are seeded with the
// initial balance, which stands in for the external wallet layer funding
// accounts out of band.
type MemBank struct {
	mu       sync.Mutex
	initial  int64
	balances map[string]int64
}

func NewMemBank(initial int64) *MemBank {
	return &MemBank{
		initial:  initial,
		balances: map[string]int64{},
	}
}

func (b *MemBank) touch(wallet string) int64 {
	bal, ok := b.balances[wallet]
	if !ok {
		bal = b.initial
		b.balances[wallet] = bal
	}
	return bal
}

func (b *MemBank) Debit(ctx context.Context, wallet string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, errors.New("amount must be positive")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	bal := b.touch(wallet)
	if bal < amount {
		return 0, errors.New("insufficient_balance")
	}
	bal -= amount
	b.balances[wallet] = bal
	return bal, nil
}

func (b *MemBank) Credit(ctx context.Context, wallet string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, errors.New("amount must be positive")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	bal := b.touch(wallet) + amount
	b.balances[wallet] = bal
	return bal, nil
}

func (b *MemBank) Balance(ctx context.Context, wallet string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.touch(wallet), nil
}
