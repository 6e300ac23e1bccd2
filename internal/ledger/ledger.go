package ledger

import "context"

// Bank moves funds between per-wallet balances and records an audit entry
// per movement. Implemented by store.Store and by MemBank.
type Bank interface {
	Debit(ctx context.Context, wallet string, amount int64, entryType, refType, refID string) (int64, error)
	Credit(ctx context.Context, wallet string, amount int64, entryType, refType, refID string) (int64, error)
	Balance(ctx context.Context, wallet string) (int64, error)
}

type Ledger struct {
	Bank Bank
}

func New(b Bank) *Ledger {
	return &Ledger{Bank: b}
}

func (l *Ledger) Balance(ctx context.Context, wallet string) (int64, error) {
	return l.Bank.Balance(ctx, wallet)
}

func (l *Ledger) DebitEntryFee(ctx context.Context, wallet, matchID string, amount int64) (int64, error) {
	return l.Bank.Debit(ctx, wallet, amount, "entry_fee_debit", "match", matchID)
}

func (l *Ledger) CreditFees(ctx context.Context, wallet, matchID string, amount int64) (int64, error) {
	return l.Bank.Credit(ctx, wallet, amount, "fee_payout_credit", "match", matchID)
}

func (l *Ledger) DebitStake(ctx context.Context, wallet, matchID string, amount int64) (int64, error) {
	return l.Bank.Debit(ctx, wallet, amount, "result_stake_debit", "match", matchID)
}

func (l *Ledger) CreditStakeReturn(ctx context.Context, wallet, matchID string, amount int64) (int64, error) {
	return l.Bank.Credit(ctx, wallet, amount, "result_stake_return", "match", matchID)
}

func (l *Ledger) DebitJuryCollateral(ctx context.Context, wallet, matchID string, amount int64) (int64, error) {
	return l.Bank.Debit(ctx, wallet, amount, "jury_collateral_debit", "match", matchID)
}

func (l *Ledger) CreditJuryCollateralReturn(ctx context.Context, wallet, matchID string, amount int64) (int64, error) {
	return l.Bank.Credit(ctx, wallet, amount, "jury_collateral_return", "match", matchID)
}

func (l *Ledger) CreditJuryReward(ctx context.Context, wallet, matchID string, amount int64) (int64, error) {
	return l.Bank.Credit(ctx, wallet, amount, "jury_reward_credit", "match", matchID)
}

func (l *Ledger) DebitRegistration(ctx context.Context, wallet, tournamentID string, amount int64) (int64, error) {
	return l.Bank.Debit(ctx, wallet, amount, "registration_debit", "tournament", tournamentID)
}

func (l *Ledger) CreditRegistrationRefund(ctx context.Context, wallet, tournamentID string, amount int64) (int64, error) {
	return l.Bank.Credit(ctx, wallet, amount, "registration_refund", "tournament", tournamentID)
}

func (l *Ledger) CreditPrize(ctx context.Context, wallet, tournamentID string, amount int64) (int64, error) {
	return l.Bank.Credit(ctx, wallet, amount, "prize_credit", "tournament", tournamentID)
}
