package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *Store) EnsureAccount(ctx context.Context, wallet string, initial int64) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO accounts (wallet, balance) VALUES ($1,$2) ON CONFLICT (wallet) DO NOTHING`, wallet, initial)
	return err
}

func (s *Store) Balance(ctx context.Context, wallet string) (int64, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE wallet = $1`, wallet)
	var bal int64
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return bal, nil
}

func (s *Store) recordLedgerEntry(ctx context.Context, tx *sql.Tx, wallet, entryType string, amount int64, refType, refID string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO ledger_entries (id, wallet, type, amount, ref_type, ref_id) VALUES ($1,$2,$3,$4,$5,$6)`, NewID(), wallet, entryType, amount, refType, refID)
	return err
}

func (s *Store) Debit(ctx context.Context, wallet string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, errors.New("amount must be positive")
	}
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var bal int64
	row := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE wallet = $1 FOR UPDATE`, wallet)
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Unfunded wallet. Funding happens out of band.
			return 0, errors.New("insufficient_balance")
		}
		return 0, err
	}
	if bal < amount {
		return 0, errors.New("insufficient_balance")
	}
	newBal := bal - amount
	_, err = tx.ExecContext(ctx, `UPDATE accounts SET balance = $1, updated_at = now() WHERE wallet = $2`, newBal, wallet)
	if err != nil {
		return 0, err
	}
	if err := s.recordLedgerEntry(ctx, tx, wallet, entryType, -amount, refType, refID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBal, nil
}

func (s *Store) Credit(ctx context.Context, wallet string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, errors.New("amount must be positive")
	}
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var bal int64
	row := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE wallet = $1 FOR UPDATE`, wallet)
	if err := row.Scan(&bal); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO accounts (wallet, balance) VALUES ($1, 0)`, wallet); err != nil {
			return 0, err
		}
		bal = 0
	}
	newBal := bal + amount
	_, err = tx.ExecContext(ctx, `UPDATE accounts SET balance = $1, updated_at = now() WHERE wallet = $2`, newBal, wallet)
	if err != nil {
		return 0, err
	}
	if err := s.recordLedgerEntry(ctx, tx, wallet, entryType, amount, refType, refID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBal, nil
}

type LedgerFilter struct {
	Wallet  string
	MatchID string
	From    *time.Time
	To      *time.Time
}

func (s *Store) ListLedgerEntries(ctx context.Context, f LedgerFilter, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	where := "WHERE 1=1"
	args := []any{}
	if f.Wallet != "" {
		args = append(args, f.Wallet)
		where += fmt.Sprintf(" AND wallet = $%d", len(args))
	}
	if f.MatchID != "" {
		args = append(args, f.MatchID)
		where += fmt.Sprintf(" AND ref_type = 'match' AND ref_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	q := `SELECT id, wallet, type, amount, ref_type, ref_id, created_at FROM ledger_entries ` + where + ` ORDER BY created_at DESC LIMIT $` + fmt.Sprintf("%d", len(args)-1) + ` OFFSET $` + fmt.Sprintf("%d", len(args))
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LedgerEntry{}
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.Wallet, &e.Type, &e.Amount, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
