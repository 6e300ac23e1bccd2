package store

import (
	"context"
	"database/sql"
	"errors"
)

// GetReputation returns the stored score and whether the wallet has one.
func (s *Store) GetReputation(ctx context.Context, wallet string) (int64, bool, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT score FROM reputations WHERE wallet = $1`, wallet)
	var score int64
	if err := row.Scan(&score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return score, true, nil
}

// AdjustReputation applies delta to the wallet's score, creating the row at
// initial if absent, clamped to [min, max]. Returns the new score.
func (s *Store) AdjustReputation(ctx context.Context, wallet string, delta, initial, min, max int64) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO reputations (wallet, score) VALUES ($1,$2) ON CONFLICT (wallet) DO NOTHING`, wallet, initial); err != nil {
		return 0, err
	}
	var score int64
	row := tx.QueryRowContext(ctx, `SELECT score FROM reputations WHERE wallet = $1 FOR UPDATE`, wallet)
	if err := row.Scan(&score); err != nil {
		return 0, err
	}
	score += delta
	if score < min {
		score = min
	}
	if score > max {
		score = max
	}
	if _, err := tx.ExecContext(ctx, `UPDATE reputations SET score = $1, updated_at = now() WHERE wallet = $2`, score, wallet); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return score, nil
}
