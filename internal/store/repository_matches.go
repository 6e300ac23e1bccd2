package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) InsertMatch(ctx context.Context, m Match) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO matches (id, tournament_id, round, idx, player1, player2, status, winner, escrow)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.TournamentID, m.Round, m.Idx, m.Player1, m.Player2, m.Status, m.Winner, m.Escrow)
	return err
}

func (s *Store) UpdateMatch(ctx context.Context, id, status, winner string, escrow int64) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE matches SET status = $1, winner = $2, escrow = $3 WHERE id = $4`, status, winner, escrow, id)
	return err
}

func (s *Store) UpdateMatchLog(ctx context.Context, id string, slot int, contentID string) error {
	col := "log1"
	if slot == 1 {
		col = "log2"
	}
	_, err := s.DB.ExecContext(ctx, `UPDATE matches SET `+col+` = $1 WHERE id = $2`, contentID, id)
	return err
}

func (s *Store) GetMatch(ctx context.Context, id string) (*Match, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, tournament_id, round, idx, player1, player2, status, winner, escrow, log1, log2, created_at
		FROM matches WHERE id = $1`, id)
	var m Match
	if err := row.Scan(&m.ID, &m.TournamentID, &m.Round, &m.Idx, &m.Player1, &m.Player2, &m.Status, &m.Winner, &m.Escrow, &m.Log1, &m.Log2, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListTournamentMatches(ctx context.Context, tournamentID string) ([]Match, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, tournament_id, round, idx, player1, player2, status, winner, escrow, log1, log2, created_at
		FROM matches WHERE tournament_id = $1 ORDER BY round ASC, idx ASC`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Match{}
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.TournamentID, &m.Round, &m.Idx, &m.Player1, &m.Player2, &m.Status, &m.Winner, &m.Escrow, &m.Log1, &m.Log2, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) InsertJuror(ctx context.Context, j Juror) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO match_jurors (match_id, wallet, choice, collateral) VALUES ($1,$2,$3,$4)`, j.MatchID, j.Wallet, j.Choice, j.Collateral)
	return err
}

func (s *Store) ListMatchJurors(ctx context.Context, matchID string) ([]Juror, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT match_id, wallet, choice, collateral, created_at FROM match_jurors WHERE match_id = $1 ORDER BY created_at ASC`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Juror{}
	for rows.Next() {
		var j Juror
		if err := rows.Scan(&j.MatchID, &j.Wallet, &j.Choice, &j.Collateral, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}
