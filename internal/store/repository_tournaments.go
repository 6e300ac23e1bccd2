package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) InsertTournament(ctx context.Context, t Tournament) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, description, creator, entry_fee, max_participants, start_time, status, current_round, total_rounds, prize_pool)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		t.ID, t.Name, t.Description, t.Creator, t.EntryFee, t.MaxParticipants, t.StartTime, t.Status, t.CurrentRound, t.TotalRounds, t.PrizePool)
	return err
}

func (s *Store) UpdateTournament(ctx context.Context, id, status string, currentRound int, prizePool int64) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE tournaments SET status = $1, current_round = $2, prize_pool = $3 WHERE id = $4`, status, currentRound, prizePool, id)
	return err
}

func (s *Store) GetTournament(ctx context.Context, id string) (*Tournament, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, description, creator, entry_fee, max_participants, start_time, status, current_round, total_rounds, prize_pool, created_at
		FROM tournaments WHERE id = $1`, id)
	var t Tournament
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Creator, &t.EntryFee, &t.MaxParticipants, &t.StartTime, &t.Status, &t.CurrentRound, &t.TotalRounds, &t.PrizePool, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTournaments(ctx context.Context, limit, offset int) ([]Tournament, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, description, creator, entry_fee, max_participants, start_time, status, current_round, total_rounds, prize_pool, created_at
		FROM tournaments ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Tournament{}
	for rows.Next() {
		var t Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Creator, &t.EntryFee, &t.MaxParticipants, &t.StartTime, &t.Status, &t.CurrentRound, &t.TotalRounds, &t.PrizePool, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) AddTournamentParticipant(ctx context.Context, tournamentID, wallet string, position int) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO tournament_participants (tournament_id, wallet, position) VALUES ($1,$2,$3)`, tournamentID, wallet, position)
	return err
}

func (s *Store) ListTournamentParticipants(ctx context.Context, tournamentID string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT wallet FROM tournament_participants WHERE tournament_id = $1 ORDER BY position ASC`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
