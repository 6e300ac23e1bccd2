package store

import "context"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS accounts (
	wallet TEXT PRIMARY KEY,
	balance BIGINT NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id TEXT PRIMARY KEY,
	wallet TEXT NOT NULL,
	type TEXT NOT NULL,
	amount BIGINT NOT NULL,
	ref_type TEXT NOT NULL,
	ref_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ledger_entries_wallet_idx ON ledger_entries (wallet, created_at);

CREATE TABLE IF NOT EXISTS reputations (
	wallet TEXT PRIMARY KEY,
	score BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tournaments (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	creator TEXT NOT NULL,
	entry_fee BIGINT NOT NULL,
	max_participants INT NOT NULL,
	start_time TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL,
	current_round INT NOT NULL DEFAULT 0,
	total_rounds INT NOT NULL,
	prize_pool BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tournament_participants (
	tournament_id TEXT NOT NULL REFERENCES tournaments (id),
	wallet TEXT NOT NULL,
	position INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tournament_id, wallet)
);

CREATE TABLE IF NOT EXISTS matches (
	id TEXT PRIMARY KEY,
	tournament_id TEXT NOT NULL REFERENCES tournaments (id),
	round INT NOT NULL,
	idx INT NOT NULL,
	player1 TEXT NOT NULL,
	player2 TEXT NOT NULL,
	status TEXT NOT NULL,
	winner TEXT NOT NULL DEFAULT '',
	escrow BIGINT NOT NULL DEFAULT 0,
	log1 TEXT NOT NULL DEFAULT '',
	log2 TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS matches_tournament_idx ON matches (tournament_id, round, idx);

CREATE TABLE IF NOT EXISTS match_jurors (
	match_id TEXT NOT NULL REFERENCES matches (id),
	wallet TEXT NOT NULL,
	choice INT NOT NULL,
	collateral BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (match_id, wallet)
);
`

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schemaDDL)
	return err
}
