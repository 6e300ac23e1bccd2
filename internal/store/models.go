package store

import "time"

type Account struct {
	Wallet    string
	Balance   int64
	UpdatedAt time.Time
}

type LedgerEntry struct {
	ID        string
	Wallet    string
	Type      string
	Amount    int64
	RefType   string
	RefID     string
	CreatedAt time.Time
}

type Reputation struct {
	Wallet    string
	Score     int64
	UpdatedAt time.Time
}

type Tournament struct {
	ID              string
	Name            string
	Description     string
	Creator         string
	EntryFee        int64
	MaxParticipants int
	StartTime       time.Time
	Status          string
	CurrentRound    int
	TotalRounds     int
	PrizePool       int64
	CreatedAt       time.Time
}

type Match struct {
	ID           string
	TournamentID string
	Round        int
	Idx          int
	Player1      string
	Player2      string
	Status       string
	Winner       string
	Escrow       int64
	Log1         string
	Log2         string
	CreatedAt    time.Time
}

type Juror struct {
	MatchID    string
	Wallet     string
	Choice     int
	Collateral int64
	CreatedAt  time.Time
}
