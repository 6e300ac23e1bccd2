package match

type Status string

const (
	StatusPending   Status = "pending"
	StatusCommit    Status = "commit"
	StatusReveal    Status = "reveal"
	StatusDispute   Status = "dispute"
	StatusCompleted Status = "completed"
)

// Slot is one participant's side of a match.
type Slot struct {
	Wallet     string
	Joined     bool
	Commitment string
	Stake      int64
	Revealed   bool
	ClaimedWin bool
	Log        string
}

// Vote is a single juror ballot. Choice is 1 or 2, for the slot the juror
// believes won. Votes are ordered by arrival.
type Vote struct {
	Juror      string
	Choice     int
	Collateral int64
}

type State struct {
	ID             string
	TournamentID   string
	Round          int
	Idx            int
	EntryFee       int64
	JuryCollateral int64
	Slots          [2]*Slot
	Status         Status
	Winner         string
	Escrow         int64
	Votes          []Vote
}

// Snapshot is the read-only projection served over HTTP.
type Snapshot struct {
	ID             string   `json:"id"`
	TournamentID   string   `json:"tournament_id"`
	Round          int      `json:"round"`
	Index          int      `json:"index"`
	Player1        string   `json:"player1"`
	Player2        string   `json:"player2"`
	Player1Joined  bool     `json:"player1_joined"`
	Player2Joined  bool     `json:"player2_joined"`
	Status         string   `json:"status"`
	Winner         string   `json:"winner,omitempty"`
	EntryFee       int64    `json:"entry_fee"`
	JuryCollateral int64    `json:"jury_collateral"`
	Escrow         int64    `json:"escrow"`
	Jurors         []string `json:"jurors"`
	Log1           string   `json:"log1,omitempty"`
	Log2           string   `json:"log2,omitempty"`
}

func (s *State) snapshot() Snapshot {
	jurors := make([]string, 0, len(s.Votes))
	for _, v := range s.Votes {
		jurors = append(jurors, v.Juror)
	}
	return Snapshot{
		ID:             s.ID,
		TournamentID:   s.TournamentID,
		Round:          s.Round,
		Index:          s.Idx,
		Player1:        s.Slots[0].Wallet,
		Player2:        s.Slots[1].Wallet,
		Player1Joined:  s.Slots[0].Joined,
		Player2Joined:  s.Slots[1].Joined,
		Status:         string(s.Status),
		Winner:         s.Winner,
		EntryFee:       s.EntryFee,
		JuryCollateral: s.JuryCollateral,
		Escrow:         s.Escrow,
		Jurors:         jurors,
		Log1:           s.Slots[0].Log,
		Log2:           s.Slots[1].Log,
	}
}
