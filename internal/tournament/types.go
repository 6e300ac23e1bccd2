package tournament

import "time"

type Status string

const (
	StatusRegistration Status = "registration"
	StatusInProgress   Status = "in_progress"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

type Tournament struct {
	ID              string
	Name            string
	Description     string
	Creator         string
	EntryFee        int64
	MaxParticipants int
	StartTime       time.Time
	Status          Status
	Participants    []string
	CurrentRound    int
	TotalRounds     int
	PrizePool       int64
	Champion        string
	CreatedAt       time.Time
}

// Snapshot is the read-only projection served over HTTP.
type Snapshot struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Creator         string    `json:"creator"`
	EntryFee        int64     `json:"entry_fee"`
	MaxParticipants int       `json:"max_participants"`
	StartTime       time.Time `json:"start_time"`
	Status          string    `json:"status"`
	Participants    []string  `json:"participants"`
	CurrentRound    int       `json:"current_round"`
	TotalRounds     int       `json:"total_rounds"`
	PrizePool       int64     `json:"prize_pool"`
	Champion        string    `json:"champion,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (t *Tournament) snapshot() Snapshot {
	participants := make([]string, len(t.Participants))
	copy(participants, t.Participants)
	return Snapshot{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Creator:         t.Creator,
		EntryFee:        t.EntryFee,
		MaxParticipants: t.MaxParticipants,
		StartTime:       t.StartTime,
		Status:          string(t.Status),
		Participants:    participants,
		CurrentRound:    t.CurrentRound,
		TotalRounds:     t.TotalRounds,
		PrizePool:       t.PrizePool,
		Champion:        t.Champion,
		CreatedAt:       t.CreatedAt,
	}
}
