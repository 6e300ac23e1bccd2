package reputation

import (
	"context"
	"sync"
)

type MemScores struct {
	mu     sync.Mutex
	scores map[string]int64
}

func NewMemScores() *MemScores {
	return &MemScores{scores: map[string]int64{}}
}

func (m *MemScores) GetReputation(ctx context.Context, wallet string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.scores[wallet]
	return score, ok, nil
}

func (m *MemScores) AdjustReputation(ctx context.Context, wallet string, delta, initial, min, max int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.scores[wallet]
	if !ok {
		score = initial
	}
	score += delta
	if score < min {
		score = min
	}
	if score > max {
		score = max
	}
	m.scores[wallet] = score
	return score, nil
}
