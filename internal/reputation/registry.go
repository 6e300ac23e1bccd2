package reputation

import "context"

const (
	InitialScore int64 = 100
	MinScore     int64 = 0
	MaxScore     int64 = 200
)

// Settlement deltas. Applied exactly once per match, at the transition
// into the completed state.
const (
	DeltaAgreement     int64 = 1
	DeltaHonestClaim   int64 = 2
	DeltaFalseClaim    int64 = -2
	DeltaMajorityJuror int64 = 1
	DeltaMinorityJuror int64 = -1
)

// Registry is the per-wallet trust score service. Unknown wallets read as
// InitialScore rather than failing.
type Registry interface {
	ReputationOf(ctx context.Context, wallet string) (int64, error)
	StakeAmountFor(ctx context.Context, wallet string) (int64, error)
	Adjust(ctx context.Context, wallet string, delta int64) error
}

// ScoreStore persists raw scores. Implemented by store.Store and MemScores.
type ScoreStore interface {
	GetReputation(ctx context.Context, wallet string) (int64, bool, error)
	AdjustReputation(ctx context.Context, wallet string, delta, initial, min, max int64) (int64, error)
}

type Service struct {
	scores    ScoreStore
	baseStake int64
}

func NewService(scores ScoreStore, baseStake int64) *Service {
	return &Service{scores: scores, baseStake: baseStake}
}

func (s *Service) ReputationOf(ctx context.Context, wallet string) (int64, error) {
	score, ok, err := s.scores.GetReputation(ctx, wallet)
	if err != nil {
		return 0, err
	}
	if !ok {
		return InitialScore, nil
	}
	return score, nil
}

// StakeAmountFor sizes the result stake inversely to reputation: a wallet at
// MaxScore posts baseStake, one at MinScore posts double.
func (s *Service) StakeAmountFor(ctx context.Context, wallet string) (int64, error) {
	score, err := s.ReputationOf(ctx, wallet)
	if err != nil {
		return 0, err
	}
	return s.baseStake + s.baseStake*(MaxScore-score)/MaxScore, nil
}

func (s *Service) Adjust(ctx context.Context, wallet string, delta int64) error {
	_, err := s.scores.AdjustReputation(ctx, wallet, delta, InitialScore, MinScore, MaxScore)
	return err
}
