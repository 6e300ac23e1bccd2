package reputation

import (
	"context"
	"testing"
)

func TestUnknownWalletReadsInitialScore(t *testing.T) {
	svc := NewService(NewMemScores(), 100)
	score, err := svc.ReputationOf(context.Background(), "0xnew")
	if err != nil {
		t.Fatalf("reputation: %v", err)
	}
	if score != InitialScore {
		t.Fatalf("expected %d, got %d", InitialScore, score)
	}
}

func TestStakeScalesInverselyWithScore(t *testing.T) {
	scores := NewMemScores()
	svc := NewService(scores, 100)
	ctx := context.Background()

	fresh, err := svc.StakeAmountFor(ctx, "0xfresh")
	if err != nil {
		t.Fatalf("stake: %v", err)
	}
	if fresh != 150 {
		t.Fatalf("initial-score wallet should stake 150, got %d", fresh)
	}

	if err := svc.Adjust(ctx, "0xgood", MaxScore-InitialScore); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := svc.Adjust(ctx, "0xbad", MinScore-InitialScore); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	good, _ := svc.StakeAmountFor(ctx, "0xgood")
	bad, _ := svc.StakeAmountFor(ctx, "0xbad")
	if good != 100 {
		t.Fatalf("max-score wallet should stake the base, got %d", good)
	}
	if bad != 200 {
		t.Fatalf("min-score wallet should stake double, got %d", bad)
	}
	if !(bad > fresh && fresh > good) {
		t.Fatalf("stake should fall as score rises: %d %d %d", bad, fresh, good)
	}
}

func TestAdjustClampsAtBounds(t *testing.T) {
	svc := NewService(NewMemScores(), 100)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		if err := svc.Adjust(ctx, "0xup", 2); err != nil {
			t.Fatalf("adjust: %v", err)
		}
		if err := svc.Adjust(ctx, "0xdown", -2); err != nil {
			t.Fatalf("adjust: %v", err)
		}
	}
	up, _ := svc.ReputationOf(ctx, "0xup")
	down, _ := svc.ReputationOf(ctx, "0xdown")
	if up != MaxScore {
		t.Fatalf("expected clamp at %d, got %d", MaxScore, up)
	}
	if down != MinScore {
		t.Fatalf("expected clamp at %d, got %d", MinScore, down)
	}
}
