package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/domain/prediction"
	"github.com/kickpredict/api/internal/infrastructure/repository/memory"
	"github.com/kickpredict/api/internal/platform/logging"
)

type stubFeed struct {
	matches []match.Match
	err     error
}

func (f *stubFeed) ListMatches(context.Context) ([]match.Match, error) {
	return f.matches, f.err
}

func newMatchFixture(t *testing.T, feed FeedClient) (*MatchService, *memory.MatchRepository, *memory.PredictionRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository([]match.Match{{
		ID:        "m1",
		KickoffAt: testKickoff,
		Status:    match.StatusLive,
		Stage:     match.StageGroup,
		Group:     "A",
	}}, nil)
	predictionRepo := memory.NewPredictionRepository(matchRepo, nil)
	settlement := NewSettlementService(matchRepo, predictionRepo, nil, logging.NewNop(), 4)

	svc := NewMatchService(matchRepo, feed, settlement, nil, logging.NewNop(), nil)
	return svc, matchRepo, predictionRepo
}

func TestListMatchesStatusValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newMatchFixture(t, nil)

	if _, err := svc.List(ctx, match.Filter{Status: "bogus"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}

	matches, err := svc.List(ctx, match.Filter{Status: "live", Group: "a"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "m1" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestGetMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newMatchFixture(t, nil)

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	m, err := svc.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.ID != "m1" {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestFinishMatchSettlesPredictions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, predictionRepo := newMatchFixture(t, nil)

	if _, err := predictionRepo.Upsert(ctx, prediction.Prediction{
		ID:        "p1",
		UserID:    "u1",
		MatchID:   "m1",
		Predicted: prediction.Scoreline{Home: 2, Away: 1},
	}); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}

	finished, err := svc.FinishMatch(ctx, "m1", match.Score{Home: 2, Away: 1})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !finished.IsFinished() {
		t.Fatalf("expected finished match, got %+v", finished)
	}

	settled, _, err := predictionRepo.GetByUserAndMatch(ctx, "u1", "m1")
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	if !settled.IsSettled() || *settled.PointsEarned != 4 {
		t.Fatalf("expected frozen exact points, got %+v", settled.PointsEarned)
	}

	if _, err := svc.FinishMatch(ctx, "m1", match.Score{Home: 0, Away: 0}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for a second result, got %v", err)
	}
}

func TestFinishMatchValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newMatchFixture(t, nil)

	if _, err := svc.FinishMatch(ctx, "", match.Score{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
	if _, err := svc.FinishMatch(ctx, "m1", match.Score{Home: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative goals, got %v", err)
	}
	if _, err := svc.FinishMatch(ctx, "missing", match.Score{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncSettlesNewlyFinishedMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	feed := &stubFeed{matches: []match.Match{
		{
			ID:        "m1",
			KickoffAt: testKickoff,
			Status:    match.StatusFinished,
			FinalScore: &match.Score{
				Home: 1,
				Away: 1,
			},
			Stage: match.StageGroup,
			Group: "A",
		},
		{
			ID:        "m2",
			KickoffAt: testKickoff.Add(3 * time.Hour),
			Status:    match.StatusScheduled,
			Stage:     match.StageGroup,
			Group:     "A",
		},
	}}
	svc, matchRepo, predictionRepo := newMatchFixture(t, feed)

	if _, err := predictionRepo.Upsert(ctx, prediction.Prediction{
		ID:        "p1",
		UserID:    "u1",
		MatchID:   "m1",
		Predicted: prediction.Scoreline{Home: 1, Away: 1},
	}); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}

	result, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Total != 2 || result.Finished != 1 {
		t.Fatalf("unexpected sync result: %+v", result)
	}

	settled, _, err := predictionRepo.GetByUserAndMatch(ctx, "u1", "m1")
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	if !settled.IsSettled() || *settled.PointsEarned != 4 {
		t.Fatalf("expected settled exact prediction, got %+v", settled.PointsEarned)
	}

	if _, exists, _ := matchRepo.GetByID(ctx, "m2"); !exists {
		t.Fatal("expected m2 stored by sync")
	}

	// A second sync of the same payload settles nothing new.
	again, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if again.Finished != 0 {
		t.Fatalf("expected no newly finished matches, got %+v", again)
	}
}

func TestSyncWithoutFeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newMatchFixture(t, nil)

	if _, err := svc.Sync(ctx); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSyncNeverMovesFinishedMatchBackward(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	feed := &stubFeed{matches: []match.Match{{
		ID:        "m1",
		KickoffAt: testKickoff,
		Status:    match.StatusLive,
		Stage:     match.StageGroup,
		Group:     "A",
	}}}
	svc, matchRepo, _ := newMatchFixture(t, feed)

	if _, err := matchRepo.SetResult(ctx, "m1", match.Score{Home: 2, Away: 0}); err != nil {
		t.Fatalf("set result: %v", err)
	}

	if _, err := svc.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}

	m, _, err := matchRepo.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if !m.IsFinished() || m.FinalScore == nil {
		t.Fatalf("finished result must survive a stale feed payload, got %+v", m)
	}
}
