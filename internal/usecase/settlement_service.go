package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/domain/prediction"
	"github.com/kickpredict/api/internal/platform/cache"
	"github.com/kickpredict/api/internal/platform/logging"
	"github.com/kickpredict/api/internal/platform/resilience"
)

const defaultSettleWorkers = 8

// SettlementService freezes prediction points once a match result is final.
// Settlement is idempotent and deduplicated per match, so feed syncs and
// manual finishes can both trigger it without double work.
type SettlementService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	store          *cache.Store
	logger         *logging.Logger
	workers        int
	flight         resilience.SingleFlight
}

func NewSettlementService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	store *cache.Store,
	logger *logging.Logger,
	workers int,
) *SettlementService {
	if workers < 1 {
		workers = defaultSettleWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SettlementService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		store:          store,
		logger:         logger,
		workers:        workers,
	}
}

type SettlementResult struct {
	MatchID string
	Settled int
	Skipped int
	Total   int
}

func (s *SettlementService) SettleMatch(ctx context.Context, matchID string) (SettlementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return SettlementResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return SettlementResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !m.IsFinished() {
		return SettlementResult{}, fmt.Errorf("%w: match=%s is not finished", ErrInvalidInput, matchID)
	}
	if m.FinalScore == nil {
		return SettlementResult{}, fmt.Errorf("%w: match=%s has no final score", ErrIncompleteResult, matchID)
	}

	out, err, _ := s.flight.Do("settle:"+matchID, func() (any, error) {
		return s.settle(ctx, m)
	})
	if err != nil {
		return SettlementResult{}, err
	}

	return out.(SettlementResult), nil
}

func (s *SettlementService) settle(ctx context.Context, m match.Match) (SettlementResult, error) {
	items, err := s.predictionRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list predictions by match: %w", err)
	}

	actual := prediction.Scoreline{Home: m.FinalScore.Home, Away: m.FinalScore.Away}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		settled  int
		skipped  int
		firstErr error
	)

	var workers sync.WaitGroup
	for _, item := range items {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			points := prediction.Score(item.Predicted, actual, item.IsJoker)
			if item.IsSettled() && *item.PointsEarned == points {
				mu.Lock()
				skipped++
				mu.Unlock()
				return
			}

			if err := s.predictionRepo.SetPoints(ctx, item.ID, points); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("set points prediction=%s: %w", item.ID, err)
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			settled++
			mu.Unlock()
		}); err != nil {
			workers.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit settle task: %w", err)
			}
			mu.Unlock()
		}
	}
	workers.Wait()

	if firstErr != nil {
		return SettlementResult{}, firstErr
	}

	if s.store != nil {
		s.store.DeletePrefix(ctx, "leaderboard:")
	}

	s.logger.InfoContext(ctx, "match settled",
		"match_id", m.ID,
		"settled", settled,
		"skipped", skipped,
		"total", len(items),
	)

	return SettlementResult{
		MatchID: m.ID,
		Settled: settled,
		Skipped: skipped,
		Total:   len(items),
	}, nil
}
