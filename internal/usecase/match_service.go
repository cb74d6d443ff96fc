package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/platform/cache"
	"github.com/kickpredict/api/internal/platform/logging"
	"github.com/kickpredict/api/internal/platform/resilience"
)

const syncWorkers = 8

// FeedClient fetches the tournament fixture list from an external provider.
type FeedClient interface {
	ListMatches(ctx context.Context) ([]match.Match, error)
}

type MatchService struct {
	matchRepo  match.Repository
	feed       FeedClient
	settlement *SettlementService
	store      *cache.Store
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	feed FeedClient,
	settlement *SettlementService,
	store *cache.Store,
	logger *logging.Logger,
	now func() time.Time,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &MatchService{
		matchRepo:  matchRepo,
		feed:       feed,
		settlement: settlement,
		store:      store,
		logger:     logger,
		now:        now,
	}
}

func (s *MatchService) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	filter.Stage = strings.ToUpper(strings.TrimSpace(filter.Stage))
	filter.Group = strings.ToUpper(strings.TrimSpace(filter.Group))
	if strings.TrimSpace(filter.Status) != "" {
		status := match.NormalizeStatus(filter.Status)
		switch status {
		case match.StatusScheduled, match.StatusLive, match.StatusFinished:
			filter.Status = status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
		}
	} else {
		filter.Status = ""
	}

	matches, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return matches, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return m, nil
}

type SyncResult struct {
	Total    int
	Upserted int
	Finished int
}

// Sync pulls the provider fixture list, stores it, and settles matches that
// turned final since the last sync.
func (s *MatchService) Sync(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Sync")
	defer span.End()

	if s.feed == nil {
		return SyncResult{}, fmt.Errorf("%w: match feed is not configured", ErrDependencyUnavailable)
	}

	incoming, err := s.feed.ListMatches(ctx)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return SyncResult{}, fmt.Errorf("%w: match feed circuit open", ErrDependencyUnavailable)
		}
		return SyncResult{}, fmt.Errorf("fetch matches from feed: %w", err)
	}

	var (
		mu            sync.Mutex
		newlyFinished []string
	)

	workers := pool.New().WithErrors().WithMaxGoroutines(syncWorkers).WithContext(ctx)
	for _, item := range incoming {
		item := item
		workers.Go(func(ctx context.Context) error {
			previous, existed, err := s.matchRepo.GetByID(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("get match=%s: %w", item.ID, err)
			}
			if existed && previous.IsFinished() && !item.IsFinished() {
				// A final result never moves backward, whatever the feed says.
				return nil
			}

			if err := s.matchRepo.Upsert(ctx, item); err != nil {
				return fmt.Errorf("upsert match=%s: %w", item.ID, err)
			}

			if item.IsFinished() && item.FinalScore != nil && (!existed || !previous.IsFinished()) {
				mu.Lock()
				newlyFinished = append(newlyFinished, item.ID)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return SyncResult{}, err
	}

	if s.store != nil {
		s.store.DeletePrefix(ctx, "standings:")
	}

	for _, matchID := range newlyFinished {
		if _, err := s.settlement.SettleMatch(ctx, matchID); err != nil {
			return SyncResult{}, fmt.Errorf("settle match=%s: %w", matchID, err)
		}
	}

	s.logger.InfoContext(ctx, "match feed synced",
		"total", len(incoming),
		"finished", len(newlyFinished),
	)

	return SyncResult{
		Total:    len(incoming),
		Upserted: len(incoming),
		Finished: len(newlyFinished),
	}, nil
}

// FinishMatch records a final score and settles all predictions for the
// match. Used by operators and scheduled jobs, never by players.
func (s *MatchService) FinishMatch(ctx context.Context, matchID string, score match.Score) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.FinishMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if score.Home < 0 || score.Away < 0 {
		return match.Match{}, fmt.Errorf("%w: goals cannot be negative", ErrInvalidInput)
	}

	finished, err := s.matchRepo.SetResult(ctx, matchID, score)
	if errors.Is(err, match.ErrNotFound) {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if errors.Is(err, match.ErrAlreadyFinished) {
		return match.Match{}, fmt.Errorf("%w: match=%s already has a result", ErrConflict, matchID)
	}
	if err != nil {
		return match.Match{}, fmt.Errorf("set result: %w", err)
	}

	if s.store != nil {
		s.store.DeletePrefix(ctx, "standings:")
	}

	if _, err := s.settlement.SettleMatch(ctx, matchID); err != nil {
		return match.Match{}, fmt.Errorf("settle match=%s: %w", matchID, err)
	}

	return finished, nil
}
