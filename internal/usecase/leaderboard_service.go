package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kickpredict/api/internal/domain/leaderboard"
	"github.com/kickpredict/api/internal/domain/league"
	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/domain/prediction"
	"github.com/kickpredict/api/internal/domain/user"
	"github.com/kickpredict/api/internal/platform/cache"
)

// movementNewEntrant is the movement reported for users absent from the
// previous ranking snapshot.
const movementNewEntrant = 0

type LeaderboardService struct {
	predictionRepo prediction.Repository
	matchRepo      match.Repository
	leagueRepo     league.Repository
	userRepo       user.Repository
	snapshotRepo   leaderboard.SnapshotRepository
	store          *cache.Store
	now            func() time.Time
}

func NewLeaderboardService(
	predictionRepo prediction.Repository,
	matchRepo match.Repository,
	leagueRepo league.Repository,
	userRepo user.Repository,
	snapshotRepo leaderboard.SnapshotRepository,
	store *cache.Store,
	now func() time.Time,
) *LeaderboardService {
	if now == nil {
		now = time.Now
	}
	return &LeaderboardService{
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		leagueRepo:     leagueRepo,
		userRepo:       userRepo,
		snapshotRepo:   snapshotRepo,
		store:          store,
		now:            now,
	}
}

func (s *LeaderboardService) Global(ctx context.Context) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Global")
	defer span.End()

	return s.cached(ctx, leaderboard.ScopeGlobal, nil)
}

// League ranks only league members. Non-members cannot read the board.
func (s *LeaderboardService) League(ctx context.Context, principal user.Principal, leagueID string) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.League")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if !lg.IsMember(principal.UserID) {
		return nil, fmt.Errorf("%w: not a member of league=%s", ErrUnauthorized, leagueID)
	}

	return s.cached(ctx, "league:"+leagueID, lg.MemberIDs)
}

func (s *LeaderboardService) cached(ctx context.Context, scope string, memberIDs []string) ([]leaderboard.Entry, error) {
	if s.store == nil {
		return s.compute(ctx, scope, memberIDs)
	}

	out, err := s.store.GetOrLoad(ctx, "leaderboard:"+scope, func(ctx context.Context) (any, error) {
		return s.compute(ctx, scope, memberIDs)
	})
	if err != nil {
		return nil, err
	}

	return out.([]leaderboard.Entry), nil
}

func (s *LeaderboardService) compute(ctx context.Context, scope string, memberIDs []string) ([]leaderboard.Entry, error) {
	var (
		preds []prediction.Prediction
		err   error
	)
	if memberIDs == nil {
		preds, err = s.predictionRepo.ListAll(ctx)
	} else {
		preds, err = s.predictionRepo.ListByUsers(ctx, memberIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	finalScores, err := s.finalScores(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*leaderboard.Entry)
	// League boards show every member, including those yet to predict.
	for _, userID := range memberIDs {
		byUser[userID] = &leaderboard.Entry{UserID: userID}
	}

	for _, p := range preds {
		entry, ok := byUser[p.UserID]
		if !ok {
			entry = &leaderboard.Entry{UserID: p.UserID}
			byUser[p.UserID] = entry
		}
		entry.PredictionsCount++

		if !p.IsSettled() {
			continue
		}
		entry.TotalPoints += *p.PointsEarned

		actual, ok := finalScores[p.MatchID]
		if !ok {
			continue
		}
		// Classify on the base tier so jokers don't skew the counters.
		switch prediction.Score(p.Predicted, actual, false) {
		case prediction.PointsExact:
			entry.ExactScores++
		case prediction.PointsGoalDiff:
			entry.GoalDiffs++
		case prediction.PointsTendency:
			entry.Tendencies++
		}
	}

	entries := make([]leaderboard.Entry, 0, len(byUser))
	for _, entry := range byUser {
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if entries[i].PredictionsCount != entries[j].PredictionsCount {
			return entries[i].PredictionsCount < entries[j].PredictionsCount
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if err := s.fillUsernames(ctx, entries); err != nil {
		return nil, err
	}
	if err := s.fillMovement(ctx, scope, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *LeaderboardService) finalScores(ctx context.Context) (map[string]prediction.Scoreline, error) {
	matches, err := s.matchRepo.List(ctx, match.Filter{Status: match.StatusFinished})
	if err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}

	out := make(map[string]prediction.Scoreline, len(matches))
	for _, m := range matches {
		if m.FinalScore == nil {
			continue
		}
		out[m.ID] = prediction.Scoreline{Home: m.FinalScore.Home, Away: m.FinalScore.Away}
	}

	return out, nil
}

func (s *LeaderboardService) fillUsernames(ctx context.Context, entries []leaderboard.Entry) error {
	userIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		userIDs = append(userIDs, entry.UserID)
	}

	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	usernameByID := make(map[string]string, len(users))
	for _, u := range users {
		usernameByID[u.ID] = u.Username
	}

	for i := range entries {
		entries[i].Username = usernameByID[entries[i].UserID]
	}

	return nil
}

// fillMovement reports each entry's rank change against the snapshot taken
// before the most recent ranking change. A changed ranking is captured as a
// new snapshot; an unchanged one is diffed against the retained previous
// snapshot, so movement stays stable between changes instead of collapsing
// to zero on the second read.
func (s *LeaderboardService) fillMovement(ctx context.Context, scope string, entries []leaderboard.Entry) error {
	latest, hasLatest, err := s.snapshotRepo.GetLatest(ctx, scope)
	if err != nil {
		return fmt.Errorf("get latest snapshot: %w", err)
	}

	ranks := make(map[string]int, len(entries))
	for i := range entries {
		ranks[entries[i].UserID] = entries[i].Rank
	}

	baseline, hasBaseline := latest, hasLatest
	if hasLatest && ranksEqual(latest.RankByUserID, ranks) {
		previous, hasPrevious, err := s.snapshotRepo.GetPrevious(ctx, scope)
		if err != nil {
			return fmt.Errorf("get previous snapshot: %w", err)
		}
		if hasPrevious {
			baseline = previous
		}
	} else {
		snapshot := leaderboard.Snapshot{
			Scope:        scope,
			Version:      latest.Version + 1,
			RankByUserID: ranks,
			CreatedAt:    s.now(),
		}
		if err := s.snapshotRepo.Append(ctx, snapshot); err != nil {
			return fmt.Errorf("append snapshot: %w", err)
		}
	}

	for i := range entries {
		if !hasBaseline {
			entries[i].Movement = movementNewEntrant
			continue
		}
		prevRank, wasRanked := baseline.RankByUserID[entries[i].UserID]
		if !wasRanked {
			entries[i].Movement = movementNewEntrant
			continue
		}
		entries[i].Movement = prevRank - entries[i].Rank
	}

	return nil
}

func ranksEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		if b[key] != value {
			return false
		}
	}
	return true
}
