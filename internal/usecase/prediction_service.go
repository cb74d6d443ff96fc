package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/domain/prediction"
	"github.com/kickpredict/api/internal/domain/user"
	"github.com/kickpredict/api/internal/platform/id"
)

type PredictionService struct {
	predictionRepo prediction.Repository
	matchRepo      match.Repository
	userRepo       user.Repository
	idGen          id.Generator
	now            func() time.Time
}

func NewPredictionService(
	predictionRepo prediction.Repository,
	matchRepo match.Repository,
	userRepo user.Repository,
	idGen id.Generator,
	now func() time.Time,
) *PredictionService {
	if now == nil {
		now = time.Now
	}
	return &PredictionService{
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		userRepo:       userRepo,
		idGen:          idGen,
		now:            now,
	}
}

type SubmitPredictionInput struct {
	MatchID   string
	HomeGoals int
	AwayGoals int
	IsJoker   bool
}

// Submit creates or replaces the caller's prediction for one match.
// Resubmitting before lock is last-writer-wins; the lock window closes
// submissions from fifteen minutes before kickoff, inclusive.
func (s *PredictionService) Submit(ctx context.Context, principal user.Principal, in SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	if principal.UserID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: missing principal", ErrUnauthorized)
	}
	matchID := strings.TrimSpace(in.MatchID)
	if matchID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if in.HomeGoals < 0 || in.AwayGoals < 0 {
		return prediction.Prediction{}, fmt.Errorf("%w: goals cannot be negative", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if m.IsFinished() {
		return prediction.Prediction{}, fmt.Errorf("%w: match=%s is finished", ErrLocked, matchID)
	}

	now := s.now()
	if match.PredictionsLocked(m.KickoffAt, now) {
		return prediction.Prediction{}, fmt.Errorf("%w: match=%s kickoff=%s", ErrLocked, matchID, m.KickoffAt.Format(time.RFC3339))
	}

	if err := s.userRepo.Save(ctx, user.User{
		ID:       principal.UserID,
		Username: principal.Username,
	}); err != nil {
		return prediction.Prediction{}, fmt.Errorf("save user: %w", err)
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate id: %w", err)
	}

	saved, err := s.predictionRepo.Upsert(ctx, prediction.Prediction{
		ID:      newID,
		UserID:  principal.UserID,
		MatchID: matchID,
		Predicted: prediction.Scoreline{
			Home: in.HomeGoals,
			Away: in.AwayGoals,
		},
		IsJoker:   in.IsJoker,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// The repositories re-check the match status inside the write, so a
		// submit that loses the race against a final result surfaces here.
		if errors.Is(err, prediction.ErrMatchFinished) {
			return prediction.Prediction{}, fmt.Errorf("%w: match=%s is finished", ErrLocked, matchID)
		}
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	return saved, nil
}

func (s *PredictionService) ListMine(ctx context.Context, principal user.Principal) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListMine")
	defer span.End()

	if principal.UserID == "" {
		return nil, fmt.Errorf("%w: missing principal", ErrUnauthorized)
	}

	items, err := s.predictionRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}

	return items, nil
}

// MatchPredictionView pairs a revealed prediction with its author's name.
type MatchPredictionView struct {
	Prediction prediction.Prediction
	Username   string
}

// ListByMatch reveals all predictions for a match. Predictions stay hidden
// from other users until the lock window closes.
func (s *PredictionService) ListByMatch(ctx context.Context, matchID string) ([]MatchPredictionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !m.IsFinished() && !match.PredictionsLocked(m.KickoffAt, s.now()) {
		return nil, fmt.Errorf("%w: predictions stay hidden until lock", ErrLocked)
	}

	items, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by match: %w", err)
	}

	userIDs := make([]string, 0, len(items))
	for _, item := range items {
		userIDs = append(userIDs, item.UserID)
	}
	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	usernameByID := make(map[string]string, len(users))
	for _, u := range users {
		usernameByID[u.ID] = u.Username
	}

	views := make([]MatchPredictionView, 0, len(items))
	for _, item := range items {
		views = append(views, MatchPredictionView{
			Prediction: item,
			Username:   usernameByID[item.UserID],
		})
	}

	return views, nil
}
