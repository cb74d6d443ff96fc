package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kickpredict/api/internal/domain/prediction"
	"github.com/kickpredict/api/internal/usecase"
)

type predictionDTO struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
	IsJoker   bool      `json:"is_joker"`
	Points    *int      `json:"points,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:        p.ID,
		MatchID:   p.MatchID,
		HomeGoals: p.Predicted.Home,
		AwayGoals: p.Predicted.Away,
		IsJoker:   p.IsJoker,
		Points:    p.PointsEarned,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type submitPredictionRequest struct {
	MatchID   string `json:"match_id" validate:"required"`
	HomeGoals int    `json:"home_goals" validate:"gte=0"`
	AwayGoals int    `json:"away_goals" validate:"gte=0"`
	IsJoker   bool   `json:"is_joker"`
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPredictionRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictionService.Submit(ctx, principal, usecase.SubmitPredictionInput{
		MatchID:   req.MatchID,
		HomeGoals: req.HomeGoals,
		AwayGoals: req.AwayGoals,
		IsJoker:   req.IsJoker,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed",
			"user_id", principal.UserID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	predictions, err := h.predictionService.ListMine(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, predictionToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type matchPredictionDTO struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
	IsJoker   bool   `json:"is_joker"`
	Points    *int   `json:"points,omitempty"`
}

// ListMatchPredictions reveals everyone's picks for a match. The service
// refuses until the match is locked or finished.
func (h *Handler) ListMatchPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchPredictions")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	views, err := h.predictionService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match predictions failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchPredictionDTO, 0, len(views))
	for _, v := range views {
		items = append(items, matchPredictionDTO{
			UserID:    v.Prediction.UserID,
			Username:  v.Username,
			HomeGoals: v.Prediction.Predicted.Home,
			AwayGoals: v.Prediction.Predicted.Away,
			IsJoker:   v.Prediction.IsJoker,
			Points:    v.Prediction.PointsEarned,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
