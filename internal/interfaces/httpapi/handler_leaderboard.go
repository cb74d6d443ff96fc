package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kickpredict/api/internal/domain/leaderboard"
	"github.com/kickpredict/api/internal/usecase"
)

type leaderboardEntryDTO struct {
	Rank             int    `json:"rank"`
	UserID           string `json:"user_id"`
	Username         string `json:"username,omitempty"`
	TotalPoints      int    `json:"total_points"`
	PredictionsCount int    `json:"predictions_count"`
	ExactScores      int    `json:"exact_scores"`
	GoalDiffs        int    `json:"goal_diffs"`
	Tendencies       int    `json:"tendencies"`
	Movement         int    `json:"movement"`
}

func leaderboardToDTO(entries []leaderboard.Entry) []leaderboardEntryDTO {
	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, leaderboardEntryDTO{
			Rank:             e.Rank,
			UserID:           e.UserID,
			Username:         e.Username,
			TotalPoints:      e.TotalPoints,
			PredictionsCount: e.PredictionsCount,
			ExactScores:      e.ExactScores,
			GoalDiffs:        e.GoalDiffs,
			Tendencies:       e.Tendencies,
			Movement:         e.Movement,
		})
	}
	return items
}

func (h *Handler) GetGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGlobalLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.Global(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "global leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(entries))
}

func (h *Handler) GetLeagueLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueLeaderboard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	entries, err := h.leaderboardService.League(ctx, principal, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "league leaderboard failed",
			"user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(entries))
}
