package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/kickpredict/api/internal/domain/match"
)

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short,omitempty"`
	Crest string `json:"crest,omitempty"`
}

type scoreDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type matchDTO struct {
	ID         string    `json:"id"`
	HomeTeam   teamDTO   `json:"home_team"`
	AwayTeam   teamDTO   `json:"away_team"`
	KickoffAt  time.Time `json:"kickoff_at"`
	Status     string    `json:"status"`
	FinalScore *scoreDTO `json:"final_score,omitempty"`
	Stage      string    `json:"stage"`
	Group      string    `json:"group,omitempty"`
	Locked     bool      `json:"locked"`
}

type syncResultDTO struct {
	Total    int `json:"total"`
	Upserted int `json:"upserted"`
	Finished int `json:"finished"`
}

func matchToDTO(m match.Match, now time.Time) matchDTO {
	out := matchDTO{
		ID:        m.ID,
		HomeTeam:  teamDTO(m.HomeTeam),
		AwayTeam:  teamDTO(m.AwayTeam),
		KickoffAt: m.KickoffAt,
		Status:    m.Status,
		Stage:     m.Stage,
		Group:     m.Group,
		Locked:    m.IsFinished() || match.PredictionsLocked(m.KickoffAt, now),
	}
	if m.FinalScore != nil {
		out.FinalScore = &scoreDTO{Home: m.FinalScore.Home, Away: m.FinalScore.Away}
	}
	return out
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	query := r.URL.Query()
	matches, err := h.matchService.List(ctx, match.Filter{
		Stage:  query.Get("stage"),
		Group:  query.Get("group"),
		Status: query.Get("status"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	now := time.Now()
	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m, now))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, time.Now()))
}

func (h *Handler) RunMatchSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMatchSyncJob")
	defer span.End()

	result, err := h.matchService.Sync(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "match sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		Total:    result.Total,
		Upserted: result.Upserted,
		Finished: result.Finished,
	})
}

type finishMatchRequest struct {
	HomeGoals int `json:"home_goals" validate:"gte=0"`
	AwayGoals int `json:"away_goals" validate:"gte=0"`
}

func (h *Handler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req finishMatchRequest
	if err := h.decodeRequest(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.FinishMatch(ctx, matchID, match.Score{
		Home: req.HomeGoals,
		Away: req.AwayGoals,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "finish match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item, time.Now()))
}
