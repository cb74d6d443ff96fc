package httpapi

import (
	"net/http"

	"github.com/kickpredict/api/internal/domain/standings"
)

type teamRowDTO struct {
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	Qualifies      bool   `json:"qualifies"`
}

type groupTableDTO struct {
	Group string       `json:"group"`
	Rows  []teamRowDTO `json:"rows"`
}

func groupTableToDTO(table standings.GroupTable) groupTableDTO {
	rows := make([]teamRowDTO, 0, len(table.Rows))
	for _, row := range table.Rows {
		rows = append(rows, teamRowDTO(row))
	}
	return groupTableDTO{Group: table.Group, Rows: rows}
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	group := r.URL.Query().Get("group")
	tables, err := h.standingsService.GroupTables(ctx, group)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "group", group, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]groupTableDTO, 0, len(tables))
	for _, table := range tables {
		items = append(items, groupTableToDTO(table))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
