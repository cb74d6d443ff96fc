package standings

import (
	"sort"

	"github.com/kickpredict/api/internal/domain/match"
)

// QualifierSpots is how many table positions advance from a group.
const QualifierSpots = 2

const (
	pointsWin  = 3
	pointsDraw = 1
)

// ComputeTable folds the finished matches of one group into an ordered
// table. Matches that are not finished contribute nothing, but their teams
// still appear as all-zero rows. Ordering: points desc, goal difference
// desc, goals-for desc, team name asc as the final deterministic tie-break.
func ComputeTable(groupMatches []match.Match) []TeamRow {
	rowsByTeam := make(map[string]*TeamRow)

	row := func(team string) *TeamRow {
		if r, ok := rowsByTeam[team]; ok {
			return r
		}
		r := &TeamRow{Team: team}
		rowsByTeam[team] = r
		return r
	}

	for _, m := range groupMatches {
		home := row(m.HomeTeam.Name)
		away := row(m.AwayTeam.Name)

		if !m.IsFinished() || m.FinalScore == nil {
			continue
		}
		applyResult(home, m.FinalScore.Home, m.FinalScore.Away)
		applyResult(away, m.FinalScore.Away, m.FinalScore.Home)
	}

	out := make([]TeamRow, 0, len(rowsByTeam))
	for _, r := range rowsByTeam {
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GoalDifference != out[j].GoalDifference {
			return out[i].GoalDifference > out[j].GoalDifference
		}
		if out[i].GoalsFor != out[j].GoalsFor {
			return out[i].GoalsFor > out[j].GoalsFor
		}
		return out[i].Team < out[j].Team
	})

	for i := range out {
		out[i].Qualifies = i < QualifierSpots
	}

	return out
}

func applyResult(r *TeamRow, goalsFor, goalsAgainst int) {
	r.Played++
	r.GoalsFor += goalsFor
	r.GoalsAgainst += goalsAgainst
	r.GoalDifference = r.GoalsFor - r.GoalsAgainst

	switch {
	case goalsFor > goalsAgainst:
		r.Won++
		r.Points += pointsWin
	case goalsFor == goalsAgainst:
		r.Drawn++
		r.Points += pointsDraw
	default:
		r.Lost++
	}
}
