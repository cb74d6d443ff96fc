package postgres

import (
	"database/sql"
	"time"

	"github.com/kickpredict/api/internal/domain/match"
)

type matchTableModel struct {
	ID            string        `db:"id"`
	HomeTeamID    string        `db:"home_team_id"`
	HomeTeamName  string        `db:"home_team_name"`
	HomeTeamShort string        `db:"home_team_short"`
	HomeTeamCrest string        `db:"home_team_crest"`
	AwayTeamID    string        `db:"away_team_id"`
	AwayTeamName  string        `db:"away_team_name"`
	AwayTeamShort string        `db:"away_team_short"`
	AwayTeamCrest string        `db:"away_team_crest"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Status        string        `db:"status"`
	FinalHome     sql.NullInt64 `db:"final_home"`
	FinalAway     sql.NullInt64 `db:"final_away"`
	Stage         string        `db:"stage"`
	GroupName     string        `db:"group_name"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	out := match.Match{
		ID: m.ID,
		HomeTeam: match.Team{
			ID:    m.HomeTeamID,
			Name:  m.HomeTeamName,
			Short: m.HomeTeamShort,
			Crest: m.HomeTeamCrest,
		},
		AwayTeam: match.Team{
			ID:    m.AwayTeamID,
			Name:  m.AwayTeamName,
			Short: m.AwayTeamShort,
			Crest: m.AwayTeamCrest,
		},
		KickoffAt: m.KickoffAt,
		Status:    m.Status,
		Stage:     m.Stage,
		Group:     m.GroupName,
		UpdatedAt: m.UpdatedAt,
	}
	if m.FinalHome.Valid && m.FinalAway.Valid {
		out.FinalScore = &match.Score{
			Home: int(m.FinalHome.Int64),
			Away: int(m.FinalAway.Int64),
		}
	}
	return out
}

func matchToModel(m match.Match) matchTableModel {
	out := matchTableModel{
		ID:            m.ID,
		HomeTeamID:    m.HomeTeam.ID,
		HomeTeamName:  m.HomeTeam.Name,
		HomeTeamShort: m.HomeTeam.Short,
		HomeTeamCrest: m.HomeTeam.Crest,
		AwayTeamID:    m.AwayTeam.ID,
		AwayTeamName:  m.AwayTeam.Name,
		AwayTeamShort: m.AwayTeam.Short,
		AwayTeamCrest: m.AwayTeam.Crest,
		KickoffAt:     m.KickoffAt,
		Status:        match.NormalizeStatus(m.Status),
		Stage:         m.Stage,
		GroupName:     m.Group,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.FinalScore != nil {
		out.FinalHome = sql.NullInt64{Int64: int64(m.FinalScore.Home), Valid: true}
		out.FinalAway = sql.NullInt64{Int64: int64(m.FinalScore.Away), Valid: true}
	}
	return out
}
