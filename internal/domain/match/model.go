package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
)

const (
	StageGroup         = "GROUP_STAGE"
	StageLast16        = "LAST_16"
	StageQuarterFinals = "QUARTER_FINALS"
	StageSemiFinals    = "SEMI_FINALS"
	StageThirdPlace    = "THIRD_PLACE"
	StageFinal         = "FINAL"
)

// Team is the embedded team reference carried by a match.
type Team struct {
	ID    string
	Name  string
	Short string
	Crest string
}

// Score is a final score once the match is finished.
type Score struct {
	Home int
	Away int
}

// Match is one tournament fixture. Teams, kickoff, and stage are immutable;
// only status and final score move, and a finished match is terminal.
type Match struct {
	ID         string
	HomeTeam   Team
	AwayTeam   Team
	KickoffAt  time.Time
	Status     string
	FinalScore *Score
	Stage      string
	Group      string
	UpdatedAt  time.Time
}

func (m Match) IsFinished() bool {
	return IsFinishedStatus(m.Status)
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLive, "IN_PLAY", "PAUSED", "HT":
		return true
	default:
		return false
	}
}
