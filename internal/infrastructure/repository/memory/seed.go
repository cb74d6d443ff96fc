package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/kickpredict/api/internal/domain/match"
)

// seedTeamsByGroup is the demo tournament draw: eight groups of four.
var seedTeamsByGroup = map[string][]match.Team{
	"A": {
		{ID: "qat", Name: "Qatar", Short: "QAT"},
		{ID: "ecu", Name: "Ecuador", Short: "ECU"},
		{ID: "sen", Name: "Senegal", Short: "SEN"},
		{ID: "ned", Name: "Netherlands", Short: "NED"},
	},
	"B": {
		{ID: "eng", Name: "England", Short: "ENG"},
		{ID: "irn", Name: "Iran", Short: "IRN"},
		{ID: "usa", Name: "United States", Short: "USA"},
		{ID: "wal", Name: "Wales", Short: "WAL"},
	},
	"C": {
		{ID: "arg", Name: "Argentina", Short: "ARG"},
		{ID: "ksa", Name: "Saudi Arabia", Short: "KSA"},
		{ID: "mex", Name: "Mexico", Short: "MEX"},
		{ID: "pol", Name: "Poland", Short: "POL"},
	},
	"D": {
		{ID: "fra", Name: "France", Short: "FRA"},
		{ID: "aus", Name: "Australia", Short: "AUS"},
		{ID: "den", Name: "Denmark", Short: "DEN"},
		{ID: "tun", Name: "Tunisia", Short: "TUN"},
	},
	"E": {
		{ID: "esp", Name: "Spain", Short: "ESP"},
		{ID: "crc", Name: "Costa Rica", Short: "CRC"},
		{ID: "ger", Name: "Germany", Short: "GER"},
		{ID: "jpn", Name: "Japan", Short: "JPN"},
	},
	"F": {
		{ID: "bel", Name: "Belgium", Short: "BEL"},
		{ID: "can", Name: "Canada", Short: "CAN"},
		{ID: "mar", Name: "Morocco", Short: "MAR"},
		{ID: "cro", Name: "Croatia", Short: "CRO"},
	},
	"G": {
		{ID: "bra", Name: "Brazil", Short: "BRA"},
		{ID: "srb", Name: "Serbia", Short: "SRB"},
		{ID: "sui", Name: "Switzerland", Short: "SUI"},
		{ID: "cmr", Name: "Cameroon", Short: "CMR"},
	},
	"H": {
		{ID: "por", Name: "Portugal", Short: "POR"},
		{ID: "gha", Name: "Ghana", Short: "GHA"},
		{ID: "uru", Name: "Uruguay", Short: "URU"},
		{ID: "kor", Name: "South Korea", Short: "KOR"},
	},
}

// matchday pairings for a four-team round robin, by team index.
var seedPairings = [3][2][2]int{
	{{0, 1}, {2, 3}},
	{{0, 2}, {1, 3}},
	{{0, 3}, {1, 2}},
}

// SeedMatches builds the demo group-stage schedule relative to start. Each
// group plays three matchdays a few days apart, so fresh installs always
// have open fixtures to predict.
func SeedMatches(start time.Time) []match.Match {
	groups := []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	out := make([]match.Match, 0, len(groups)*6)
	for gi, group := range groups {
		teams := seedTeamsByGroup[group]
		for day, pairs := range seedPairings {
			for slot, pair := range pairs {
				home := teams[pair[0]]
				away := teams[pair[1]]
				kickoff := start.
					AddDate(0, 0, day*4).
					Add(time.Duration(gi)*3*time.Hour + time.Duration(slot)*90*time.Minute)

				out = append(out, match.Match{
					ID:        seedMatchID(group, day+1, home, away),
					HomeTeam:  home,
					AwayTeam:  away,
					KickoffAt: kickoff,
					Status:    match.StatusScheduled,
					Stage:     match.StageGroup,
					Group:     group,
					UpdatedAt: start,
				})
			}
		}
	}

	return out
}

func seedMatchID(group string, matchday int, home, away match.Team) string {
	return strings.ToLower(fmt.Sprintf("wc-%s%d-%s-%s", group, matchday, home.ID, away.ID))
}
