package standings

import (
	"testing"
	"time"

	"github.com/kickpredict/api/internal/domain/match"
)

func groupMatch(id, home, away string, homeGoals, awayGoals int, finished bool) match.Match {
	m := match.Match{
		ID:        id,
		HomeTeam:  match.Team{ID: home, Name: home},
		AwayTeam:  match.Team{ID: away, Name: away},
		KickoffAt: time.Date(2026, 6, 12, 15, 0, 0, 0, time.UTC),
		Status:    match.StatusScheduled,
		Stage:     match.StageGroup,
		Group:     "A",
	}
	if finished {
		m.Status = match.StatusFinished
		m.FinalScore = &match.Score{Home: homeGoals, Away: awayGoals}
	}
	return m
}

func TestComputeTable(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		groupMatch("m1", "Netherlands", "Senegal", 2, 0, true),
		groupMatch("m2", "Qatar", "Ecuador", 0, 2, true),
		groupMatch("m3", "Netherlands", "Ecuador", 1, 1, true),
		groupMatch("m4", "Qatar", "Senegal", 1, 3, true),
		// Still scheduled, must contribute nothing beyond zero rows.
		groupMatch("m5", "Netherlands", "Qatar", 0, 0, false),
	}

	rows := ComputeTable(matches)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	if rows[0].Team != "Ecuador" || rows[0].Points != 4 || rows[0].GoalDifference != 3 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Team != "Netherlands" || rows[1].Points != 4 || rows[1].GoalDifference != 2 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[2].Team != "Senegal" || rows[2].Points != 3 {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}
	if rows[3].Team != "Qatar" || rows[3].Points != 0 || rows[3].Played != 2 {
		t.Fatalf("unexpected fourth row: %+v", rows[3])
	}

	for i, row := range rows {
		wantQualifies := i < QualifierSpots
		if row.Qualifies != wantQualifies {
			t.Fatalf("row %d (%s) qualifies=%t, want %t", i, row.Team, row.Qualifies, wantQualifies)
		}
	}
}

func TestComputeTableNoFinishedMatches(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		groupMatch("m1", "Spain", "Japan", 0, 0, false),
		groupMatch("m2", "Germany", "Costa Rica", 0, 0, false),
	}

	rows := ComputeTable(matches)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	wantOrder := []string{"Costa Rica", "Germany", "Japan", "Spain"}
	for i, row := range rows {
		if row.Team != wantOrder[i] {
			t.Fatalf("row %d team = %s, want %s (name tie-break)", i, row.Team, wantOrder[i])
		}
		if row.Played != 0 || row.Points != 0 || row.GoalsFor != 0 || row.GoalsAgainst != 0 {
			t.Fatalf("expected all-zero row for %s, got %+v", row.Team, row)
		}
	}
}

func TestComputeTableGoalsForTieBreak(t *testing.T) {
	t.Parallel()

	// Both teams win once 3-2 / 2-1 against the same opponents: equal
	// points, equal difference, more goals scored ranks higher.
	matches := []match.Match{
		groupMatch("m1", "Brazil", "Serbia", 3, 2, true),
		groupMatch("m2", "Switzerland", "Cameroon", 2, 1, true),
	}

	rows := ComputeTable(matches)
	if rows[0].Team != "Brazil" {
		t.Fatalf("expected Brazil first on goals-for, got %s", rows[0].Team)
	}
	if rows[1].Team != "Switzerland" {
		t.Fatalf("expected Switzerland second, got %s", rows[1].Team)
	}
}

func TestComputeTableIsStableAcrossRuns(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		groupMatch("m1", "England", "Iran", 6, 2, true),
		groupMatch("m2", "USA", "Wales", 1, 1, true),
		groupMatch("m3", "England", "USA", 0, 0, true),
	}

	first := ComputeTable(matches)
	for i := 0; i < 5; i++ {
		next := ComputeTable(matches)
		for j := range first {
			if first[j] != next[j] {
				t.Fatalf("run %d row %d differs: %+v vs %+v", i, j, first[j], next[j])
			}
		}
	}
}
