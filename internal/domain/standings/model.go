package standings

// TeamRow is one derived group-table row. Rows are recomputed from the
// finished matches of a group on every read and never stored.
type TeamRow struct {
	Team           string
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Qualifies      bool
}

// GroupTable is the ordered table for one tournament group.
type GroupTable struct {
	Group string
	Rows  []TeamRow
}
