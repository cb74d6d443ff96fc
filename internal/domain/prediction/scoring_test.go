package prediction

import "testing"

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		predicted Scoreline
		actual    Scoreline
		want      int
	}{
		{
			name:      "exact score",
			predicted: Scoreline{Home: 2, Away: 1},
			actual:    Scoreline{Home: 2, Away: 1},
			want:      PointsExact,
		},
		{
			name:      "correct goal difference",
			predicted: Scoreline{Home: 2, Away: 1},
			actual:    Scoreline{Home: 3, Away: 2},
			want:      PointsGoalDiff,
		},
		{
			name:      "correct tendency with different margin",
			predicted: Scoreline{Home: 2, Away: 0},
			actual:    Scoreline{Home: 1, Away: 0},
			want:      PointsTendency,
		},
		{
			name:      "opposite tendency",
			predicted: Scoreline{Home: 1, Away: 0},
			actual:    Scoreline{Home: 0, Away: 1},
			want:      PointsMiss,
		},
		{
			name:      "draw predicted draw played scores goal difference",
			predicted: Scoreline{Home: 1, Away: 1},
			actual:    Scoreline{Home: 0, Away: 0},
			want:      PointsGoalDiff,
		},
		{
			name:      "different draws share zero difference",
			predicted: Scoreline{Home: 1, Away: 1},
			actual:    Scoreline{Home: 2, Away: 2},
			want:      PointsGoalDiff,
		},
		{
			name:      "home win predicted away rout played",
			predicted: Scoreline{Home: 2, Away: 0},
			actual:    Scoreline{Home: 1, Away: 3},
			want:      PointsMiss,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.predicted, tc.actual, false); got != tc.want {
				t.Fatalf("Score(%v, %v, false) = %d, want %d", tc.predicted, tc.actual, got, tc.want)
			}
			if got := Score(tc.predicted, tc.actual, true); got != tc.want*JokerMultiplier {
				t.Fatalf("Score(%v, %v, true) = %d, want %d", tc.predicted, tc.actual, got, tc.want*JokerMultiplier)
			}
		})
	}
}

func TestScoreTierRange(t *testing.T) {
	t.Parallel()

	valid := map[int]bool{PointsMiss: true, PointsTendency: true, PointsGoalDiff: true, PointsExact: true}

	for ph := 0; ph <= 4; ph++ {
		for pa := 0; pa <= 4; pa++ {
			for ah := 0; ah <= 4; ah++ {
				for aa := 0; aa <= 4; aa++ {
					predicted := Scoreline{Home: ph, Away: pa}
					actual := Scoreline{Home: ah, Away: aa}
					base := Score(predicted, actual, false)
					if !valid[base] {
						t.Fatalf("Score(%v, %v, false) = %d, outside tier set", predicted, actual, base)
					}
					if joker := Score(predicted, actual, true); joker != base*JokerMultiplier {
						t.Fatalf("joker score %d is not double of base %d for %v vs %v", joker, base, predicted, actual)
					}
				}
			}
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	t.Parallel()

	predicted := Scoreline{Home: 3, Away: 1}
	actual := Scoreline{Home: 2, Away: 0}

	first := Score(predicted, actual, true)
	for i := 0; i < 10; i++ {
		if got := Score(predicted, actual, true); got != first {
			t.Fatalf("score drifted between runs: got %d, want %d", got, first)
		}
	}
}
