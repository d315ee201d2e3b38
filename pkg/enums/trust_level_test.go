package enums

import "testing"

func TestTrustLevelFor(t *testing.T) {
	cases := []struct {
		score int
		want  TrustLevel
	}{
		{score: 0, want: TrustLevelNew},
		{score: 99, want: TrustLevelNew},
		{score: 100, want: TrustLevelFair},
		{score: 499, want: TrustLevelFair},
		{score: 500, want: TrustLevelGood},
		{score: 999, want: TrustLevelGood},
		{score: 1000, want: TrustLevelExcellent},
		{score: 5000, want: TrustLevelExcellent},
	}
	for _, tc := range cases {
		if got := TrustLevelFor(tc.score); got != tc.want {
			t.Fatalf("score %d: expected %s got %s", tc.score, tc.want, got)
		}
	}
}
