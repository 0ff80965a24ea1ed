package main

import (
	"testing"

	"app/models"
	"app/utils"
)

func wheel() []models.Prize {
	return []models.Prize{
		{ID: "A", Name: "10 Points", Probability: 50},
		{ID: "B", Name: "Free Drink", Probability: 30},
		{ID: "C", Name: "Jackpot", Probability: 20},
	}
}

func TestTotalProbability(t *testing.T) {
	if got := utils.TotalProbability(wheel()); got != 100 {
		t.Fatalf("expected total 100, got %d", got)
	}

	// Prizes without a weight count as 10.
	unweighted := []models.Prize{{ID: "A"}, {ID: "B"}}
	if got := utils.TotalProbability(unweighted); got != 20 {
		t.Fatalf("expected total 20, got %d", got)
	}
}

func TestPickPrizeSegments(t *testing.T) {
	prizes := wheel()
	cases := []struct {
		roll int
		want string
	}{
		{0, "A"},
		{49, "A"},
		{50, "B"},
		{79, "B"},
		{80, "C"},
		{99, "C"},
	}
	for _, c := range cases {
		got := utils.PickPrize(prizes, c.roll)
		if got.ID != c.want {
			t.Fatalf("PickPrize(roll=%d) = %s; want %s", c.roll, got.ID, c.want)
		}
	}
}

func TestPickPrizeOutOfRangeFallsBack(t *testing.T) {
	prizes := wheel()
	if got := utils.PickPrize(prizes, 500); got.ID != "A" {
		t.Fatalf("expected fallback to first prize, got %s", got.ID)
	}
}

func TestPickPrizeEmptyWheel(t *testing.T) {
	got := utils.PickPrize(nil, 0)
	if got.ID != "" {
		t.Fatalf("expected zero prize for empty wheel, got %s", got.ID)
	}
}
