package utils

import "app/models"

// defaultPrizeProbability applies when a prize does not declare its own
// weight.
const defaultPrizeProbability = 10

// TotalProbability sums the selection weights of all prizes.
func TotalProbability(prizes []models.Prize) int {
	total := 0
	for _, prize := range prizes {
		total += prizeWeight(prize)
	}
	return total
}

// PickPrize selects a prize by weighted roll. roll must be in
// [0, TotalProbability(prizes)); out-of-range rolls fall back to the first
// prize so a caller bug never leaves the wheel without a result.
func PickPrize(prizes []models.Prize, roll int) models.Prize {
	if len(prizes) == 0 {
		return models.Prize{}
	}
	for _, prize := range prizes {
		roll -= prizeWeight(prize)
		if roll < 0 {
			return prize
		}
	}
	return prizes[0]
}

func prizeWeight(prize models.Prize) int {
	if prize.Probability <= 0 {
		return defaultPrizeProbability
	}
	return prize.Probability
}
