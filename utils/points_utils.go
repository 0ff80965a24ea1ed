package utils

// rechargeBonuses maps each supported top-up amount to its bonus points.
var rechargeBonuses = map[int]int{
	50:  0,
	100: 5,
	200: 15,
	500: 50,
}

// RechargeBonus returns the bonus granted for a top-up amount. ok is false
// for amounts outside the supported tiers.
func RechargeBonus(amount int) (int, bool) {
	bonus, ok := rechargeBonuses[amount]
	return bonus, ok
}

// WelcomePoints is the one-time signup bonus.
const WelcomePoints = 100
