package entities

// StreakBonusEvery is the streak length that triggers a bonus.
const StreakBonusEvery = 3

// BasePoints returns the points for a correct answer before the streak multiplier.
func BasePoints(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyHard:
		return 30
	default:
		return 20
	}
}

// Points returns the award for a correct answer given the streak before answering.
func Points(d Difficulty, streakBefore int) int {
	return BasePoints(d) * (streakBefore + 1)
}

// StreakBonus returns the extra points paid when the new streak reaches a multiple of StreakBonusEvery.
func StreakBonus(points, newStreak int) int {
	if newStreak <= 0 || newStreak%StreakBonusEvery != 0 {
		return 0
	}
	return points / 2
}
