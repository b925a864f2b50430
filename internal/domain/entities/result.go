package entities

import "time"

// GameResult is the persisted summary of a finished game.
type GameResult struct {
	ID             int64
	GameID         string
	UserID         *int64 // nil for anonymous HTTP players
	PlayerName     string
	Category       string
	Score          int
	Level          int
	BestStreak     int
	CorrectAnswers int
	Answered       int
	TotalQuestions int
	Outcome        Outcome
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Accuracy returns the share of answered questions that were correct, in percent.
func (r GameResult) Accuracy() float64 {
	if r.Answered == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.Answered) * 100
}
