package entities

import "time"

// AnswerRecord is one answered (or timed out) question of a game.
type AnswerRecord struct {
	QuestionID string
	Category   string
	Difficulty Difficulty
	Selected   *int // nil on timeout
	Correct    bool
	TimedOut   bool
	Points     int
	Bonus      int
	AnsweredAt time.Time
}
