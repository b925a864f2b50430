package entities

import (
	"errors"
	"fmt"
)

// Difficulty is the difficulty tier of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ErrInvalidQuestion = errors.New("invalid question")

// ParseDifficulty maps a raw difficulty string to a Difficulty.
// Unknown values fall back to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

// Question is a single multiple choice trivia question.
type Question struct {
	ID           string     `json:"id"`
	Category     string     `json:"category"`
	Difficulty   Difficulty `json:"difficulty"`
	Text         string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correct_index"`
	Explanation  string     `json:"explanation,omitempty"`
}

// Validate checks that the question has options and that the correct index points at one of them.
func (q *Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidQuestion)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("%w: %s has no options", ErrInvalidQuestion, q.ID)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: %s correct index %d out of range", ErrInvalidQuestion, q.ID, q.CorrectIndex)
	}
	return nil
}

// CorrectAnswer returns the text of the correct option.
func (q *Question) CorrectAnswer() string {
	return q.Options[q.CorrectIndex]
}

// IncorrectIndexes returns indexes of every option except the correct one.
func (q *Question) IncorrectIndexes() []int {
	out := make([]int, 0, len(q.Options))
	for i := range q.Options {
		if i != q.CorrectIndex {
			out = append(out, i)
		}
	}
	return out
}
