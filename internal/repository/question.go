package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

//go:embed data/questions.json
var fallbackQuestionsJSON []byte

var ErrEmptyQuestionBank = errors.New("question bank is empty")

// QuestionRepository provides the static fallback question bank.
// The bank is read once and kept in memory.
type QuestionRepository struct {
	questions []entities.Question
}

// NewQuestionRepository creates a repository backed by the compiled-in question bank.
func NewQuestionRepository() (*QuestionRepository, error) {
	questions, err := parseQuestions(fallbackQuestionsJSON)
	if err != nil {
		return nil, err
	}
	return &QuestionRepository{questions: questions}, nil
}

// NewQuestionRepositoryFromFile creates a repository from a JSON file on disk.
func NewQuestionRepositoryFromFile(path string) (*QuestionRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	questions, err := parseQuestions(data)
	if err != nil {
		return nil, err
	}
	return &QuestionRepository{questions: questions}, nil
}

// GetAll returns a copy of every question in the bank.
func (r *QuestionRepository) GetAll(_ context.Context) ([]entities.Question, error) {
	out := make([]entities.Question, len(r.questions))
	copy(out, r.questions)
	return out, nil
}

// GetByCategory returns questions tagged with the category. An empty category returns everything.
func (r *QuestionRepository) GetByCategory(ctx context.Context, category string) ([]entities.Question, error) {
	if category == "" {
		return r.GetAll(ctx)
	}

	out := make([]entities.Question, 0, len(r.questions))
	for _, q := range r.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func parseQuestions(data []byte) ([]entities.Question, error) {
	var wrapper struct {
		Questions []entities.Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions JSON: %w", err)
	}

	if len(wrapper.Questions) == 0 {
		return nil, ErrEmptyQuestionBank
	}

	seen := make(map[string]struct{}, len(wrapper.Questions))
	for i := range wrapper.Questions {
		q := &wrapper.Questions[i]
		q.Difficulty = entities.ParseDifficulty(string(q.Difficulty))
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[q.ID]; ok {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
	}

	return wrapper.Questions, nil
}
