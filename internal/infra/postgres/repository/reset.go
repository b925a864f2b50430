package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
)

type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetUser removes the finished games of a user. It returns how many results were deleted.
func (s *ResetRepository) ResetUser(ctx context.Context, userID int64) (int64, error) {
	_, err := s.db.Exec(ctx, `
		DELETE FROM game_answers
		WHERE result_id IN (SELECT id FROM game_results WHERE user_id = $1)
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete game_answers: %w", err)
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM game_results WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete game_results: %w", err)
	}

	return tag.RowsAffected(), nil
}
