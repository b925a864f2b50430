package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres/repository"
)

type ResetService struct {
	tr     Transactor
	games  GameStorage
	logger *zap.Logger
}

func NewResetService(
	tr Transactor,
	games GameStorage,
	logger *zap.Logger,
) *ResetService {
	return &ResetService{
		tr:     tr,
		games:  games,
		logger: logger,
	}
}

// ResetUser deletes the finished games of a user and discards the live one.
func (s *ResetService) ResetUser(ctx context.Context, userID int64) error {
	var deleted int64
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		resetRepo := repository.NewResetRepository(tx)

		n, err := resetRepo.ResetUser(ctx, userID)
		if err != nil {
			return err
		}
		deleted = n

		return nil
	})
	if err != nil {
		return err
	}

	if g, err := s.games.GetByUser(userID); err == nil {
		s.games.Delete(g.ID)
	}

	s.logger.Info("user history reset",
		zap.Int64("user_id", userID),
		zap.Int64("results_deleted", deleted),
	)
	return nil
}
