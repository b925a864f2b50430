package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres/repository"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
	recentGames            = 5
)

// PlayerSummary combines the aggregate stats and latest games of a player.
type PlayerSummary struct {
	Stats  repository.PlayerStats
	Recent []entities.GameResult
}

// Accuracy returns the share of correct answers in percent.
func (p *PlayerSummary) Accuracy() int {
	if p.Stats.Answered == 0 {
		return 0
	}
	return p.Stats.CorrectAnswers * 100 / p.Stats.Answered
}

type LeaderboardService struct {
	results     ResultReader
	defaultSize int
}

func NewLeaderboardService(results ResultReader, defaultSize int) *LeaderboardService {
	if defaultSize <= 0 {
		defaultSize = defaultLeaderboardSize
	}
	return &LeaderboardService{results: results, defaultSize: defaultSize}
}

// Leaderboard returns the best results. A non-positive limit uses the configured size.
func (s *LeaderboardService) Leaderboard(ctx context.Context, limit int) ([]entities.GameResult, error) {
	if limit <= 0 {
		limit = s.defaultSize
	}
	limit = min(limit, maxLeaderboardSize)

	top, err := s.results.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	return top, nil
}

// PlayerSummary returns the stats and latest games of a Telegram user.
func (s *LeaderboardService) PlayerSummary(ctx context.Context, userID int64) (*PlayerSummary, error) {
	stats, err := s.results.StatsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get player stats: %w", err)
	}

	recent, err := s.results.ListByUser(ctx, userID, recentGames)
	if err != nil {
		return nil, fmt.Errorf("get recent games: %w", err)
	}

	return &PlayerSummary{Stats: *stats, Recent: recent}, nil
}
