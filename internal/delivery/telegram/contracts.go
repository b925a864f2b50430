package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, firstName, username string) error
}

type GameService interface {
	Rules() entities.Rules
	Categories(ctx context.Context) ([]entities.Category, error)
	StartGame(ctx context.Context, req service.StartRequest) (*entities.Game, error)
	Get(ctx context.Context, gameID string) (*entities.Game, error)
	Answer(ctx context.Context, gameID string, option int) (*entities.Game, entities.AnswerOutcome, error)
	Advance(ctx context.Context, gameID string) (*entities.Game, error)
	UseLifeline(ctx context.Context, gameID string, lifeline entities.Lifeline) (*entities.Game, error)
	Quit(ctx context.Context, gameID string) error
	Restart(ctx context.Context, gameID string) (*entities.Game, error)
	AttachMessage(ctx context.Context, gameID string, messageID int) error
}

type LeaderboardService interface {
	Leaderboard(ctx context.Context, limit int) ([]entities.GameResult, error)
	PlayerSummary(ctx context.Context, userID int64) (*service.PlayerSummary, error)
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) error
}
