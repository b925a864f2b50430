package service

import (
	"context"
	"time"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres/repository"
)

// RemoteQuestionClient fetches questions from a remote trivia API.
type RemoteQuestionClient interface {
	FetchQuestions(ctx context.Context, amount, remoteCategory int) ([]entities.Question, error)
}

// FallbackQuestionRepository serves the bundled question bank.
type FallbackQuestionRepository interface {
	GetByCategory(ctx context.Context, category string) ([]entities.Question, error)
}

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]entities.Category, error)
	GetByID(ctx context.Context, id string) (*entities.Category, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
}

// ResultRecorder persists finished games.
type ResultRecorder interface {
	Record(ctx context.Context, result *entities.GameResult, answers []entities.AnswerRecord) error
}

// ResultReader reads finished games for leaderboards and stats.
type ResultReader interface {
	Top(ctx context.Context, limit int) ([]entities.GameResult, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]entities.GameResult, error)
	StatsByUser(ctx context.Context, userID int64) (*repository.PlayerStats, error)
}

// GameStorage keeps live games in memory.
type GameStorage interface {
	Store(g *entities.Game) string
	Get(id string) (*entities.Game, error)
	GetByUser(userID int64) (*entities.Game, error)
	Update(id string, fn func(g *entities.Game) error) (*entities.Game, error)
	UpdateAll(fn func(g *entities.Game) entities.Event) []entities.GameEvent
	Delete(id string)
	Sweep(now time.Time, ttl time.Duration) int
}

// GameNotifier is told about changes the ticker made to a game.
type GameNotifier interface {
	NotifyGameEvent(ctx context.Context, g *entities.Game, ev entities.Event)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn postgres.TxFunc) error
}
