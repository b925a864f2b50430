package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

const (
	tickInterval  = time.Second
	recordTimeout = 5 * time.Second
)

// QuestionProvider loads the questions for a new game.
type QuestionProvider interface {
	Fetch(ctx context.Context, count int, category string) ([]entities.Question, string, error)
}

// StartRequest identifies the owner and category of a new game.
type StartRequest struct {
	UserID     int64 // 0 for HTTP players
	ChatID     int64
	PlayerName string
	Category   string
}

// GameService drives live games: creation, answers, lifelines and the countdown.
type GameService struct {
	storage    GameStorage
	questions  QuestionProvider
	categories CategoryRepository
	lifelines  *LifelineSimulator
	results    ResultRecorder
	notifier   GameNotifier
	rules      entities.Rules
	logger     *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewGameService creates a new game service. results may be nil to skip persistence.
func NewGameService(
	storage GameStorage,
	questions QuestionProvider,
	categories CategoryRepository,
	lifelines *LifelineSimulator,
	results ResultRecorder,
	rules entities.Rules,
	logger *zap.Logger,
) *GameService {
	return &GameService{
		storage:    storage,
		questions:  questions,
		categories: categories,
		lifelines:  lifelines,
		results:    results,
		rules:      rules,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// SetNotifier sets the notifier (called after the delivery layer is created).
func (s *GameService) SetNotifier(notifier GameNotifier) {
	s.notifier = notifier
}

// Rules returns the rule set new games are created with.
func (s *GameService) Rules() entities.Rules {
	return s.rules
}

// Categories returns the playable categories.
func (s *GameService) Categories(ctx context.Context) ([]entities.Category, error) {
	return s.categories.GetAll(ctx)
}

// StartGame creates a game, loads its questions and shows the first one.
// A live game of the same Telegram user is discarded.
func (s *GameService) StartGame(ctx context.Context, req StartRequest) (*entities.Game, error) {
	g := entities.NewGame(s.newID(), s.rules, req.Category, s.now())
	g.UserID = req.UserID
	g.ChatID = req.ChatID
	g.PlayerName = req.PlayerName

	questions, notice, err := s.questions.Fetch(ctx, s.rules.QuestionsPerGame, req.Category)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	g.Notice = notice
	if err := g.Begin(questions, s.now()); err != nil {
		return nil, err
	}

	if replaced := s.storage.Store(g); replaced != "" {
		s.logger.Debug("previous game discarded",
			zap.Int64("user_id", req.UserID),
			zap.String("game_id", replaced),
		)
	}

	s.logger.Info("game started",
		zap.String("game_id", g.ID),
		zap.Int64("user_id", req.UserID),
		zap.String("category", req.Category),
		zap.Int("questions", len(questions)),
		zap.Bool("fallback", notice != ""),
	)

	return g.Clone(), nil
}

// Get returns a snapshot of a game.
func (s *GameService) Get(_ context.Context, gameID string) (*entities.Game, error) {
	return s.storage.Get(gameID)
}

// ActiveByUser returns the live game of a Telegram user.
func (s *GameService) ActiveByUser(_ context.Context, userID int64) (*entities.Game, error) {
	return s.storage.GetByUser(userID)
}

// AttachMessage remembers the Telegram message that renders the game.
func (s *GameService) AttachMessage(_ context.Context, gameID string, messageID int) error {
	_, err := s.storage.Update(gameID, func(g *entities.Game) error {
		g.MessageID = messageID
		return nil
	})
	return err
}

// Answer selects an option of the current question.
func (s *GameService) Answer(ctx context.Context, gameID string, option int) (*entities.Game, entities.AnswerOutcome, error) {
	var out entities.AnswerOutcome
	g, err := s.storage.Update(gameID, func(g *entities.Game) error {
		var err error
		out, err = g.Select(option, s.now())
		return err
	})
	if err != nil {
		return g, out, err
	}

	if out.GameOver {
		s.recordResult(ctx, g)
	}

	return g, out, nil
}

// Advance moves a revealed question on to the next one or ends the game.
func (s *GameService) Advance(ctx context.Context, gameID string) (*entities.Game, error) {
	g, err := s.storage.Update(gameID, func(g *entities.Game) error {
		return g.Advance(s.now())
	})
	if err != nil {
		return g, err
	}

	if g.IsOver() {
		s.recordResult(ctx, g)
	}

	return g, nil
}

// UseLifeline applies a lifeline to the current question.
func (s *GameService) UseLifeline(_ context.Context, gameID string, lifeline entities.Lifeline) (*entities.Game, error) {
	return s.storage.Update(gameID, func(g *entities.Game) error {
		if err := g.CanUseLifeline(lifeline); err != nil {
			return err
		}

		q := g.Current()
		now := s.now()

		switch lifeline {
		case entities.LifelineFiftyFifty:
			return g.ApplyFiftyFifty(s.lifelines.EliminateTwo(q), now)
		case entities.LifelineAudience:
			return g.ApplyAudience(s.lifelines.AudiencePoll(q, g.Eliminated), now)
		case entities.LifelinePhoneFriend:
			return g.ApplyPhoneFriend(s.lifelines.PhoneFriend(q, g.Eliminated), now)
		default:
			return entities.ErrUnknownLifeline
		}
	})
}

// Quit discards a game without recording a result.
func (s *GameService) Quit(_ context.Context, gameID string) error {
	if _, err := s.storage.Get(gameID); err != nil {
		return err
	}
	s.storage.Delete(gameID)

	s.logger.Debug("game quit", zap.String("game_id", gameID))
	return nil
}

// Restart starts a new game for the same player and category.
func (s *GameService) Restart(ctx context.Context, gameID string) (*entities.Game, error) {
	prev, err := s.storage.Get(gameID)
	if err != nil {
		return nil, err
	}

	g, err := s.StartGame(ctx, StartRequest{
		UserID:     prev.UserID,
		ChatID:     prev.ChatID,
		PlayerName: prev.PlayerName,
		Category:   prev.Category,
	})
	if err != nil {
		return nil, err
	}

	if prev.UserID == 0 {
		s.storage.Delete(prev.ID)
	}
	return g, nil
}

// Run ticks every live game once per second until ctx is cancelled.
func (s *GameService) Run(ctx context.Context) error {
	s.logger.Info("game ticker started")
	defer s.logger.Info("game ticker stopped")

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *GameService) tick(ctx context.Context) {
	now := s.now()
	events := s.storage.UpdateAll(func(g *entities.Game) entities.Event {
		return g.Tick(now)
	})

	for _, ev := range events {
		if ev.Event == entities.EventGameOver {
			s.recordResult(ctx, ev.Game)
		}
		if s.notifier != nil {
			s.notifier.NotifyGameEvent(ctx, ev.Game, ev.Event)
		}
	}
}

// recordResult persists a finished game. Failures are logged only.
func (s *GameService) recordResult(ctx context.Context, g *entities.Game) {
	if s.results == nil || g.Outcome == entities.OutcomeNoQuestions {
		return
	}

	// The game is already over, so a cancelled caller must not lose the result.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	res := g.Result()
	if err := s.results.Record(ctx, &res, g.History); err != nil {
		s.logger.Error("failed to record game result",
			zap.String("game_id", g.ID),
			zap.Int64("user_id", g.UserID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("game finished",
		zap.String("game_id", g.ID),
		zap.Int64("user_id", g.UserID),
		zap.String("outcome", string(g.Outcome)),
		zap.Int("score", g.Score),
	)
}
