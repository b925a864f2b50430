package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/random"
	"github.com/aliskhannn/trivia-quiz-bot/internal/repository"
)

// FallbackNotice is shown to players when the bundled questions replace the remote API.
const FallbackNotice = "Using fallback questions due to network issue"

var (
	ErrUnknownCategory = errors.New("unknown category")
	errEmptyRemote     = errors.New("remote returned no questions")
)

// QuestionSource loads questions from the remote API and falls back to the bundled bank.
type QuestionSource struct {
	remote     RemoteQuestionClient
	fallback   FallbackQuestionRepository
	categories CategoryRepository
	rng        *random.Rand
	logger     *zap.Logger
}

// NewQuestionSource creates a QuestionSource. A nil remote means offline mode.
func NewQuestionSource(
	remote RemoteQuestionClient,
	fallback FallbackQuestionRepository,
	categories CategoryRepository,
	rng *random.Rand,
	logger *zap.Logger,
) *QuestionSource {
	return &QuestionSource{
		remote:     remote,
		fallback:   fallback,
		categories: categories,
		rng:        rng,
		logger:     logger,
	}
}

// Fetch returns up to count shuffled questions of the category, "" meaning any.
// The notice is non-empty when the fallback bank was used because the remote failed.
func (s *QuestionSource) Fetch(ctx context.Context, count int, category string) ([]entities.Question, string, error) {
	if count <= 0 {
		return []entities.Question{}, "", nil
	}

	remoteID := 0
	if category != "" {
		c, err := s.categories.GetByID(ctx, category)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
			}
			return nil, "", fmt.Errorf("get category: %w", err)
		}
		remoteID = c.RemoteID
	}

	if s.remote == nil || (category != "" && remoteID == 0) {
		questions, err := s.fromFallback(ctx, count, category)
		return questions, "", err
	}

	questions, err := s.fromRemote(ctx, count, category, remoteID)
	if err == nil {
		return questions, "", nil
	}
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}

	s.logger.Warn("remote question fetch failed, using fallback",
		zap.String("category", category),
		zap.Int("count", count),
		zap.Error(err),
	)

	questions, err = s.fromFallback(ctx, count, category)
	if err != nil {
		return nil, "", err
	}

	return questions, FallbackNotice, nil
}

func (s *QuestionSource) fromRemote(ctx context.Context, count int, category string, remoteID int) ([]entities.Question, error) {
	questions, err := s.remote.FetchQuestions(ctx, count, remoteID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errEmptyRemote
	}

	if category != "" {
		for i := range questions {
			questions[i].Category = category
		}
	}

	questions = dedupe(questions)
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

func (s *QuestionSource) fromFallback(ctx context.Context, count int, category string) ([]entities.Question, error) {
	questions, err := s.fallback.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("get fallback questions: %w", err)
	}

	questions = dedupe(questions)
	s.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// dedupe drops questions whose id was already seen, keeping the first occurrence.
func dedupe(questions []entities.Question) []entities.Question {
	seen := make(map[string]struct{}, len(questions))
	out := questions[:0]
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}
