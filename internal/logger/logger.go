package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/config"
)

const appName = "trivia-quiz-bot"

// New builds the application logger. Production uses JSON at info level,
// every other env the development console encoder with debug enabled.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if cfg.Env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("app", appName), zap.String("env", cfg.Env)), nil
}
