package logger

import (
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/config"
)

func TestNewLevelByEnv(t *testing.T) {
	tests := []struct {
		env   string
		debug bool
	}{
		{env: "production", debug: false},
		{env: "local", debug: true},
		{env: "", debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			l, err := New(&config.Config{Env: tt.env})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := l.Core().Enabled(zap.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
		})
	}
}
