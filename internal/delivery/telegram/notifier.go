package telegram

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// NotifyGameEvent redraws the game message after a timeout or an automatic advance.
func (h *Handler) NotifyGameEvent(_ context.Context, g *entities.Game, ev entities.Event) {
	if g.ChatID == 0 || g.MessageID == 0 {
		return
	}

	h.logger.Debug("game event",
		zap.String("game_id", g.ID),
		zap.Int64("user_id", g.UserID),
		zap.String("event", string(ev)),
	)

	text, kb := renderGame(g)
	h.send(newHTMLEdit(g.ChatID, g.MessageID, text, kb))
}
