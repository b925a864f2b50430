package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
	"github.com/aliskhannn/trivia-quiz-bot/internal/storage"
)

const msgUnknownAction = "Unknown action."

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	var toast string
	switch data.Action {
	case actionCategory:
		toast = h.onCategory(ctx, cb, data.param(0))
	case actionAnswer:
		toast = h.onAnswer(ctx, cb, data.param(0), data.param(1))
	case actionLifeline:
		toast = h.onLifeline(ctx, cb, data.param(0), data.param(1))
	case actionNext:
		toast = h.onNext(ctx, cb, data.param(0))
	case actionQuit:
		toast = h.onQuit(ctx, cb, data.param(0))
	case actionAgain:
		toast = h.onAgain(ctx, cb, data.param(0))
	case actionMenu:
		toast = h.onMenu(ctx, chatID, messageID)
	case actionTop:
		_ = h.withErrorHandling("top", h.handleTop())(ctx, chatID)
	case actionReset:
		toast = h.onReset(ctx, cb, data.param(0))
	default:
		toast = msgUnknownAction
	}

	h.answerCallback(cb.ID, toast)
}

// answerCallback removes the loading state of the button, optionally showing a toast.
func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func (h *Handler) editGame(cb *tgbotapi.CallbackQuery, g *entities.Game) {
	text, kb := renderGame(g)
	h.send(newHTMLEdit(cb.Message.Chat.ID, cb.Message.MessageID, text, kb))
}

func (h *Handler) onCategory(ctx context.Context, cb *tgbotapi.CallbackQuery, category string) string {
	if category == categoryAny {
		category = ""
	}

	g, err := h.startGame(ctx, cb.From, cb.Message.Chat.ID, category)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCategory):
			return msgUnknownCategory
		case errors.Is(err, entities.ErrNoQuestions):
			return msgNoQuestions
		default:
			return h.internalError(err, cb)
		}
	}

	h.editGame(cb, g)
	h.attachMessage(ctx, g.ID, cb.Message.MessageID)
	return ""
}

func (h *Handler) onAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, gameID, rawOption string) string {
	option, err := strconv.Atoi(rawOption)
	if err != nil {
		return msgUnknownAction
	}
	if toast := h.checkOwner(ctx, cb, gameID); toast != "" {
		return toast
	}

	g, out, err := h.gameService.Answer(ctx, gameID, option)
	if err != nil {
		return h.errorToast(err, cb)
	}

	h.editGame(cb, g)

	switch {
	case out.Correct && out.Bonus > 0:
		return "🔥 Streak bonus!"
	case out.Correct:
		return "✅ Correct!"
	default:
		return "❌ Wrong!"
	}
}

func (h *Handler) onLifeline(ctx context.Context, cb *tgbotapi.CallbackQuery, gameID, rawLifeline string) string {
	lifeline, err := entities.ParseLifeline(rawLifeline)
	if err != nil {
		return msgUnknownAction
	}
	if toast := h.checkOwner(ctx, cb, gameID); toast != "" {
		return toast
	}

	g, err := h.gameService.UseLifeline(ctx, gameID, lifeline)
	if err != nil {
		if errors.Is(err, entities.ErrNotPlaying) && g != nil && g.IsPlaying() {
			return msgLifelineLater
		}
		return h.errorToast(err, cb)
	}

	h.editGame(cb, g)
	return ""
}

func (h *Handler) onNext(ctx context.Context, cb *tgbotapi.CallbackQuery, gameID string) string {
	if toast := h.checkOwner(ctx, cb, gameID); toast != "" {
		return toast
	}

	g, err := h.gameService.Advance(ctx, gameID)
	if err != nil {
		return h.errorToast(err, cb)
	}

	h.editGame(cb, g)
	return ""
}

func (h *Handler) onQuit(ctx context.Context, cb *tgbotapi.CallbackQuery, gameID string) string {
	if toast := h.checkOwner(ctx, cb, gameID); toast != "" {
		return toast
	}

	if err := h.gameService.Quit(ctx, gameID); err != nil {
		return h.errorToast(err, cb)
	}

	kb := buildMenuKeyboard()
	h.send(newHTMLEdit(cb.Message.Chat.ID, cb.Message.MessageID, msgGameQuit, &kb))
	return ""
}

func (h *Handler) onAgain(ctx context.Context, cb *tgbotapi.CallbackQuery, gameID string) string {
	if toast := h.checkOwner(ctx, cb, gameID); toast != "" {
		return toast
	}

	g, err := h.gameService.Restart(ctx, gameID)
	if err != nil {
		if errors.Is(err, entities.ErrNoQuestions) {
			return msgNoQuestions
		}
		return h.errorToast(err, cb)
	}

	text, kb := renderGame(g)
	msg := newHTMLMessage(cb.Message.Chat.ID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	if messageID := h.sendMessage(msg); messageID != 0 {
		h.attachMessage(ctx, g.ID, messageID)
	}
	return ""
}

func (h *Handler) onMenu(ctx context.Context, chatID int64, messageID int) string {
	categories, err := h.gameService.Categories(ctx)
	if err != nil {
		h.logger.Error("failed to get categories", zap.Error(err))
		return msgInternalError
	}

	kb := buildCategoryKeyboard(categories)
	h.send(newHTMLEdit(chatID, messageID, bold("📚 Pick a category"), &kb))
	return ""
}

func (h *Handler) onReset(ctx context.Context, cb *tgbotapi.CallbackQuery, choice string) string {
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	switch choice {
	case resetConfirm:
		if err := h.resetService.ResetUser(ctx, cb.From.ID); err != nil {
			return h.internalError(err, cb)
		}
		h.send(newHTMLEdit(chatID, messageID, msgResetDone, nil))
	case resetCancel:
		h.send(newHTMLEdit(chatID, messageID, msgResetCancelled, nil))
	default:
		return msgUnknownAction
	}
	return ""
}

// checkOwner returns a toast when the game is missing or belongs to someone else.
func (h *Handler) checkOwner(ctx context.Context, cb *tgbotapi.CallbackQuery, gameID string) string {
	g, err := h.gameService.Get(ctx, gameID)
	if err != nil {
		return h.errorToast(err, cb)
	}
	if g.UserID != cb.From.ID {
		return msgNotYourGame
	}
	return ""
}

// errorToast maps game errors to a short message for the callback answer.
func (h *Handler) errorToast(err error, cb *tgbotapi.CallbackQuery) string {
	switch {
	case errors.Is(err, storage.ErrGameNotFound), errors.Is(err, entities.ErrNotPlaying):
		return msgGameExpired
	case errors.Is(err, entities.ErrAlreadyAnswered):
		return msgAlreadyAnswered
	case errors.Is(err, entities.ErrAnswerPending):
		return msgAnswerFirst
	case errors.Is(err, entities.ErrOptionEliminated):
		return msgOptionEliminated
	case errors.Is(err, entities.ErrLifelineUsed):
		return msgLifelineUsed
	case errors.Is(err, entities.ErrInvalidOption), errors.Is(err, entities.ErrUnknownLifeline):
		return msgUnknownAction
	default:
		return h.internalError(err, cb)
	}
}

func (h *Handler) internalError(err error, cb *tgbotapi.CallbackQuery) string {
	h.logger.Error("callback error",
		zap.Int64("user_id", cb.From.ID),
		zap.String("data", cb.Data),
		zap.Error(err),
	)
	return msgInternalError
}
