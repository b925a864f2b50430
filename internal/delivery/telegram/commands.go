package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

func (h *Handler) handleStart(from *tgbotapi.User) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		categories, err := h.gameService.Categories(ctx)
		if err != nil {
			return fmt.Errorf("get categories: %w", err)
		}

		msg := newHTMLMessage(chatID, welcomeText(from.FirstName))
		msg.ReplyMarkup = buildCategoryKeyboard(categories)
		h.send(msg)

		return nil
	}
}

func (h *Handler) handleCategories() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		categories, err := h.gameService.Categories(ctx)
		if err != nil {
			return fmt.Errorf("get categories: %w", err)
		}

		msg := newHTMLMessage(chatID, bold("📚 Pick a category"))
		msg.ReplyMarkup = buildCategoryKeyboard(categories)
		h.send(msg)

		return nil
	}
}

func (h *Handler) handlePlay(from *tgbotapi.User, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		category := parseCategoryArg(args)

		g, err := h.startGame(ctx, from, chatID, category)
		switch {
		case errors.Is(err, service.ErrUnknownCategory):
			categories, err := h.gameService.Categories(ctx)
			if err != nil {
				return fmt.Errorf("get categories: %w", err)
			}
			msg := newHTMLMessage(chatID, msgUnknownCategory)
			msg.ReplyMarkup = buildCategoryKeyboard(categories)
			h.send(msg)
			return nil

		case errors.Is(err, entities.ErrNoQuestions):
			h.sendError(chatID, msgNoQuestions)
			return nil

		case err != nil:
			return err
		}

		text, kb := renderGame(g)
		msg := newHTMLMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}

		if messageID := h.sendMessage(msg); messageID != 0 {
			h.attachMessage(ctx, g.ID, messageID)
		}
		return nil
	}
}

func (h *Handler) handleTop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		results, err := h.leaderboardService.Leaderboard(ctx, h.leaderboardSize)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, leaderboardText(results)))
		return nil
	}
}

func (h *Handler) handleStats(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		summary, err := h.leaderboardService.PlayerSummary(ctx, userID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, statsText(summary)))
		return nil
	}
}

func (h *Handler) handleReset() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

// startGame starts a game owned by the Telegram user.
func (h *Handler) startGame(ctx context.Context, from *tgbotapi.User, chatID int64, category string) (*entities.Game, error) {
	name := from.FirstName
	if from.UserName != "" {
		name = "@" + from.UserName
	}

	return h.gameService.StartGame(ctx, service.StartRequest{
		UserID:     from.ID,
		ChatID:     chatID,
		PlayerName: name,
		Category:   category,
	})
}

func (h *Handler) attachMessage(ctx context.Context, gameID string, messageID int) {
	if err := h.gameService.AttachMessage(ctx, gameID, messageID); err != nil {
		h.logger.Warn("failed to attach message to game",
			zap.String("game_id", gameID),
			zap.Error(err),
		)
	}
}

// parseCategoryArg normalizes the /play argument; "" and "any" mean every category.
func parseCategoryArg(args string) string {
	category := strings.ToLower(strings.TrimSpace(args))
	if category == categoryAny {
		return ""
	}
	return category
}
