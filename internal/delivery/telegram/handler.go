package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentUpdates caps the updates handled at the same time.
const maxConcurrentUpdates = 32

// Commands is the command list registered with Telegram.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Open the main menu"},
	{Command: "play", Description: "Start a game (usage: /play science)"},
	{Command: "categories", Description: "Pick a category"},
	{Command: "top", Description: "Show the leaderboard"},
	{Command: "stats", Description: "Show your statistics"},
	{Command: "reset", Description: "Delete your game history"},
	{Command: "help", Description: "How to play"},
}

type Handler struct {
	bot                BotAPI
	logger             *zap.Logger
	userService        UserService
	gameService        GameService
	leaderboardService LeaderboardService
	resetService       ResetService
	leaderboardSize    int
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	userService UserService,
	gameService GameService,
	leaderboardService LeaderboardService,
	resetService ResetService,
	leaderboardSize int,
) *Handler {
	return &Handler{
		bot:                bot,
		logger:             logger,
		userService:        userService,
		gameService:        gameService,
		leaderboardService: leaderboardService,
		resetService:       resetService,
		leaderboardSize:    leaderboardSize,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	// Updates of different users must not wait on each other's remote fetch.
	var g errgroup.Group
	g.SetLimit(maxConcurrentUpdates)

	for {
		select {
		case <-ctx.Done():
			return g.Wait()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				h.handleUpdate(ctx, update)
				return nil
			})
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		if cb := update.CallbackQuery; cb.Message != nil {
			h.ensureUser(ctx, cb.From, cb.Message.Chat.ID)
		}
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	if from == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.ensureUser(ctx, from, chatID)

	if !update.Message.IsCommand() {
		h.send(newHTMLMessage(chatID, msgUseCommands))
		return
	}

	args := update.Message.CommandArguments()

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling("start", h.handleStart(from))(ctx, chatID)

	case "categories":
		_ = h.withErrorHandling("categories", h.handleCategories())(ctx, chatID)

	case "play":
		_ = h.withErrorHandling("play", h.handlePlay(from, args))(ctx, chatID)

	case "top":
		_ = h.withErrorHandling("top", h.handleTop())(ctx, chatID)

	case "stats":
		_ = h.withErrorHandling("stats", h.handleStats(from.ID))(ctx, chatID)

	case "reset":
		_ = h.withErrorHandling("reset", h.handleReset())(ctx, chatID)

	case "help":
		h.send(newHTMLMessage(chatID, helpText(h.gameService.Rules())))

	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) ensureUser(ctx context.Context, from *tgbotapi.User, chatID int64) {
	if from == nil {
		return
	}

	if err := h.userService.EnsureUser(ctx, from.ID, chatID, from.FirstName, from.UserName); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// sendMessage sends c and returns the id of the created message, 0 on failure.
func (h *Handler) sendMessage(c tgbotapi.Chattable) int {
	msg, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return 0
	}
	return msg.MessageID
}
