package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/random"
	"github.com/aliskhannn/trivia-quiz-bot/internal/repository"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
	"github.com/aliskhannn/trivia-quiz-bot/internal/storage"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	updates  chan tgbotapi.Update
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: 100 + b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	if b.updates != nil {
		return b.updates
	}
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) sentTo(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			return true
		}
	}
	return false
}

func (b *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	if len(b.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	switch c := b.sent[len(b.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	default:
		t.Fatalf("unexpected chattable %T", c)
		return ""
	}
}

func (b *fakeBot) lastToast(t *testing.T) string {
	t.Helper()
	if len(b.requests) == 0 {
		t.Fatal("callback was not answered")
	}
	cb, ok := b.requests[len(b.requests)-1].(tgbotapi.CallbackConfig)
	if !ok {
		t.Fatalf("unexpected request %T", b.requests[len(b.requests)-1])
	}
	return cb.Text
}

type fakeUsers struct {
	mu      sync.Mutex
	ensured []int64
}

func (f *fakeUsers) EnsureUser(_ context.Context, userID, _ int64, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = append(f.ensured, userID)
	return nil
}

type fakeLeaderboard struct{}

func (fakeLeaderboard) Leaderboard(context.Context, int) ([]entities.GameResult, error) {
	return []entities.GameResult{{PlayerName: "<ann>", Score: 120, Level: 2, CorrectAnswers: 4, Answered: 5}}, nil
}

func (fakeLeaderboard) PlayerSummary(context.Context, int64) (*service.PlayerSummary, error) {
	return &service.PlayerSummary{}, nil
}

type fakeReset struct{ reset []int64 }

func (f *fakeReset) ResetUser(_ context.Context, userID int64) error {
	f.reset = append(f.reset, userID)
	return nil
}

type handlerFixture struct {
	h     *Handler
	bot   *fakeBot
	games *service.GameService
	users *fakeUsers
	reset *fakeReset
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	bank, err := repository.NewQuestionRepository()
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	categories := repository.NewCategoryRepository()
	rng := random.New(1)

	games := service.NewGameService(
		storage.NewGameStorage(),
		service.NewQuestionSource(nil, bank, categories, rng, zap.NewNop()),
		categories,
		service.NewLifelineSimulator(rng),
		nil,
		entities.DefaultRules(),
		zap.NewNop(),
	)

	bot := &fakeBot{}
	users := &fakeUsers{}
	reset := &fakeReset{}
	h := NewHandler(bot, zap.NewNop(), users, games, fakeLeaderboard{}, reset, 10)

	return &handlerFixture{h: h, bot: bot, games: games, users: users, reset: reset}
}

func commandUpdate(userID int64, text string) tgbotapi.Update {
	cmd := strings.Fields(text)[0]
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: userID, FirstName: "Ann"},
			Chat:      &tgbotapi.Chat{ID: userID * 10},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
		},
	}
}

func callbackUpdate(userID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			From: &tgbotapi.User{ID: userID, FirstName: "Ann"},
			Message: &tgbotapi.Message{
				MessageID: messageID,
				Chat:      &tgbotapi.Chat{ID: userID * 10},
			},
			Data: data,
		},
	}
}

func TestPlayCommandStartsGame(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.h.handleUpdate(ctx, commandUpdate(1, "/play science"))

	text := f.bot.lastText(t)
	if !strings.Contains(text, "Question 1/3") || !strings.Contains(text, "30s per question") {
		t.Errorf("unexpected message:\n%s", text)
	}

	g, err := f.games.ActiveByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveByUser: %v", err)
	}
	if g.Category != "science" || g.ChatID != 10 || g.MessageID != 101 {
		t.Errorf("category=%q chat=%d message=%d", g.Category, g.ChatID, g.MessageID)
	}
	if len(f.users.ensured) != 1 || f.users.ensured[0] != 1 {
		t.Errorf("ensured users = %v", f.users.ensured)
	}
}

func TestPlayUnknownCategoryShowsPicker(t *testing.T) {
	f := newHandlerFixture(t)

	f.h.handleUpdate(context.Background(), commandUpdate(1, "/play cooking"))

	msg, ok := f.bot.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T", f.bot.sent[0])
	}
	if msg.Text != msgUnknownCategory {
		t.Errorf("text = %q", msg.Text)
	}
	if _, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); !ok {
		t.Errorf("missing category keyboard")
	}
}

func TestAnswerCallback(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.h.handleUpdate(ctx, commandUpdate(1, "/play history"))
	g, _ := f.games.ActiveByUser(ctx, 1)

	f.h.handleUpdate(ctx, callbackUpdate(1, g.MessageID, buildAnswerCallback(g.ID, g.Current().CorrectIndex)))

	if toast := f.bot.lastToast(t); toast != "✅ Correct!" {
		t.Errorf("toast = %q", toast)
	}
	if text := f.bot.lastText(t); !strings.Contains(text, "Correct! +") {
		t.Errorf("edit text:\n%s", text)
	}

	f.h.handleUpdate(ctx, callbackUpdate(1, g.MessageID, buildAnswerCallback(g.ID, 0)))
	if toast := f.bot.lastToast(t); toast != msgAlreadyAnswered {
		t.Errorf("second answer toast = %q", toast)
	}
}

func TestCallbackFromAnotherUser(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.h.handleUpdate(ctx, commandUpdate(1, "/play"))
	g, _ := f.games.ActiveByUser(ctx, 1)

	f.h.handleUpdate(ctx, callbackUpdate(2, g.MessageID, buildLifelineCallback(g.ID, entities.LifelineAudience)))

	if toast := f.bot.lastToast(t); toast != msgNotYourGame {
		t.Errorf("toast = %q", toast)
	}
	g, _ = f.games.Get(ctx, g.ID)
	if g.Lifelines.Audience {
		t.Error("lifeline consumed by another user")
	}
}

func TestLifelineCallback(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.h.handleUpdate(ctx, commandUpdate(1, "/play"))
	g, _ := f.games.ActiveByUser(ctx, 1)

	data := buildLifelineCallback(g.ID, entities.LifelineFiftyFifty)
	f.h.handleUpdate(ctx, callbackUpdate(1, g.MessageID, data))
	if text := f.bot.lastText(t); !strings.Contains(text, "<s>") {
		t.Errorf("eliminated options not struck through:\n%s", text)
	}

	f.h.handleUpdate(ctx, callbackUpdate(1, g.MessageID, data))
	if toast := f.bot.lastToast(t); toast != msgLifelineUsed {
		t.Errorf("toast = %q", toast)
	}
}

func TestQuitCallback(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.h.handleUpdate(ctx, commandUpdate(1, "/play"))
	g, _ := f.games.ActiveByUser(ctx, 1)

	f.h.handleUpdate(ctx, callbackUpdate(1, g.MessageID, buildQuitCallback(g.ID)))
	if text := f.bot.lastText(t); text != msgGameQuit {
		t.Errorf("text = %q", text)
	}

	f.h.handleUpdate(ctx, callbackUpdate(1, g.MessageID, buildNextCallback(g.ID)))
	if toast := f.bot.lastToast(t); toast != msgGameExpired {
		t.Errorf("toast = %q", toast)
	}
}

func TestResetFlow(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.h.handleUpdate(ctx, commandUpdate(5, "/reset"))
	if text := f.bot.lastText(t); text != msgResetConfirm {
		t.Errorf("text = %q", text)
	}

	f.h.handleUpdate(ctx, callbackUpdate(5, 101, buildResetConfirmCallback()))
	if len(f.reset.reset) != 1 || f.reset.reset[0] != 5 {
		t.Errorf("reset = %v", f.reset.reset)
	}
	if text := f.bot.lastText(t); text != msgResetDone {
		t.Errorf("text = %q", text)
	}
}

func TestTopEscapesNames(t *testing.T) {
	f := newHandlerFixture(t)

	f.h.handleUpdate(context.Background(), commandUpdate(1, "/top"))

	text := f.bot.lastText(t)
	if !strings.Contains(text, "&lt;ann&gt;") {
		t.Errorf("player name not escaped:\n%s", text)
	}
}

func TestNotifyGameEventEditsMessage(t *testing.T) {
	f := newHandlerFixture(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	g := entities.NewGame("g1", entities.DefaultRules(), "", now)
	if err := g.Begin([]entities.Question{{
		ID:           "q1",
		Category:     "science",
		Difficulty:   entities.DifficultyEasy,
		Text:         "2+2?",
		Options:      []string{"3", "4"},
		CorrectIndex: 1,
	}}, now); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := g.Timeout(now); err != nil {
		t.Fatalf("Timeout: %v", err)
	}

	// Games without a Telegram message are ignored.
	f.h.NotifyGameEvent(context.Background(), g, entities.EventTimeout)
	if len(f.bot.sent) != 0 {
		t.Fatalf("sent %d messages for a game without a message", len(f.bot.sent))
	}

	g.ChatID = 10
	g.MessageID = 77
	f.h.NotifyGameEvent(context.Background(), g, entities.EventTimeout)

	edit, ok := f.bot.sent[0].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("sent %T, want an edit", f.bot.sent[0])
	}
	if edit.ChatID != 10 || edit.MessageID != 77 {
		t.Errorf("edited chat=%d message=%d", edit.ChatID, edit.MessageID)
	}
	if !strings.Contains(edit.Text, "Time's up! The answer was B. 4") {
		t.Errorf("edit text:\n%s", edit.Text)
	}
}

type blockingLeaderboard struct {
	fakeLeaderboard
	entered chan struct{}
	release chan struct{}
}

func (b *blockingLeaderboard) Leaderboard(ctx context.Context, limit int) ([]entities.GameResult, error) {
	close(b.entered)
	<-b.release
	return b.fakeLeaderboard.Leaderboard(ctx, limit)
}

func TestRunDoesNotBlockOnSlowUpdate(t *testing.T) {
	f := newHandlerFixture(t)
	updates := make(chan tgbotapi.Update)
	bot := &fakeBot{updates: updates}
	lb := &blockingLeaderboard{entered: make(chan struct{}), release: make(chan struct{})}
	h := NewHandler(bot, zap.NewNop(), &fakeUsers{}, f.games, lb, &fakeReset{}, 10)

	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background()) }()

	updates <- commandUpdate(1, "/top")
	<-lb.entered
	updates <- commandUpdate(2, "/help")

	deadline := time.After(2 * time.Second)
	for !bot.sentTo(20) {
		select {
		case <-deadline:
			close(lb.release)
			t.Fatal("/help waited for the slow /top")
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(lb.release)
	close(updates)

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !bot.sentTo(10) {
		t.Error("/top reply was not sent before Run returned")
	}
}

type failingLeaderboard struct{ fakeLeaderboard }

func (failingLeaderboard) Leaderboard(context.Context, int) ([]entities.GameResult, error) {
	return nil, errors.New("db down")
}

func TestFailedCommandIsLogged(t *testing.T) {
	f := newHandlerFixture(t)
	core, logs := observer.New(zapcore.ErrorLevel)
	bot := &fakeBot{}
	h := NewHandler(bot, zap.New(core), &fakeUsers{}, f.games, failingLeaderboard{}, &fakeReset{}, 10)

	h.handleUpdate(context.Background(), commandUpdate(1, "/top"))

	if got := bot.lastText(t); got != msgInternalError {
		t.Errorf("text = %q", got)
	}
	entries := logs.FilterMessage("command failed").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d failures, want 1", len(entries))
	}
	if cmd := entries[0].ContextMap()["command"]; cmd != "top" {
		t.Errorf("command field = %v", cmd)
	}
}
